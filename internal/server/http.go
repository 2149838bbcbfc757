package server

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/auth"
	"github.com/gokatarajesh/trivia-api/internal/auth/jwt"
	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/question"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

// NewHTTPServer wraps the API router in an *http.Server bound to cfg.HTTPAddr.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, redis *redis.Client, questions *question.HTTPHandler, tokens *jwt.Manager) *http.Server {
	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: NewRouter(cfg, logger, pool, redis, questions, tokens),
	}
}

// NewRouter wires the trivia routes plus health and metrics endpoints.
// tokens may be nil, which leaves the mutating routes open.
func NewRouter(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, redis *redis.Client, questions *question.HTTPHandler, tokens *jwt.Manager) http.Handler {
	mux := http.NewServeMux()
	editorOnly := auth.RequireEditor(tokens, logger)

	mux.Handle("/healthz", methods{
		http.MethodGet: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		}),
	})
	mux.Handle("/readyz", methods{
		http.MethodGet: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := pingDependencies(r.Context(), pool, redis); err != nil {
				logger.Error().Err(err).Msg("dependency ping failed")
				httperrors.RespondInternalError(w)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ready"}`))
		}),
	})
	mux.Handle("/metrics", promhttp.Handler())

	mux.Handle("/categories", methods{
		http.MethodGet: http.HandlerFunc(questions.ListCategories),
	})
	mux.Handle("/categories/{category_id}/questions", methods{
		http.MethodGet: http.HandlerFunc(questions.ListQuestionsByCategory),
	})
	mux.Handle("/questions", methods{
		http.MethodGet:  http.HandlerFunc(questions.ListQuestions),
		http.MethodPost: editorOnly(http.HandlerFunc(questions.CreateQuestion)),
	})
	mux.Handle("/questions/search", methods{
		http.MethodPost: http.HandlerFunc(questions.SearchQuestions),
	})
	mux.Handle("/questions/{id}", methods{
		http.MethodDelete: editorOnly(http.HandlerFunc(questions.DeleteQuestion)),
	})
	mux.Handle("/quiz", methods{
		http.MethodPost: http.HandlerFunc(questions.PlayQuiz),
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondNotFound(w)
	})

	return withMiddleware(mux, cfg.CORS, logger)
}

// withMiddleware wraps h, innermost first, in recovery, metrics, CORS and
// the request context. Recovery sits inside metrics so recovered panics are
// counted as 500s.
func withMiddleware(h http.Handler, corsCfg config.CORS, logger zerolog.Logger) http.Handler {
	h = recoverer(h)
	h = instrument(h)
	h = cors(corsCfg)(h)
	return requestContext(logger)(h)
}

// methods dispatches on the request method so that a known path with an
// unsupported verb gets the 405 envelope rather than the mux's plain text.
type methods map[string]http.Handler

func (m methods) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h, ok := m[r.Method]; ok {
		h.ServeHTTP(w, r)
		return
	}
	if r.Method == http.MethodHead {
		if h, ok := m[http.MethodGet]; ok {
			h.ServeHTTP(w, r)
			return
		}
	}
	w.Header().Set("Allow", m.allow())
	httperrors.RespondMethodNotAllowed(w)
}

func (m methods) allow() string {
	verbs := make([]string, 0, len(m)+1)
	for verb := range m {
		verbs = append(verbs, verb)
	}
	verbs = append(verbs, http.MethodOptions)
	sort.Strings(verbs)
	return strings.Join(verbs, ", ")
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redis *redis.Client) error {
	if pool == nil {
		return errors.New("postgres pool not configured")
	}
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	if redis != nil {
		if err := redis.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}
