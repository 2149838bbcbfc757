package question

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/metrics"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

// allCategoriesID is the quiz category id the client sends for "All".
const allCategoriesID = 0

// HTTPHandler exposes the question bank over JSON.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandler constructs the question bank HTTP handler.
func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "question_http").Logger(),
	}
}

// ListCategories handles GET /categories
func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		h.fail(w, r, err, http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"categories": categoryMap(categories),
	})
}

// ListQuestions handles GET /questions?page=N
func (h *HTTPHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}

	listing, err := h.svc.ListQuestions(r.Context(), page)
	if err != nil {
		h.fail(w, r, err, http.StatusInternalServerError)
		return
	}
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		h.fail(w, r, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"questions":        listing.Questions,
		"total_questions":  listing.Total,
		"categories":       categoryMap(categories),
		"current_category": nil,
	})
}

// DeleteQuestion handles DELETE /questions/{id}
func (h *HTTPHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httperrors.RespondNotFound(w)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}

	listing, err := h.svc.DeleteQuestion(r.Context(), id, page)
	if err != nil {
		h.fail(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"deleted":         id,
		"questions":       listing.Questions,
		"total_questions": listing.Total,
	})
}

type createPayload struct {
	Question   *string `json:"question"`
	Answer     *string `json:"answer"`
	Category   *flexID `json:"category"`
	Difficulty *flexID `json:"difficulty"`
}

// CreateQuestion handles POST /questions
func (h *HTTPHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var payload createPayload
	if err := decodeBody(r, &payload); err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}

	newQuestion := NewQuestion{
		Question: payload.Question,
		Answer:   payload.Answer,
	}
	if payload.Category != nil {
		category := int64(*payload.Category)
		newQuestion.Category = &category
	}
	if payload.Difficulty != nil {
		difficulty := int64(*payload.Difficulty)
		newQuestion.Difficulty = &difficulty
	}

	id, listing, err := h.svc.CreateQuestion(r.Context(), newQuestion, page)
	if err != nil {
		h.fail(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"created":         id,
		"questions":       listing.Questions,
		"total_questions": listing.Total,
	})
}

type searchPayload struct {
	SearchText *string `json:"searchText"`
}

// SearchQuestions handles POST /questions/search
func (h *HTTPHandler) SearchQuestions(w http.ResponseWriter, r *http.Request) {
	var payload searchPayload
	if err := decodeBody(r, &payload); err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}

	var term string
	if payload.SearchText != nil {
		term = *payload.SearchText
	}
	listing, err := h.svc.Search(r.Context(), term, page)
	if err != nil {
		h.fail(w, r, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"questions":       listing.Questions,
		"total_questions": listing.Total,
	})
}

// ListQuestionsByCategory handles GET /categories/{category_id}/questions
func (h *HTTPHandler) ListQuestionsByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "category_id")
	if !ok {
		httperrors.RespondNotFound(w)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}

	listing, err := h.svc.QuestionsByCategory(r.Context(), categoryID, page)
	if err != nil {
		h.fail(w, r, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"category":        categoryID,
		"questions":       listing.Questions,
		"total_questions": listing.Total,
	})
}

type quizPayload struct {
	PreviousQuestions *[]flexID `json:"previous_questions"`
	Category          *struct {
		ID   *flexID `json:"id"`
		Type string  `json:"type"`
	} `json:"category"`
}

// PlayQuiz handles POST /quiz
func (h *HTTPHandler) PlayQuiz(w http.ResponseWriter, r *http.Request) {
	var payload quizPayload
	if err := decodeBody(r, &payload); err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}
	req, err := payload.toRequest()
	if err != nil {
		h.fail(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	result, err := h.svc.PlayQuiz(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, http.StatusInternalServerError)
		return
	}

	if result.Exhausted() {
		metrics.ObserveQuiz(metrics.QuizExhausted)
	} else {
		metrics.ObserveQuiz(metrics.QuizServed)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"question": result.Question,
	})
}

func (p quizPayload) toRequest() (QuizRequest, error) {
	if p.PreviousQuestions == nil {
		return QuizRequest{}, fmt.Errorf("previous_questions: %w", ErrMissingField)
	}
	if p.Category == nil || p.Category.ID == nil {
		return QuizRequest{}, fmt.Errorf("category: %w", ErrMissingField)
	}

	previous := make([]int64, 0, len(*p.PreviousQuestions))
	for _, id := range *p.PreviousQuestions {
		previous = append(previous, int64(id))
	}

	scope := AllCategories()
	if id := int64(*p.Category.ID); id != allCategoriesID {
		scope = SpecificCategory(id)
	}
	return QuizRequest{Scope: scope, Previous: previous}, nil
}

// fail maps err to a status once: domain errors carry their own status,
// anything else is a store failure reported as fallback.
func (h *HTTPHandler) fail(w http.ResponseWriter, r *http.Request, err error, fallback int) {
	status, known := statusFor(err)
	if !known {
		status = fallback
		h.logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Int("status", status).Msg("store failure")
	} else {
		reqLogger := logging.FromContext(r.Context())
		reqLogger.Debug().Err(err).Int("status", status).Msg("request rejected")
	}
	httperrors.RespondError(w, status)
}

func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, ErrQuestionNotFound),
		errors.Is(err, ErrCategoryNotFound),
		errors.Is(err, ErrPageNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, ErrInvalidPage), errors.Is(err, errMalformedBody):
		return http.StatusBadRequest, true
	case errors.Is(err, ErrMissingField), errors.Is(err, ErrQuestionRejected):
		return http.StatusUnprocessableEntity, true
	default:
		return 0, false
	}
}

var errMalformedBody = errors.New("malformed request body")

// decodeBody reads a single JSON object into dst.
func decodeBody(r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %w", errMalformedBody, err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return fmt.Errorf("%w: expected a JSON object", errMalformedBody)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %w", errMalformedBody, err)
	}
	return nil
}

// parsePage reads ?page=, defaulting to 1.
func parsePage(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("page %q: %w", raw, ErrInvalidPage)
	}
	return page, nil
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

func categoryMap(categories []Category) map[int64]string {
	out := make(map[int64]string, len(categories))
	for _, c := range categories {
		out[c.ID] = c.Type
	}
	return out
}

// flexID accepts an integer given either as a JSON number or a numeric string,
// since browser form values arrive as strings.
type flexID int64

func (f *flexID) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("id must be an integer: %w", err)
		}
		n = json.Number(s)
	}
	v, err := strconv.ParseInt(string(n), 10, 64)
	if err != nil {
		return fmt.Errorf("id must be an integer: %w", err)
	}
	*f = flexID(v)
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
