package question

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

type questionRepository interface {
	List(ctx context.Context) ([]sqlcgen.Question, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]sqlcgen.Question, error)
	Search(ctx context.Context, term string) ([]sqlcgen.Question, error)
	Get(ctx context.Context, id int64) (sqlcgen.Question, error)
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, params sqlcgen.InsertQuestionParams) (sqlcgen.Question, error)
	Delete(ctx context.Context, id int64) error
}

type categoryRepository interface {
	List(ctx context.Context) ([]sqlcgen.Category, error)
	Get(ctx context.Context, id int64) (sqlcgen.Category, error)
}

// CategoryCache stores the category list (implemented by Redis-backed Cache).
// Get returns nil, nil on a miss.
type CategoryCache interface {
	Get(ctx context.Context) ([]Category, error)
	Set(ctx context.Context, categories []Category) error
}

// Service composes store queries with pagination and quiz selection.
type Service struct {
	questions  questionRepository
	categories categoryRepository
	cache      CategoryCache
	selector   *Selector
}

type ServiceOptions struct {
	// Cache is optional; nil reads categories straight from the store.
	Cache CategoryCache
	// Selector defaults to a math/rand/v2 backed Selector.
	Selector *Selector
}

func NewService(questions questionRepository, categories categoryRepository, opts ServiceOptions) *Service {
	selector := opts.Selector
	if selector == nil {
		selector = NewSelector(nil)
	}
	return &Service{
		questions:  questions,
		categories: categories,
		cache:      opts.Cache,
		selector:   selector,
	}
}

// Categories returns every category ordered by type label.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	rows, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	categories := make([]Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, Category{ID: row.ID, Type: row.Type})
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, categories)
	}
	return categories, nil
}

// ListQuestions returns one page of all questions. An empty page is ErrPageNotFound.
func (s *Service) ListQuestions(ctx context.Context, page int) (Page, error) {
	all, err := s.allQuestions(ctx)
	if err != nil {
		return Page{}, err
	}
	current := Paginate(page, all)
	if len(current) == 0 {
		return Page{}, fmt.Errorf("list page %d of %d questions: %w", page, len(all), ErrPageNotFound)
	}
	return Page{Questions: current, Total: int64(len(all))}, nil
}

// DeleteQuestion removes id and returns the refreshed listing page.
func (s *Service) DeleteQuestion(ctx context.Context, id int64, page int) (Page, error) {
	if _, err := s.questions.Get(ctx, id); err != nil {
		return Page{}, notFoundAs(err, ErrQuestionNotFound)
	}
	if err := s.questions.Delete(ctx, id); err != nil {
		return Page{}, notFoundAs(err, ErrQuestionNotFound)
	}
	return s.refreshedPage(ctx, page)
}

// CreateQuestion persists q and returns its id with the refreshed listing page.
func (s *Service) CreateQuestion(ctx context.Context, q NewQuestion, page int) (int64, Page, error) {
	params, err := insertParams(q)
	if err != nil {
		return 0, Page{}, err
	}
	row, err := s.questions.Insert(ctx, params)
	if err != nil {
		if errors.Is(err, repository.ErrRejected) {
			return 0, Page{}, fmt.Errorf("%w: %w", ErrQuestionRejected, err)
		}
		return 0, Page{}, err
	}
	listing, err := s.refreshedPage(ctx, page)
	if err != nil {
		return 0, Page{}, err
	}
	return row.ID, listing, nil
}

// Search pages through questions whose text contains term, ignoring case.
// Total is the unfiltered question count.
func (s *Service) Search(ctx context.Context, term string, page int) (Page, error) {
	if strings.TrimSpace(term) == "" {
		return Page{}, fmt.Errorf("searchText: %w", ErrMissingField)
	}
	rows, err := s.questions.Search(ctx, term)
	if err != nil {
		return Page{}, err
	}
	current := Paginate(page, toDomain(rows))
	if len(current) == 0 {
		return Page{}, fmt.Errorf("search %q page %d: %w", term, page, ErrPageNotFound)
	}
	total, err := s.questions.Count(ctx)
	if err != nil {
		return Page{}, err
	}
	return Page{Questions: current, Total: total}, nil
}

// QuestionsByCategory pages through one category. Total is scoped to that
// category, and an existing category with no questions yields an empty page.
func (s *Service) QuestionsByCategory(ctx context.Context, categoryID int64, page int) (Page, error) {
	if _, err := s.categories.Get(ctx, categoryID); err != nil {
		return Page{}, notFoundAs(err, ErrCategoryNotFound)
	}
	rows, err := s.questions.ListByCategory(ctx, categoryID)
	if err != nil {
		return Page{}, err
	}
	return Page{Questions: Paginate(page, toDomain(rows)), Total: int64(len(rows))}, nil
}

// PlayQuiz serves one random question from the scope that is not in
// req.Previous, or an exhausted result when none remain.
func (s *Service) PlayQuiz(ctx context.Context, req QuizRequest) (QuizResult, error) {
	var (
		rows []sqlcgen.Question
		err  error
	)
	if categoryID, ok := req.Scope.CategoryID(); ok {
		if _, err := s.categories.Get(ctx, categoryID); err != nil {
			return QuizResult{}, notFoundAs(err, ErrCategoryNotFound)
		}
		rows, err = s.questions.ListByCategory(ctx, categoryID)
	} else {
		rows, err = s.questions.List(ctx)
	}
	if err != nil {
		return QuizResult{}, err
	}
	return s.selector.Pick(toDomain(rows), req.Previous), nil
}

func (s *Service) allQuestions(ctx context.Context) ([]Question, error) {
	rows, err := s.questions.List(ctx)
	if err != nil {
		return nil, err
	}
	return toDomain(rows), nil
}

// refreshedPage is the listing returned after a mutation; unlike ListQuestions
// an empty page is not an error.
func (s *Service) refreshedPage(ctx context.Context, page int) (Page, error) {
	all, err := s.allQuestions(ctx)
	if err != nil {
		return Page{}, err
	}
	return Page{Questions: Paginate(page, all), Total: int64(len(all))}, nil
}

func notFoundAs(err, target error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %w", target, err)
	}
	return err
}

func insertParams(q NewQuestion) (sqlcgen.InsertQuestionParams, error) {
	var params sqlcgen.InsertQuestionParams
	if q.Question != nil {
		params.Question = pgtype.Text{String: *q.Question, Valid: true}
	}
	if q.Answer != nil {
		params.Answer = pgtype.Text{String: *q.Answer, Valid: true}
	}
	if q.Category != nil {
		params.Category = pgtype.Int8{Int64: *q.Category, Valid: true}
	}
	if q.Difficulty != nil {
		// difficulty is an INTEGER column; wider values would wrap.
		if *q.Difficulty < math.MinInt32 || *q.Difficulty > math.MaxInt32 {
			return params, fmt.Errorf("difficulty %d out of range: %w", *q.Difficulty, ErrQuestionRejected)
		}
		params.Difficulty = pgtype.Int4{Int32: int32(*q.Difficulty), Valid: true}
	}
	return params, nil
}

func toDomain(rows []sqlcgen.Question) []Question {
	out := make([]Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, Question{
			ID:         row.ID,
			Question:   row.Question,
			Answer:     row.Answer,
			Category:   row.Category,
			Difficulty: int(row.Difficulty),
		})
	}
	return out
}
