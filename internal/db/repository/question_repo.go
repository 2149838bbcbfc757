package repository

import (
	"context"
	"fmt"
	"strings"

	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

type questionStore interface {
	ListQuestions(ctx context.Context) ([]sqlcgen.Question, error)
	ListQuestionsByCategory(ctx context.Context, category int64) ([]sqlcgen.Question, error)
	SearchQuestions(ctx context.Context, term string) ([]sqlcgen.Question, error)
	GetQuestion(ctx context.Context, id int64) (sqlcgen.Question, error)
	CountQuestions(ctx context.Context) (int64, error)
	InsertQuestion(ctx context.Context, arg sqlcgen.InsertQuestionParams) (sqlcgen.Question, error)
	DeleteQuestion(ctx context.Context, id int64) (int64, error)
}

// QuestionRepository wraps sqlc queries for question access.
type QuestionRepository struct {
	store questionStore
}

func NewQuestionRepository(store questionStore) *QuestionRepository {
	return &QuestionRepository{store: store}
}

// List returns every question ordered by id.
func (r *QuestionRepository) List(ctx context.Context) ([]sqlcgen.Question, error) {
	rows, err := r.store.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", classify(err))
	}
	return rows, nil
}

// ListByCategory returns the questions of one category ordered by id.
func (r *QuestionRepository) ListByCategory(ctx context.Context, categoryID int64) ([]sqlcgen.Question, error) {
	rows, err := r.store.ListQuestionsByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list questions of category %d: %w", categoryID, classify(err))
	}
	return rows, nil
}

// Search matches term as a case-insensitive substring of the question text.
// LIKE wildcards in term are matched literally.
func (r *QuestionRepository) Search(ctx context.Context, term string) ([]sqlcgen.Question, error) {
	rows, err := r.store.SearchQuestions(ctx, escapeLike(term))
	if err != nil {
		return nil, fmt.Errorf("search questions: %w", classify(err))
	}
	return rows, nil
}

// Get fetches one question, returning ErrNotFound when absent.
func (r *QuestionRepository) Get(ctx context.Context, id int64) (sqlcgen.Question, error) {
	row, err := r.store.GetQuestion(ctx, id)
	if err != nil {
		return sqlcgen.Question{}, fmt.Errorf("get question %d: %w", id, classify(err))
	}
	return row, nil
}

// Count returns the number of stored questions.
func (r *QuestionRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.store.CountQuestions(ctx)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", classify(err))
	}
	return n, nil
}

// Insert stores a new question. Constraint failures surface as ErrRejected.
func (r *QuestionRepository) Insert(ctx context.Context, params sqlcgen.InsertQuestionParams) (sqlcgen.Question, error) {
	row, err := r.store.InsertQuestion(ctx, params)
	if err != nil {
		return sqlcgen.Question{}, fmt.Errorf("insert question: %w", classify(err))
	}
	return row, nil
}

// Delete removes a question, returning ErrNotFound when no row was removed.
func (r *QuestionRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.store.DeleteQuestion(ctx, id)
	if err != nil {
		return fmt.Errorf("delete question %d: %w", id, classify(err))
	}
	if n == 0 {
		return fmt.Errorf("delete question %d: %w", id, ErrNotFound)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
