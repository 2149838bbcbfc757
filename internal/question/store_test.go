package question

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

// memDB is an in-memory stand-in for the questions and categories tables.
type memDB struct {
	mu         sync.Mutex
	questions  []sqlcgen.Question
	categories []sqlcgen.Category
	nextID     int64

	// failWith, when set, is returned by every question query.
	failWith error
}

func newMemDB(categories ...sqlcgen.Category) *memDB {
	return &memDB{categories: categories, nextID: 1}
}

// seed inserts n questions into category with texts "Question <id>".
func (db *memDB) seed(n int, category int64) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for i := 0; i < n; i++ {
		id := db.nextID
		db.nextID++
		db.questions = append(db.questions, sqlcgen.Question{
			ID:         id,
			Question:   fmt.Sprintf("Question %d", id),
			Answer:     fmt.Sprintf("Answer %d", id),
			Category:   category,
			Difficulty: int32(id%5) + 1,
		})
	}
}

func (db *memDB) repos() (*memQuestions, *memCategories) {
	return &memQuestions{db}, &memCategories{db}
}

type memQuestions struct{ db *memDB }

func (m *memQuestions) List(_ context.Context) ([]sqlcgen.Question, error) {
	return m.filter(func(sqlcgen.Question) bool { return true })
}

func (m *memQuestions) ListByCategory(_ context.Context, categoryID int64) ([]sqlcgen.Question, error) {
	return m.filter(func(q sqlcgen.Question) bool { return q.Category == categoryID })
}

func (m *memQuestions) Search(_ context.Context, term string) ([]sqlcgen.Question, error) {
	term = strings.ToLower(term)
	return m.filter(func(q sqlcgen.Question) bool {
		return strings.Contains(strings.ToLower(q.Question), term)
	})
}

func (m *memQuestions) filter(keep func(sqlcgen.Question) bool) ([]sqlcgen.Question, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.failWith != nil {
		return nil, m.db.failWith
	}
	var out []sqlcgen.Question
	for _, q := range m.db.questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memQuestions) Get(_ context.Context, id int64) (sqlcgen.Question, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.failWith != nil {
		return sqlcgen.Question{}, m.db.failWith
	}
	for _, q := range m.db.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return sqlcgen.Question{}, fmt.Errorf("get question %d: %w: %w", id, repository.ErrNotFound, pgx.ErrNoRows)
}

func (m *memQuestions) Count(_ context.Context) (int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.failWith != nil {
		return 0, m.db.failWith
	}
	return int64(len(m.db.questions)), nil
}

func (m *memQuestions) Insert(_ context.Context, params sqlcgen.InsertQuestionParams) (sqlcgen.Question, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.failWith != nil {
		return sqlcgen.Question{}, m.db.failWith
	}
	rejected := fmt.Errorf("insert question: %w", repository.ErrRejected)
	if !params.Question.Valid || params.Question.String == "" ||
		!params.Answer.Valid || params.Answer.String == "" ||
		!params.Category.Valid || !params.Difficulty.Valid {
		return sqlcgen.Question{}, rejected
	}
	known := false
	for _, c := range m.db.categories {
		if c.ID == params.Category.Int64 {
			known = true
		}
	}
	if !known {
		return sqlcgen.Question{}, rejected
	}

	row := sqlcgen.Question{
		ID:         m.db.nextID,
		Question:   params.Question.String,
		Answer:     params.Answer.String,
		Category:   params.Category.Int64,
		Difficulty: params.Difficulty.Int32,
	}
	m.db.nextID++
	m.db.questions = append(m.db.questions, row)
	return row, nil
}

func (m *memQuestions) Delete(_ context.Context, id int64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.failWith != nil {
		return m.db.failWith
	}
	for i, q := range m.db.questions {
		if q.ID == id {
			m.db.questions = append(m.db.questions[:i], m.db.questions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete question %d: %w", id, repository.ErrNotFound)
}

type memCategories struct{ db *memDB }

func (m *memCategories) List(_ context.Context) ([]sqlcgen.Category, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := append([]sqlcgen.Category(nil), m.db.categories...)
	return out, nil
}

func (m *memCategories) Get(_ context.Context, id int64) (sqlcgen.Category, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, c := range m.db.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return sqlcgen.Category{}, fmt.Errorf("get category %d: %w", id, repository.ErrNotFound)
}

type memoryCache struct {
	mu     sync.Mutex
	stored []Category
	gets   int
	sets   int
}

func (c *memoryCache) Get(_ context.Context) ([]Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return c.stored, nil
}

func (c *memoryCache) Set(_ context.Context, categories []Category) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.stored = categories
	return nil
}

// endToEndDB is 12 questions (ids 1-12) in category 1 and an empty category 2.
func endToEndDB() *memDB {
	db := newMemDB(
		sqlcgen.Category{ID: 1, Type: "Science"},
		sqlcgen.Category{ID: 2, Type: "Art"},
	)
	db.seed(12, 1)
	return db
}

func newTestService(db *memDB, opts ServiceOptions) *Service {
	questions, categories := db.repos()
	return NewService(questions, categories, opts)
}
