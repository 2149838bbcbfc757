package repository

import (
	"context"
	"fmt"

	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

type categoryStore interface {
	ListCategories(ctx context.Context) ([]sqlcgen.Category, error)
	GetCategory(ctx context.Context, id int64) (sqlcgen.Category, error)
	GetCategoryByType(ctx context.Context, label string) (sqlcgen.Category, error)
}

// CategoryRepository exposes read-only category reference data.
type CategoryRepository struct {
	store categoryStore
}

func NewCategoryRepository(store categoryStore) *CategoryRepository {
	return &CategoryRepository{store: store}
}

// List returns every category ordered by type label.
func (r *CategoryRepository) List(ctx context.Context) ([]sqlcgen.Category, error) {
	rows, err := r.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", classify(err))
	}
	return rows, nil
}

// Get fetches a category by id, returning ErrNotFound when absent.
func (r *CategoryRepository) Get(ctx context.Context, id int64) (sqlcgen.Category, error) {
	row, err := r.store.GetCategory(ctx, id)
	if err != nil {
		return sqlcgen.Category{}, fmt.Errorf("get category %d: %w", id, classify(err))
	}
	return row, nil
}

// GetByType resolves a type label case-insensitively.
func (r *CategoryRepository) GetByType(ctx context.Context, label string) (sqlcgen.Category, error) {
	row, err := r.store.GetCategoryByType(ctx, label)
	if err != nil {
		return sqlcgen.Category{}, fmt.Errorf("get category %q: %w", label, classify(err))
	}
	return row, nil
}
