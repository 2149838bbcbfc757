package sqlcgen

import (
	"context"
)

const getCategory = `-- name: GetCategory :one
SELECT id, type
FROM categories
WHERE id = $1
`

func (q *Queries) GetCategory(ctx context.Context, id int64) (Category, error) {
	row := q.db.QueryRow(ctx, getCategory, id)
	var i Category
	err := row.Scan(&i.ID, &i.Type)
	return i, err
}

const getCategoryByType = `-- name: GetCategoryByType :one
SELECT id, type
FROM categories
WHERE lower(type) = lower($1)
`

func (q *Queries) GetCategoryByType(ctx context.Context, lower string) (Category, error) {
	row := q.db.QueryRow(ctx, getCategoryByType, lower)
	var i Category
	err := row.Scan(&i.ID, &i.Type)
	return i, err
}

const listCategories = `-- name: ListCategories :many
SELECT id, type
FROM categories
ORDER BY type
`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.Query(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		var i Category
		if err := rows.Scan(&i.ID, &i.Type); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
