package sqlcgen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const countQuestions = `-- name: CountQuestions :one
SELECT COUNT(*) FROM questions
`

func (q *Queries) CountQuestions(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, countQuestions)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteQuestion = `-- name: DeleteQuestion :execrows
DELETE FROM questions
WHERE id = $1
`

func (q *Queries) DeleteQuestion(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteQuestion, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getQuestion = `-- name: GetQuestion :one
SELECT id, question, answer, category, difficulty
FROM questions
WHERE id = $1
`

func (q *Queries) GetQuestion(ctx context.Context, id int64) (Question, error) {
	row := q.db.QueryRow(ctx, getQuestion, id)
	var i Question
	err := row.Scan(
		&i.ID,
		&i.Question,
		&i.Answer,
		&i.Category,
		&i.Difficulty,
	)
	return i, err
}

const insertQuestion = `-- name: InsertQuestion :one
INSERT INTO questions (question, answer, category, difficulty)
VALUES ($1, $2, $3, $4)
RETURNING id, question, answer, category, difficulty
`

type InsertQuestionParams struct {
	Question   pgtype.Text
	Answer     pgtype.Text
	Category   pgtype.Int8
	Difficulty pgtype.Int4
}

func (q *Queries) InsertQuestion(ctx context.Context, arg InsertQuestionParams) (Question, error) {
	row := q.db.QueryRow(ctx, insertQuestion,
		arg.Question,
		arg.Answer,
		arg.Category,
		arg.Difficulty,
	)
	var i Question
	err := row.Scan(
		&i.ID,
		&i.Question,
		&i.Answer,
		&i.Category,
		&i.Difficulty,
	)
	return i, err
}

const listQuestions = `-- name: ListQuestions :many
SELECT id, question, answer, category, difficulty
FROM questions
ORDER BY id
`

func (q *Queries) ListQuestions(ctx context.Context) ([]Question, error) {
	rows, err := q.db.Query(ctx, listQuestions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Question
	for rows.Next() {
		var i Question
		if err := rows.Scan(
			&i.ID,
			&i.Question,
			&i.Answer,
			&i.Category,
			&i.Difficulty,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listQuestionsByCategory = `-- name: ListQuestionsByCategory :many
SELECT id, question, answer, category, difficulty
FROM questions
WHERE category = $1
ORDER BY id
`

func (q *Queries) ListQuestionsByCategory(ctx context.Context, category int64) ([]Question, error) {
	rows, err := q.db.Query(ctx, listQuestionsByCategory, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Question
	for rows.Next() {
		var i Question
		if err := rows.Scan(
			&i.ID,
			&i.Question,
			&i.Answer,
			&i.Category,
			&i.Difficulty,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const searchQuestions = `-- name: SearchQuestions :many
SELECT id, question, answer, category, difficulty
FROM questions
WHERE question ILIKE '%' || $1::text || '%'
ORDER BY id
`

func (q *Queries) SearchQuestions(ctx context.Context, term string) ([]Question, error) {
	rows, err := q.db.Query(ctx, searchQuestions, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Question
	for rows.Next() {
		var i Question
		if err := rows.Scan(
			&i.ID,
			&i.Question,
			&i.Answer,
			&i.Category,
			&i.Difficulty,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
