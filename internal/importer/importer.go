// Package importer loads questions in bulk from an Excel workbook or from
// the Open Trivia DB.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

// Config selects the sheet and the first data row (1-based).
// Columns are fixed: A question, B answer, C category type, D difficulty.
type Config struct {
	SheetName string
	StartRow  int
}

// DefaultConfig reads Sheet1 and skips one header row.
func DefaultConfig() Config {
	return Config{SheetName: "Sheet1", StartRow: 2}
}

// Result summarizes one import run.
type Result struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

type categoryLookup interface {
	GetByType(ctx context.Context, label string) (sqlcgen.Category, error)
}

type questionWriter interface {
	Insert(ctx context.Context, params sqlcgen.InsertQuestionParams) (sqlcgen.Question, error)
}

// Importer resolves category labels and inserts one question per row.
type Importer struct {
	categories categoryLookup
	questions  questionWriter
	logger     zerolog.Logger
}

func New(categories categoryLookup, questions questionWriter, logger zerolog.Logger) *Importer {
	return &Importer{
		categories: categories,
		questions:  questions,
		logger:     logger.With().Str("component", "importer").Logger(),
	}
}

// ImportFile opens the workbook at path and imports it.
func (im *Importer) ImportFile(ctx context.Context, path string, cfg Config) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()
	return im.ImportWorkbook(ctx, f, cfg)
}

// ImportWorkbook imports every data row of cfg.SheetName. Row level problems
// are collected in Result.Errors; only store failures abort the run.
func (im *Importer) ImportWorkbook(ctx context.Context, f *excelize.File, cfg Config) (*Result, error) {
	if cfg.StartRow < 1 {
		cfg.StartRow = 1
	}
	rows, err := f.GetRows(cfg.SheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", cfg.SheetName, err)
	}

	result := &Result{Errors: make([]string, 0)}
	records := make([]record, 0, len(rows))
	for i, row := range rows {
		rowNum := i + 1
		if rowNum < cfg.StartRow {
			continue
		}
		if blank(row) {
			result.Skipped++
			continue
		}
		records = append(records, record{
			ref:        fmt.Sprintf("Row %d", rowNum),
			question:   cell(row, 0),
			answer:     cell(row, 1),
			category:   cell(row, 2),
			difficulty: cell(row, 3),
		})
	}
	return result, im.store(ctx, records, result)
}

// record is one question awaiting validation and insert. ref names its
// origin in error messages.
type record struct {
	ref        string
	question   string
	answer     string
	category   string
	difficulty string
}

var errInvalidRecord = errors.New("invalid record")

func (im *Importer) store(ctx context.Context, records []record, result *Result) error {
	categoryIDs := make(map[string]int64)

	for _, rec := range records {
		result.TotalProcessed++

		params, err := im.params(ctx, rec, categoryIDs)
		if err != nil {
			if errors.Is(err, errInvalidRecord) {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", rec.ref, err))
				continue
			}
			return fmt.Errorf("%s: %w", strings.ToLower(rec.ref), err)
		}

		created, err := im.questions.Insert(ctx, params)
		if err != nil {
			if errors.Is(err, repository.ErrRejected) {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", rec.ref, err))
				continue
			}
			return fmt.Errorf("%s: %w", strings.ToLower(rec.ref), err)
		}
		result.Created++
		im.logger.Debug().Str("ref", rec.ref).Int64("question_id", created.ID).Msg("question imported")
	}

	im.logger.Info().
		Int("processed", result.TotalProcessed).
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Int("errors", len(result.Errors)).
		Msg("import finished")
	return nil
}

func (im *Importer) params(ctx context.Context, rec record, categoryIDs map[string]int64) (sqlcgen.InsertQuestionParams, error) {
	if rec.question == "" || rec.answer == "" {
		return sqlcgen.InsertQuestionParams{}, fmt.Errorf("%w: question and answer are required", errInvalidRecord)
	}
	if rec.category == "" {
		return sqlcgen.InsertQuestionParams{}, fmt.Errorf("%w: category is required", errInvalidRecord)
	}

	difficulty, err := strconv.Atoi(rec.difficulty)
	if err != nil || difficulty < 1 || difficulty > 5 {
		return sqlcgen.InsertQuestionParams{}, fmt.Errorf("%w: difficulty %q must be 1-5", errInvalidRecord, rec.difficulty)
	}

	key := strings.ToLower(rec.category)
	categoryID, ok := categoryIDs[key]
	if !ok {
		category, err := im.categories.GetByType(ctx, rec.category)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return sqlcgen.InsertQuestionParams{}, fmt.Errorf("%w: unknown category %q", errInvalidRecord, rec.category)
			}
			return sqlcgen.InsertQuestionParams{}, err
		}
		categoryID = category.ID
		categoryIDs[key] = categoryID
	}

	return sqlcgen.InsertQuestionParams{
		Question:   pgtype.Text{String: rec.question, Valid: true},
		Answer:     pgtype.Text{String: rec.answer, Valid: true},
		Category:   pgtype.Int8{Int64: categoryID, Valid: true},
		Difficulty: pgtype.Int4{Int32: int32(difficulty), Valid: true},
	}, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
