package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrRejected is returned when the store refuses a write because of an
	// integrity constraint (not-null, check, foreign key, unique).
	ErrRejected = errors.New("write rejected by store")
)

// integrityViolationClass is the SQLSTATE class for constraint violations.
const integrityViolationClass = "23"

func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, integrityViolationClass) {
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}
	return err
}
