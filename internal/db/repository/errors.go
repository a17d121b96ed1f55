package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound reports that no row matched the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrConstraintViolation reports a write rejected by a column or foreign key constraint.
	ErrConstraintViolation = errors.New("constraint violation")
)

// integrity_constraint_violation SQLSTATE class
const pgIntegrityClass = "23"

// classify maps driver errors onto the repository sentinels, keeping the
// original error in the chain.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, pgIntegrityClass) {
		return fmt.Errorf("%s: %w: %s", op, ErrConstraintViolation, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", op, err)
}
