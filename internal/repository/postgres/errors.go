package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"

	"dataroom/internal/repository"
)

// IsDuplicateError checks if error is a unique constraint violation.
func IsDuplicateError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique_violation
		return pgErr.Code == "23505"
	}
	return false
}

// IsNoRowsError checks if error is a "no rows" error.
func IsNoRowsError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// mapError translates driver errors into repository sentinels, keeping the cause in the chain.
func mapError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case IsNoRowsError(err):
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	case IsDuplicateError(err):
		return fmt.Errorf("%s: %w: %w", op, repository.ErrDuplicate, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// nullable converts an optional id to a driver value.
func nullable(id *string) any {
	if id == nil {
		return nil
	}
	return *id
}

// requireAffected turns a zero-row mutation into ErrNotFound.
func requireAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func placeholder(n int) string {
	return strconv.Itoa(n)
}
