package storage

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/goliatone/go-translatable/pkg/interfaces"
)

var (
	// ErrUniquenessViolation is matched by every insert that collides on
	// (master_id, language_code).
	ErrUniquenessViolation = interfaces.ErrUniquenessViolation
	// ErrRowNotFound is returned when a lookup, update, or delete matches no row.
	ErrRowNotFound = interfaces.ErrRowNotFound
	// ErrNilDB is returned by stores constructed without a database handle.
	ErrNilDB = errors.New("storage: bun store requires a database")

	errDuplicateID       = errors.New("duplicate translation id")
	errDuplicateLanguage = errors.New("duplicate (master_id, language_code)")
)

const pgUniqueViolation = "23505"

// UniqueViolationError keeps the driver error in the chain while matching
// ErrUniquenessViolation.
type UniqueViolationError struct {
	Table    string
	MasterID uuid.UUID
	Language string
	Err      error
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("storage: %s already has a %q translation for %s: %v", e.Table, e.Language, e.MasterID, e.Err)
}

func (e *UniqueViolationError) Unwrap() error { return e.Err }

func (e *UniqueViolationError) Is(target error) bool {
	return target == interfaces.ErrUniquenessViolation
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}
