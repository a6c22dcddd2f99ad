package interfaces

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrRowNotFound is returned by TranslationStore lookups that match no row.
	ErrRowNotFound = errors.New("translation row not found")
	// ErrUniquenessViolation marks inserts colliding on (master_id, language_code).
	ErrUniquenessViolation = errors.New("translation uniqueness violation")
)

// FieldKind names the storage type of a translated field.
type FieldKind string

const (
	FieldString FieldKind = "string"
	FieldText   FieldKind = "text"
	FieldInt    FieldKind = "int"
	FieldFloat  FieldKind = "float"
	FieldBool   FieldKind = "bool"
)

// TranslationColumn describes one translated column of a companion table.
type TranslationColumn struct {
	Name string
	Kind FieldKind
}

// TranslationTable describes a companion table. The id, master_id and
// language_code columns are implied and never listed in Columns.
type TranslationTable interface {
	TableName() string
	MasterTableName() string
	Columns() []TranslationColumn
}

// TranslationRow is the storage representation of a single translation.
type TranslationRow struct {
	ID           uuid.UUID
	MasterID     uuid.UUID
	LanguageCode string
	Values       map[string]any
}

// TranslationStore is the backing store for companion rows. Implementations
// must enforce uniqueness on (master_id, language_code) and report collisions
// with an error matching ErrUniquenessViolation.
type TranslationStore interface {
	Insert(ctx context.Context, table TranslationTable, row *TranslationRow) error
	Update(ctx context.Context, table TranslationTable, row *TranslationRow) error
	Get(ctx context.Context, table TranslationTable, masterID uuid.UUID, language string) (*TranslationRow, error)
	First(ctx context.Context, table TranslationTable, masterID uuid.UUID) (*TranslationRow, error)
	Languages(ctx context.Context, table TranslationTable, masterID uuid.UUID) ([]string, error)
	Delete(ctx context.Context, table TranslationTable, id uuid.UUID) error
	DeleteByMaster(ctx context.Context, table TranslationTable, masterID uuid.UUID) error
}
