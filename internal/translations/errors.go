package translations

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-translatable/internal/domain"
)

var (
	// ErrTranslationNotFound is the sentinel every NotFoundError unwraps to.
	ErrTranslationNotFound = errors.New("translations: translation not found")
	// ErrUnknownField indicates a field name the schema does not declare.
	ErrUnknownField = errors.New("translations: unknown field")
	// ErrNilRecord is returned when an operation receives a nil record.
	ErrNilRecord = errors.New("translations: nil record")
	// ErrNilTranslation is returned when SaveTranslation receives a nil translation.
	ErrNilTranslation = errors.New("translations: nil translation")
)

// NotFoundError reports that no translation satisfied a resolution. Callers
// may treat it as "attribute absent" and substitute a default.
type NotFoundError struct {
	Type          string
	ID            uuid.UUID
	Language      string
	Fallback      string
	FallbackTried bool
}

func (e *NotFoundError) Error() string {
	id := "<unsaved>"
	if e.ID != uuid.Nil {
		id = e.ID.String()
	}
	if e.FallbackTried {
		return fmt.Sprintf("%s %s has no %q translation (fallback %q also missing)", e.Type, id, e.Language, e.Fallback)
	}
	return fmt.Sprintf("%s %s has no %q translation", e.Type, id, e.Language)
}

func (e *NotFoundError) Unwrap() error {
	return ErrTranslationNotFound
}

// IsNotFound reports whether err carries ErrTranslationNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTranslationNotFound)
}

func noSchemaError(rec *Record) error {
	return domain.ConfigError(domain.ErrNoSchema, domain.TextCodeNoSchema,
		"record has no translation schema", map[string]any{"record_id": rec.ID.String()})
}

func notPersistedError(schema string, language string) error {
	return domain.ConfigError(domain.ErrRecordNotPersisted, domain.TextCodeRecordNotPersisted,
		fmt.Sprintf("%s must be saved before its %q translation", schema, language),
		map[string]any{"schema": schema, "language": language})
}

func invalidSchemaError(name string, err error) error {
	return domain.ConfigError(domain.ErrInvalidSchema, domain.TextCodeInvalidSchema,
		fmt.Sprintf("translation schema %q: %v", name, err), map[string]any{"schema": name})
}
