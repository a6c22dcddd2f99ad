package translatable

import (
	"github.com/goliatone/go-translatable/internal/domain"
	"github.com/goliatone/go-translatable/internal/storage"
	"github.com/goliatone/go-translatable/internal/translations"
)

var (
	// ErrConfiguration is the root of every configuration failure, including
	// unknown languages, missing schemas and unsaved records.
	ErrConfiguration      = domain.ErrConfiguration
	ErrUnknownLanguage    = domain.ErrUnknownLanguage
	ErrNoSchema           = domain.ErrNoSchema
	ErrRecordNotPersisted = domain.ErrRecordNotPersisted
	ErrInvalidSchema      = domain.ErrInvalidSchema
	ErrSchemaExists       = translations.ErrSchemaExists

	// ErrTranslationNotFound is matched by every NotFoundError.
	ErrTranslationNotFound = translations.ErrTranslationNotFound
	ErrUnknownField        = translations.ErrUnknownField

	// ErrUniquenessViolation signals a second row for the same record and language.
	ErrUniquenessViolation = storage.ErrUniquenessViolation
)

type (
	NotFoundError        = translations.NotFoundError
	UniqueViolationError = storage.UniqueViolationError
)

// IsNotFound reports whether err carries ErrTranslationNotFound.
func IsNotFound(err error) bool {
	return translations.IsNotFound(err)
}
