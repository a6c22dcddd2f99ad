package domain

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// ErrConfiguration is the root of every "improperly configured" failure.
// Callers treat it as fatal for the current operation; it is never retried.
var ErrConfiguration = errors.New("translatable: improperly configured")

var (
	// ErrUnknownLanguage indicates a language code missing from the language settings.
	ErrUnknownLanguage = fmt.Errorf("%w: unknown language code", ErrConfiguration)
	// ErrNoSchema indicates a record without a translation schema.
	ErrNoSchema = fmt.Errorf("%w: no translation schema assigned", ErrConfiguration)
	// ErrRecordNotPersisted indicates a translation save for a record that has no identity yet.
	ErrRecordNotPersisted = fmt.Errorf("%w: record has no identity", ErrConfiguration)
	// ErrInvalidSchema indicates a schema declaration that cannot be built or registered.
	ErrInvalidSchema = fmt.Errorf("%w: invalid translation schema", ErrConfiguration)
)

const (
	TextCodeUnknownLanguage     = "UNKNOWN_LANGUAGE"
	TextCodeNoSchema            = "NO_TRANSLATION_SCHEMA"
	TextCodeRecordNotPersisted  = "RECORD_NOT_PERSISTED"
	TextCodeInvalidSchema       = "INVALID_TRANSLATION_SCHEMA"
	TextCodeTranslationNotFound = "TRANSLATION_NOT_FOUND"
)

// ConfigError wraps a configuration sentinel in a go-errors validation error so
// callers can match either the sentinel (errors.Is) or the category/text code.
func ConfigError(sentinel error, code, message string, metadata map[string]any) error {
	err := goerrors.Wrap(sentinel, goerrors.CategoryValidation, message).WithTextCode(code)
	if len(metadata) > 0 {
		err = err.WithMetadata(metadata)
	}
	return err
}
