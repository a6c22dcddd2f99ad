package translations

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-translatable/internal/logging"
)

type languageContextKey struct{}

// WithLanguage returns a context whose records default to code as their
// current language. The code is also attached as a logging field.
func WithLanguage(ctx context.Context, code string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	code = strings.TrimSpace(code)
	ctx = logging.ContextWithFields(ctx, map[string]any{"request_language": code})
	return context.WithValue(ctx, languageContextKey{}, code)
}

// LanguageFromContext returns the language stored by WithLanguage.
func LanguageFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	code, ok := ctx.Value(languageContextKey{}).(string)
	return code, ok && code != ""
}

// Record is the translation-side view of a base record: its identity, the
// language it currently reads and writes, and the translations resolved so
// far. A Record must not be shared between goroutines.
type Record struct {
	// ID is uuid.Nil until the base row has been saved.
	ID uuid.UUID

	schema   *Schema
	language string
	// nil values are negative markers: resolution was attempted and failed.
	translations map[string]*Translation
}

func newRecord(schema *Schema, id uuid.UUID, language string) *Record {
	return &Record{
		ID:           id,
		schema:       schema,
		language:     language,
		translations: make(map[string]*Translation),
	}
}

// Schema returns the record's translation schema.
func (r *Record) Schema() *Schema {
	return r.schema
}

// Language returns the current language.
func (r *Record) Language() string {
	return r.language
}

// IsSaved reports whether the base row has an identity.
func (r *Record) IsSaved() bool {
	return r.ID != uuid.Nil
}

// Cached returns the instance cache entry for language. found is true for
// negative markers too, in which case the translation is nil.
func (r *Record) Cached(language string) (t *Translation, found bool) {
	t, found = r.translations[language]
	return t, found
}

// CachedLanguages lists the languages with a resolved translation in the
// instance cache, ascending. Negative markers are excluded.
func (r *Record) CachedLanguages() []string {
	codes := make([]string, 0, len(r.translations))
	for code, t := range r.translations {
		if t != nil {
			codes = append(codes, code)
		}
	}
	slices.Sort(codes)
	return codes
}

func (r *Record) cachedCodes() []string {
	codes := make([]string, 0, len(r.translations))
	for code := range r.translations {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

func (r *Record) markMissing(language string) {
	r.translations[language] = nil
}

func (r *Record) remember(t *Translation) {
	r.translations[t.LanguageCode] = t
}

func (r *Record) forget(language string) {
	delete(r.translations, language)
}

func (r *Record) clearCache() {
	clear(r.translations)
}
