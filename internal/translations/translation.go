package translations

import (
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/goliatone/go-translatable/internal/cache"
	"github.com/goliatone/go-translatable/internal/domain"
	"github.com/goliatone/go-translatable/pkg/interfaces"
)

// Translation holds the translated values of one record in one language and
// tracks whether they changed since the last load or save.
type Translation struct {
	// ID is uuid.Nil until the row has been written.
	ID           uuid.UUID
	MasterID     uuid.UUID
	LanguageCode string

	schema   *Schema
	values   map[string]any
	snapshot map[string]any
}

func newTranslation(schema *Schema, masterID uuid.UUID, language string) *Translation {
	t := &Translation{
		MasterID:     masterID,
		LanguageCode: language,
		schema:       schema,
		values:       make(map[string]any, len(schema.fields)),
	}
	for _, field := range schema.fields {
		t.values[field.Name] = nil
	}
	t.takeSnapshot()
	return t
}

func translationFromRow(schema *Schema, row *interfaces.TranslationRow) (*Translation, error) {
	t := newTranslation(schema, row.MasterID, row.LanguageCode)
	t.ID = row.ID
	if err := t.load(row.Values); err != nil {
		return nil, err
	}
	return t, nil
}

func translationFromSnapshot(schema *Schema, snapshot *cache.Snapshot) (*Translation, error) {
	t := newTranslation(schema, snapshot.MasterID, snapshot.LanguageCode)
	t.ID = snapshot.ID
	if err := t.load(snapshot.Values); err != nil {
		return nil, err
	}
	return t, nil
}

// Schema returns the schema the translation belongs to.
func (t *Translation) Schema() *Schema {
	return t.schema
}

// Get returns the value of field.
func (t *Translation) Get(field string) (any, error) {
	if _, ok := t.schema.Field(field); !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, t.schema.name, field)
	}
	return t.values[field], nil
}

// Set assigns field after coercing value to the field kind.
func (t *Translation) Set(field string, value any) error {
	decl, ok := t.schema.Field(field)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, t.schema.name, field)
	}
	coerced, err := domain.CoerceValue(decl.Kind, value)
	if err != nil {
		return fmt.Errorf("translations: %s.%s: %w", t.schema.name, field, err)
	}
	t.values[field] = coerced
	return nil
}

// Values returns a copy of every field value.
func (t *Translation) Values() map[string]any {
	return maps.Clone(t.values)
}

// IsModified compares current values with the snapshot taken at load,
// construction, or the last save.
func (t *Translation) IsModified() bool {
	return len(t.ModifiedFields()) > 0
}

// ModifiedFields lists changed field names in ascending order.
func (t *Translation) ModifiedFields() []string {
	var changed []string
	for name, value := range t.values {
		if t.snapshot[name] != value {
			changed = append(changed, name)
		}
	}
	slices.Sort(changed)
	return changed
}

// IsEmpty reports whether the schema declares no translated fields.
func (t *Translation) IsEmpty() bool {
	return t.schema.IsEmpty()
}

// IsNew reports whether the translation has never been written.
func (t *Translation) IsNew() bool {
	return t.ID == uuid.Nil
}

func (t *Translation) load(values map[string]any) error {
	for _, field := range t.schema.fields {
		coerced, err := domain.CoerceValue(field.Kind, values[field.Name])
		if err != nil {
			return fmt.Errorf("translations: load %s.%s: %w", t.schema.name, field.Name, err)
		}
		t.values[field.Name] = coerced
	}
	t.takeSnapshot()
	return nil
}

func (t *Translation) takeSnapshot() {
	t.snapshot = maps.Clone(t.values)
}

func (t *Translation) row() *interfaces.TranslationRow {
	return &interfaces.TranslationRow{
		ID:           t.ID,
		MasterID:     t.MasterID,
		LanguageCode: t.LanguageCode,
		Values:       maps.Clone(t.values),
	}
}

func (t *Translation) cacheSnapshot() cache.Snapshot {
	return cache.Snapshot{
		ID:           t.ID,
		MasterID:     t.MasterID,
		LanguageCode: t.LanguageCode,
		Values:       maps.Clone(t.values),
	}
}
