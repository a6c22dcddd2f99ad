package translations

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-translatable/internal/domain"
	"github.com/goliatone/go-translatable/pkg/interfaces"
)

// Field kinds re-exported for schema declarations.
const (
	String = interfaces.FieldString
	Text   = interfaces.FieldText
	Int    = interfaces.FieldInt
	Float  = interfaces.FieldFloat
	Bool   = interfaces.FieldBool
)

var (
	identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	reservedColumns   = []any{"id", "master_id", "language_code"}
	fieldKinds        = []any{String, Text, Int, Float, Bool}
)

// ErrSchemaExists is returned when a schema name or table is registered twice.
var ErrSchemaExists = fmt.Errorf("%w: schema already registered", domain.ErrInvalidSchema)

// Field declares one translated column.
type Field struct {
	Name string
	Kind interfaces.FieldKind
	// Fallback controls whether reads consult the fallback language.
	Fallback bool
	// AnyLanguage lets reads settle for whichever translation exists.
	AnyLanguage bool
}

// FieldOption customizes a Field declaration.
type FieldOption func(*Field)

// WithoutFallback disables fallback resolution for reads of the field.
func WithoutFallback() FieldOption {
	return func(f *Field) { f.Fallback = false }
}

// AnyLanguage makes SafeGet fall back to any available translation.
func AnyLanguage() FieldOption {
	return func(f *Field) { f.AnyLanguage = true }
}

// Schema describes a translatable model and its companion table. It is
// immutable once built.
type Schema struct {
	name        string
	table       string
	masterTable string
	fields      []Field
	index       map[string]int
}

func (s *Schema) Name() string            { return s.name }
func (s *Schema) TableName() string       { return s.table }
func (s *Schema) MasterTableName() string { return s.masterTable }

// Columns lists the translated columns in declaration order.
func (s *Schema) Columns() []interfaces.TranslationColumn {
	cols := make([]interfaces.TranslationColumn, len(s.fields))
	for i, f := range s.fields {
		cols[i] = interfaces.TranslationColumn{Name: f.Name, Kind: f.Kind}
	}
	return cols
}

// Fields returns a copy of the field declarations.
func (s *Schema) Fields() []Field {
	return slices.Clone(s.fields)
}

// Field looks up a declaration by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// IsEmpty reports whether the schema declares no translated fields.
func (s *Schema) IsEmpty() bool {
	return len(s.fields) == 0
}

// SchemaBuilder assembles a Schema. Errors surface from Build.
type SchemaBuilder struct {
	name        string
	table       string
	masterTable string
	fields      []Field
}

// NewSchema starts a schema for the named model. The companion table
// defaults to "<name>_translation".
func NewSchema(name string) *SchemaBuilder {
	return &SchemaBuilder{name: strings.TrimSpace(name)}
}

// Table overrides the companion table name.
func (b *SchemaBuilder) Table(name string) *SchemaBuilder {
	b.table = strings.TrimSpace(name)
	return b
}

// MasterTable names the base table the companion rows cascade with.
func (b *SchemaBuilder) MasterTable(name string) *SchemaBuilder {
	b.masterTable = strings.TrimSpace(name)
	return b
}

// Field declares a translated column. Fallback is on unless WithoutFallback is given.
func (b *SchemaBuilder) Field(name string, kind interfaces.FieldKind, opts ...FieldOption) *SchemaBuilder {
	field := Field{Name: strings.TrimSpace(name), Kind: kind, Fallback: true}
	for _, opt := range opts {
		opt(&field)
	}
	b.fields = append(b.fields, field)
	return b
}

// Build validates the declaration and returns the Schema.
func (b *SchemaBuilder) Build() (*Schema, error) {
	table := b.table
	if table == "" && b.name != "" {
		table = b.name + "_translation"
	}

	err := validation.Errors{
		"name":         validation.Validate(b.name, validation.Required, validation.Match(identifierPattern)),
		"table":        validation.Validate(table, validation.Required, validation.Match(identifierPattern)),
		"master_table": validation.Validate(b.masterTable, validation.Match(identifierPattern)),
	}.Filter()
	if err != nil {
		return nil, invalidSchemaError(b.name, err)
	}

	index := make(map[string]int, len(b.fields))
	for i, field := range b.fields {
		err := validation.ValidateStruct(&field,
			validation.Field(&field.Name, validation.Required, validation.Match(identifierPattern), validation.NotIn(reservedColumns...)),
			validation.Field(&field.Kind, validation.Required, validation.In(fieldKinds...)),
		)
		if err != nil {
			return nil, invalidSchemaError(b.name, fmt.Errorf("field %d: %w", i, err))
		}
		if _, dup := index[field.Name]; dup {
			return nil, invalidSchemaError(b.name, fmt.Errorf("field %q declared twice", field.Name))
		}
		index[field.Name] = i
	}

	return &Schema{
		name:        b.name,
		table:       table,
		masterTable: b.masterTable,
		fields:      slices.Clone(b.fields),
		index:       index,
	}, nil
}

// MustBuild is Build for package-level declarations.
func (b *SchemaBuilder) MustBuild() *Schema {
	schema, err := b.Build()
	if err != nil {
		panic(err)
	}
	return schema
}

// Registry holds the schemas known to a process. A model may register only once.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Schema)}
}

// Register adds schema, failing if the name or table is already taken.
func (r *Registry) Register(schema *Schema) error {
	if schema == nil {
		return invalidSchemaError("", errors.New("nil schema"))
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[schema.name]; exists {
		return fmt.Errorf("%w: %s already has an associated translation table", ErrSchemaExists, schema.name)
	}
	for _, existing := range r.schemas {
		if existing.table == schema.table {
			return fmt.Errorf("%w: table %s is used by %s", ErrSchemaExists, schema.table, existing.name)
		}
	}
	r.schemas[schema.name] = schema
	return nil
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schema, ok := r.schemas[name]
	return schema, ok
}

// Schemas returns every registered schema ordered by name.
func (r *Registry) Schemas() []*Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Schema, 0, len(r.schemas))
	for _, schema := range r.schemas {
		out = append(out, schema)
	}
	slices.SortFunc(out, func(a, b *Schema) int { return strings.Compare(a.name, b.name) })
	return out
}

var _ interfaces.TranslationTable = (*Schema)(nil)
