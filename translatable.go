package translatable

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-translatable/internal/di"
	"github.com/goliatone/go-translatable/internal/languages"
	"github.com/goliatone/go-translatable/internal/translations"
	"github.com/goliatone/go-translatable/pkg/interfaces"
)

// Service exports the translation service for consumers of the package.
type Service = *translations.Service

type (
	Schema           = translations.Schema
	SchemaBuilder    = translations.SchemaBuilder
	Field            = translations.Field
	FieldOption      = translations.FieldOption
	Record           = translations.Record
	Translation      = translations.Translation
	ResolveOptions   = translations.ResolveOptions
	Hooks            = translations.Hooks
	HookFunc         = translations.HookFunc
	Broadcaster      = translations.Broadcaster
	Policy           = languages.Policy
	Language         = languages.Language
	LanguageSettings = languages.Settings
	Event            = interfaces.TranslationEvent
	EventType        = interfaces.TranslationEventType
	FieldKind        = interfaces.FieldKind
	Option           = di.Option
)

const (
	String = translations.String
	Text   = translations.Text
	Int    = translations.Int
	Float  = translations.Float
	Bool   = translations.Bool
)

const (
	EventPreSave    = interfaces.EventPreSave
	EventPostSave   = interfaces.EventPostSave
	EventPreDelete  = interfaces.EventPreDelete
	EventPostDelete = interfaces.EventPostDelete
	EventPostInit   = interfaces.EventPostInit
)

var (
	WithBunDB          = di.WithBunDB
	WithCache          = di.WithCache
	WithCacheProvider  = di.WithCacheProvider
	WithLoggerProvider = di.WithLoggerProvider
	WithStore          = di.WithStore
	WithEvents         = di.WithEvents
)

// NewSchema starts a translation schema for the named model.
func NewSchema(name string) *SchemaBuilder {
	return translations.NewSchema(name)
}

// WithoutFallback disables language fallback for a field.
func WithoutFallback() FieldOption { return translations.WithoutFallback() }

// AnyLanguage lets a field settle for any existing translation.
func AnyLanguage() FieldOption { return translations.AnyLanguage() }

// WithLanguage returns a context whose records start in code.
func WithLanguage(ctx context.Context, code string) context.Context {
	return translations.WithLanguage(ctx, code)
}

// Module represents the top level translatable runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Translations returns the configured translation service.
func (m *Module) Translations() Service {
	return m.container.TranslationService()
}

// Languages returns the active language policy.
func (m *Module) Languages() *Policy {
	return m.container.Policy()
}

// Hooks returns the synchronous lifecycle hook registry.
func (m *Module) Hooks() *Hooks {
	return m.container.Hooks()
}

// Subscribe streams lifecycle events until ctx is cancelled.
func (m *Module) Subscribe(ctx context.Context) (<-chan Event, error) {
	return m.container.Broadcaster().Subscribe(ctx)
}

// Register adds a schema and creates its companion table when the store supports it.
func (m *Module) Register(ctx context.Context, schema *Schema) error {
	return m.container.RegisterSchema(ctx, schema)
}

// NewRecord starts tracking translations of the base record id.
func (m *Module) NewRecord(ctx context.Context, schema *Schema, id uuid.UUID, initial map[string]any) (*Record, error) {
	return m.container.TranslationService().NewRecord(ctx, schema, id, initial)
}

// Close releases connections the module opened.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
