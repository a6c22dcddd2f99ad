package translations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-translatable/internal/cache"
	"github.com/goliatone/go-translatable/internal/languages"
	"github.com/goliatone/go-translatable/internal/logging"
	"github.com/goliatone/go-translatable/pkg/interfaces"
)

var (
	// ErrPolicyRequired is returned by NewService without a language policy.
	ErrPolicyRequired = errors.New("translations: language policy required")
	// ErrStoreRequired is returned by NewService without a store.
	ErrStoreRequired = errors.New("translations: translation store required")
)

// Options collects the collaborators of a Service.
type Options struct {
	Policy *languages.Policy
	Store  interfaces.TranslationStore
	// Cache is optional; nil disables the shared cache.
	Cache          *cache.TranslationCache
	Events         interfaces.EventEmitter
	LoggerProvider interfaces.LoggerProvider
	ManualCascade  bool
}

// Service is the field-level API over the resolver and coordinator.
type Service struct {
	policy      *languages.Policy
	resolver    *Resolver
	coordinator *Coordinator
}

// NewService validates opts and wires the resolver and coordinator.
func NewService(opts Options) (*Service, error) {
	if opts.Policy == nil {
		return nil, ErrPolicyRequired
	}
	if opts.Store == nil {
		return nil, ErrStoreRequired
	}
	return &Service{
		policy: opts.Policy,
		resolver: NewResolver(opts.Policy, opts.Store, opts.Cache, opts.Events,
			logging.ModuleLogger(opts.LoggerProvider, logging.ResolverModule)),
		coordinator: NewCoordinator(opts.Policy, opts.Store, opts.Cache, opts.Events,
			logging.ModuleLogger(opts.LoggerProvider, logging.PersistenceModule),
			WithManualCascade(opts.ManualCascade)),
	}, nil
}

func (s *Service) Policy() *languages.Policy { return s.policy }
func (s *Service) Resolver() *Resolver       { return s.resolver }
func (s *Service) Coordinator() *Coordinator { return s.coordinator }

// NewRecord starts tracking translations for a base record. The current
// language comes from the context (WithLanguage) or the policy default.
// initial values are assigned in the current language.
func (s *Service) NewRecord(ctx context.Context, schema *Schema, id uuid.UUID, initial map[string]any) (*Record, error) {
	if schema == nil {
		return nil, noSchemaError(&Record{ID: id})
	}
	language := s.policy.Default()
	if code, ok := LanguageFromContext(ctx); ok {
		normalized, err := s.policy.Normalize(code)
		if err != nil {
			return nil, err
		}
		language = normalized
	}

	rec := newRecord(schema, id, language)
	if len(initial) == 0 {
		return rec, nil
	}
	t, err := s.resolver.Resolve(ctx, rec, ResolveOptions{AutoCreate: true})
	if err != nil {
		return nil, err
	}
	for field, value := range initial {
		if err := t.Set(field, value); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// SetCurrentLanguage switches the language rec reads and writes. With
// initialize set, a translation is resolved or created for it right away.
func (s *Service) SetCurrentLanguage(ctx context.Context, rec *Record, code string, initialize bool) error {
	if err := checkRecord(rec); err != nil {
		return err
	}
	normalized, err := s.policy.Normalize(code)
	if err != nil {
		return err
	}
	rec.language = normalized
	if initialize {
		_, err := s.resolver.Resolve(ctx, rec, ResolveOptions{AutoCreate: true})
		return err
	}
	return nil
}

// FallbackLanguage returns the fallback of rec's current language.
func (s *Service) FallbackLanguage(rec *Record) (string, bool) {
	if rec == nil {
		return "", false
	}
	return s.policy.FallbackOf(rec.language)
}

// Get reads field in the current language, following the field's fallback
// policy. Fields declared AnyLanguage settle for any existing translation.
func (s *Service) Get(ctx context.Context, rec *Record, field string) (any, error) {
	decl, err := s.field(rec, field)
	if err != nil {
		return nil, err
	}
	t, err := s.resolver.Resolve(ctx, rec, ResolveOptions{UseFallback: decl.Fallback})
	if err != nil {
		if !IsNotFound(err) || !decl.AnyLanguage {
			return nil, err
		}
		found, anyErr := s.resolver.ResolveAny(ctx, rec)
		if anyErr != nil {
			return nil, anyErr
		}
		if found == nil {
			return nil, err
		}
		t = found
	}
	return t.Get(field)
}

// Set writes field in the current language, creating the translation in
// memory when needed. Nothing is stored until the record is saved.
func (s *Service) Set(ctx context.Context, rec *Record, field string, value any) error {
	if _, err := s.field(rec, field); err != nil {
		return err
	}
	t, err := s.resolver.Resolve(ctx, rec, ResolveOptions{AutoCreate: true})
	if err != nil {
		return err
	}
	return t.Set(field, value)
}

// SafeGet is Get that returns def instead of a not-found error. With
// anyLanguage set any existing translation is used before giving up.
func (s *Service) SafeGet(ctx context.Context, rec *Record, field string, def any, anyLanguage bool) (any, error) {
	value, err := s.Get(ctx, rec, field)
	if err == nil {
		return value, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}
	if anyLanguage {
		t, err := s.resolver.ResolveAny(ctx, rec)
		if err != nil {
			return nil, err
		}
		if t != nil {
			return t.Get(field)
		}
	}
	return def, nil
}

// Translation returns the translation for language without fallback.
func (s *Service) Translation(ctx context.Context, rec *Record, language string) (*Translation, error) {
	return s.resolver.Resolve(ctx, rec, ResolveOptions{Language: language})
}

func (s *Service) Resolve(ctx context.Context, rec *Record, opts ResolveOptions) (*Translation, error) {
	return s.resolver.Resolve(ctx, rec, opts)
}

func (s *Service) ResolveAny(ctx context.Context, rec *Record) (*Translation, error) {
	return s.resolver.ResolveAny(ctx, rec)
}

func (s *Service) HasTranslation(ctx context.Context, rec *Record, language string) (bool, error) {
	return s.resolver.HasTranslation(ctx, rec, language)
}

func (s *Service) AvailableLanguages(ctx context.Context, rec *Record) ([]string, error) {
	return s.resolver.AvailableLanguages(ctx, rec)
}

// Save persists the record's translations. rec.ID must already be set.
func (s *Service) Save(ctx context.Context, rec *Record) error {
	return s.coordinator.SaveTranslations(ctx, rec)
}

func (s *Service) SaveTranslation(ctx context.Context, rec *Record, t *Translation) error {
	return s.coordinator.SaveTranslation(ctx, rec, t)
}

func (s *Service) DeleteAll(ctx context.Context, rec *Record) error {
	return s.coordinator.DeleteAll(ctx, rec)
}

func (s *Service) DeleteTranslation(ctx context.Context, rec *Record, language string) error {
	return s.coordinator.DeleteTranslation(ctx, rec, language)
}

func (s *Service) field(rec *Record, name string) (Field, error) {
	if err := checkRecord(rec); err != nil {
		return Field{}, err
	}
	decl, ok := rec.schema.Field(name)
	if !ok {
		return Field{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, rec.schema.name, name)
	}
	return decl, nil
}
