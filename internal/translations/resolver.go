package translations

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-translatable/internal/adapters/noop"
	"github.com/goliatone/go-translatable/internal/cache"
	"github.com/goliatone/go-translatable/internal/languages"
	"github.com/goliatone/go-translatable/internal/logging"
	"github.com/goliatone/go-translatable/internal/storage"
	"github.com/goliatone/go-translatable/pkg/interfaces"
)

// ResolveOptions tune a single resolution. An empty Language means the
// record's current language.
type ResolveOptions struct {
	Language    string
	UseFallback bool
	AutoCreate  bool
}

// Resolver picks the translation that satisfies a (record, language) request,
// consulting the record's instance cache, the shared cache, and the store in
// that order.
type Resolver struct {
	policy *languages.Policy
	store  interfaces.TranslationStore
	cache  *cache.TranslationCache
	events interfaces.EventEmitter
	logger interfaces.Logger
	loads  singleflight.Group
}

// NewResolver wires a resolver. cache, events, and logger may be nil.
func NewResolver(policy *languages.Policy, store interfaces.TranslationStore, shared *cache.TranslationCache, events interfaces.EventEmitter, logger interfaces.Logger) *Resolver {
	if events == nil {
		events = noop.Events()
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Resolver{
		policy: policy,
		store:  store,
		cache:  shared,
		events: events,
		logger: logger,
	}
}

// Resolve returns the translation to use for rec. Lookups go instance cache,
// shared cache and store (saved records only), auto-create, then a single
// fallback hop. A failed fallback hop leaves a negative marker for the
// requested language.
func (r *Resolver) Resolve(ctx context.Context, rec *Record, opts ResolveOptions) (*Translation, error) {
	language, err := r.language(rec, opts.Language)
	if err != nil {
		return nil, err
	}
	return r.resolve(ctx, rec, language, opts.UseFallback, opts.AutoCreate)
}

func (r *Resolver) resolve(ctx context.Context, rec *Record, language string, useFallback, autoCreate bool) (*Translation, error) {
	t, known := rec.translations[language]
	if t != nil {
		return t, nil
	}

	if !known && rec.IsSaved() {
		loaded, err := r.load(ctx, rec, language)
		if err != nil {
			return nil, err
		}
		if loaded != nil {
			rec.remember(loaded)
			return loaded, nil
		}
	}

	if autoCreate {
		created := newTranslation(rec.schema, rec.ID, language)
		rec.remember(created)
		r.logger.WithContext(ctx).Debug("translation.created",
			"schema", rec.schema.name, "record_id", rec.ID, "language", language)
		return created, nil
	}

	if useFallback {
		if fallback, ok := r.policy.FallbackOf(language); ok {
			rec.markMissing(language)
			t, err := r.resolve(ctx, rec, fallback, false, autoCreate)
			if err != nil {
				if IsNotFound(err) {
					return nil, &NotFoundError{
						Type:          rec.schema.name,
						ID:            rec.ID,
						Language:      language,
						Fallback:      fallback,
						FallbackTried: true,
					}
				}
				return nil, err
			}
			return t, nil
		}
	}

	return nil, &NotFoundError{Type: rec.schema.name, ID: rec.ID, Language: language}
}

// ResolveAny returns some translation of rec, preferring the current
// language, then its fallback, then any cached translation by ascending code.
// With nothing cached the store row with the lowest language code wins.
// It returns nil, nil when the record has no translation at all.
func (r *Resolver) ResolveAny(ctx context.Context, rec *Record) (*Translation, error) {
	if err := checkRecord(rec); err != nil {
		return nil, err
	}

	preferred := []string{rec.language}
	if fallback, ok := r.policy.FallbackOf(rec.language); ok {
		preferred = append(preferred, fallback)
	}
	for _, code := range preferred {
		if t := rec.translations[code]; t != nil {
			return t, nil
		}
	}
	for _, code := range rec.cachedCodes() {
		if t := rec.translations[code]; t != nil {
			return t, nil
		}
	}

	if !rec.IsSaved() {
		return nil, nil
	}
	row, err := r.store.First(ctx, rec.schema, rec.ID)
	if err != nil {
		if errors.Is(err, storage.ErrRowNotFound) {
			return nil, nil
		}
		return nil, err
	}
	t, err := translationFromRow(rec.schema, row)
	if err != nil {
		return nil, err
	}
	rec.remember(t)
	if err := r.cache.Put(ctx, rec.schema.name, t.cacheSnapshot()); err != nil {
		return nil, err
	}
	r.emitInit(ctx, rec, t)
	return t, nil
}

// HasTranslation reports whether a translation exists for language (default
// the current language) without fallback or auto-create. An answer already
// in the instance cache needs no query.
func (r *Resolver) HasTranslation(ctx context.Context, rec *Record, language string) (bool, error) {
	code, err := r.language(rec, language)
	if err != nil {
		return false, err
	}
	if t, known := rec.translations[code]; known {
		return t != nil, nil
	}
	if _, err := r.resolve(ctx, rec, code, false, false); err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AvailableLanguages lists the stored languages of rec in ascending order.
// Unsaved records and translations that only live in the instance cache are
// not reported.
func (r *Resolver) AvailableLanguages(ctx context.Context, rec *Record) ([]string, error) {
	if err := checkRecord(rec); err != nil {
		return nil, err
	}
	if !rec.IsSaved() {
		return []string{}, nil
	}
	return r.store.Languages(ctx, rec.schema, rec.ID)
}

func (r *Resolver) load(ctx context.Context, rec *Record, language string) (*Translation, error) {
	schema := rec.schema
	snapshot, found, err := r.cache.Get(ctx, schema.name, rec.ID, language)
	if err != nil {
		return nil, err
	}
	if found {
		if snapshot.Missing {
			return nil, nil
		}
		t, err := translationFromSnapshot(schema, snapshot)
		if err == nil {
			r.logger.WithContext(ctx).Trace("translation.cache_hit",
				"schema", schema.name, "record_id", rec.ID, "language", language)
			return t, nil
		}
		r.logger.WithContext(ctx).Warn("translation.cache_snapshot_invalid",
			"schema", schema.name, "record_id", rec.ID, "language", language, "error", err)
	}

	row, err := r.fetch(ctx, schema, rec.ID, language)
	if err != nil {
		if errors.Is(err, storage.ErrRowNotFound) {
			if err := r.cache.PutMissing(ctx, schema.name, rec.ID, language); err != nil {
				return nil, err
			}
			return nil, nil
		}
		return nil, err
	}

	t, err := translationFromRow(schema, row)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Put(ctx, schema.name, t.cacheSnapshot()); err != nil {
		return nil, err
	}
	r.emitInit(ctx, rec, t)
	return t, nil
}

// fetch collapses concurrent store lookups for the same key. The shared
// lookup runs on a context detached from any one caller's cancellation, so
// a caller that gives up only abandons its own wait. The shared row is
// copied by translationFromRow so callers never share a Translation.
func (r *Resolver) fetch(ctx context.Context, schema *Schema, id uuid.UUID, language string) (*interfaces.TranslationRow, error) {
	key := fmt.Sprintf("%s:%s:%s", schema.name, id, language)
	shared := context.WithoutCancel(ctx)
	ch := r.loads.DoChan(key, func() (any, error) {
		return r.store.Get(shared, schema, id, language)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		return nil, res.Err
	}
	row := *res.Val.(*interfaces.TranslationRow)
	row.Values = maps.Clone(row.Values)
	return &row, nil
}

func (r *Resolver) language(rec *Record, code string) (string, error) {
	if err := checkRecord(rec); err != nil {
		return "", err
	}
	if code == "" {
		code = rec.language
	}
	return r.policy.Normalize(code)
}

func (r *Resolver) emitInit(ctx context.Context, rec *Record, t *Translation) {
	r.events.Emit(ctx, interfaces.TranslationEvent{
		Type:          interfaces.EventPostInit,
		Schema:        rec.schema.name,
		RecordID:      rec.ID,
		TranslationID: t.ID,
		Language:      t.LanguageCode,
		Values:        t.Values(),
	})
}

func checkRecord(rec *Record) error {
	if rec == nil {
		return ErrNilRecord
	}
	if rec.schema == nil {
		return noSchemaError(rec)
	}
	return nil
}
