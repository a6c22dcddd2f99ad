package translations

import (
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"

	"github.com/goliatone/go-translatable/internal/adapters/noop"
	"github.com/goliatone/go-translatable/internal/cache"
	"github.com/goliatone/go-translatable/internal/languages"
	"github.com/goliatone/go-translatable/internal/logging"
	"github.com/goliatone/go-translatable/internal/storage"
	"github.com/goliatone/go-translatable/pkg/interfaces"
)

// Coordinator writes the translations held in a record's instance cache and
// keeps the shared cache in step with the store.
type Coordinator struct {
	policy *languages.Policy
	store  interfaces.TranslationStore
	cache  *cache.TranslationCache
	events interfaces.EventEmitter
	logger interfaces.Logger
	// manualCascade deletes rows in DeleteAll for stores without FK cascades.
	manualCascade bool
}

// CoordinatorOption customizes a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithManualCascade makes DeleteAll remove the record's rows itself.
func WithManualCascade(enabled bool) CoordinatorOption {
	return func(c *Coordinator) { c.manualCascade = enabled }
}

// NewCoordinator wires a coordinator. cache, events, and logger may be nil.
func NewCoordinator(policy *languages.Policy, store interfaces.TranslationStore, shared *cache.TranslationCache, events interfaces.EventEmitter, logger interfaces.Logger, opts ...CoordinatorOption) *Coordinator {
	if events == nil {
		events = noop.Events()
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	c := &Coordinator{
		policy: policy,
		store:  store,
		cache:  shared,
		events: events,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SaveTranslations persists every resolved translation of rec in ascending
// language order. Call it after the base row has been written.
func (c *Coordinator) SaveTranslations(ctx context.Context, rec *Record) error {
	if err := checkRecord(rec); err != nil {
		return err
	}
	for _, code := range rec.CachedLanguages() {
		if err := c.SaveTranslation(ctx, rec, rec.translations[code]); err != nil {
			return err
		}
	}
	return nil
}

// SaveTranslation writes t when it changed, or when it is a new placeholder
// of a schema without fields. Unchanged saved translations are skipped.
func (c *Coordinator) SaveTranslation(ctx context.Context, rec *Record, t *Translation) error {
	if err := checkRecord(rec); err != nil {
		return err
	}
	if t == nil {
		return ErrNilTranslation
	}
	if !t.IsModified() && !(t.IsEmpty() && t.IsNew()) {
		return nil
	}
	if !rec.IsSaved() {
		return notPersistedError(rec.schema.name, t.LanguageCode)
	}
	if t.MasterID == uuid.Nil {
		t.MasterID = rec.ID
	}

	logger := logging.WithTranslationContext(c.logger.WithContext(ctx), rec.schema.name, rec.ID, t.LanguageCode)
	created := t.IsNew()
	c.emit(ctx, interfaces.EventPreSave, rec, t, created)

	row := t.row()
	var err error
	if created {
		row.ID = uuid.New()
		err = c.store.Insert(ctx, rec.schema, row)
	} else {
		err = c.store.Update(ctx, rec.schema, row)
	}
	if err != nil {
		logger.Error("translation.save_failed", "created", created, "error", err)
		return err
	}

	t.ID = row.ID
	t.takeSnapshot()
	if err := c.cache.Put(ctx, rec.schema.name, t.cacheSnapshot()); err != nil {
		return err
	}

	logger.Debug("translation.saved", "created", created)
	c.emit(ctx, interfaces.EventPostSave, rec, t, created)
	return nil
}

// DeleteAll evicts every shared-cache entry of rec, across all configured
// languages, every stored language and anything in the instance cache, then
// clears the instance cache. Rows are left to the store's cascade unless manual cascade is on.
func (c *Coordinator) DeleteAll(ctx context.Context, rec *Record) error {
	if err := checkRecord(rec); err != nil {
		return err
	}

	event := interfaces.TranslationEvent{Schema: rec.schema.name, RecordID: rec.ID}
	event.Type = interfaces.EventPreDelete
	c.events.Emit(ctx, event)

	if rec.IsSaved() {
		// Stored rows may carry languages no longer configured.
		stored, err := c.store.Languages(ctx, rec.schema, rec.ID)
		if err != nil {
			return err
		}
		if c.manualCascade {
			if err := c.store.DeleteByMaster(ctx, rec.schema, rec.ID); err != nil {
				return err
			}
		}
		codes := slices.Concat(c.policy.Codes(), rec.cachedCodes(), stored)
		slices.Sort(codes)
		if err := c.cache.Evict(ctx, rec.schema.name, rec.ID, slices.Compact(codes)...); err != nil {
			return err
		}
	}
	rec.clearCache()

	c.logger.WithContext(ctx).Debug("translation.deleted_all",
		"schema", rec.schema.name, "record_id", rec.ID, "manual_cascade", c.manualCascade)
	event.Type = interfaces.EventPostDelete
	c.events.Emit(ctx, event)
	return nil
}

// DeleteTranslation removes the stored translation of rec for language and
// evicts it from both caches. A translation that only exists in memory is
// dropped without touching the store.
func (c *Coordinator) DeleteTranslation(ctx context.Context, rec *Record, language string) error {
	if err := checkRecord(rec); err != nil {
		return err
	}
	code, err := c.policy.Normalize(language)
	if err != nil {
		return err
	}

	t := rec.translations[code]
	if t != nil && t.IsNew() {
		rec.forget(code)
		return nil
	}
	if !rec.IsSaved() {
		return &NotFoundError{Type: rec.schema.name, ID: rec.ID, Language: code}
	}

	var id uuid.UUID
	if t != nil {
		id = t.ID
	} else {
		row, err := c.store.Get(ctx, rec.schema, rec.ID, code)
		if err != nil {
			if errors.Is(err, storage.ErrRowNotFound) {
				return &NotFoundError{Type: rec.schema.name, ID: rec.ID, Language: code}
			}
			return err
		}
		t, err = translationFromRow(rec.schema, row)
		if err != nil {
			return err
		}
		id = row.ID
	}

	c.emit(ctx, interfaces.EventPreDelete, rec, t, false)
	if err := c.store.Delete(ctx, rec.schema, id); err != nil {
		if errors.Is(err, storage.ErrRowNotFound) {
			rec.forget(code)
			return &NotFoundError{Type: rec.schema.name, ID: rec.ID, Language: code}
		}
		return err
	}
	rec.forget(code)
	if err := c.cache.Evict(ctx, rec.schema.name, rec.ID, code); err != nil {
		return err
	}
	c.emit(ctx, interfaces.EventPostDelete, rec, t, false)
	return nil
}

func (c *Coordinator) emit(ctx context.Context, eventType interfaces.TranslationEventType, rec *Record, t *Translation, created bool) {
	c.events.Emit(ctx, interfaces.TranslationEvent{
		Type:          eventType,
		Schema:        rec.schema.name,
		RecordID:      rec.ID,
		TranslationID: t.ID,
		Language:      t.LanguageCode,
		Created:       created,
		Values:        t.Values(),
	})
}
