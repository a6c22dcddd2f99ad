package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-translatable/internal/logging"
	"github.com/goliatone/go-translatable/pkg/interfaces"
)

// DefaultPrefix is prepended to every translation cache key.
const DefaultPrefix = "translatable"

// DefaultTTL bounds the lifetime of cached snapshots and absence markers.
const DefaultTTL = 5 * time.Minute

// Snapshot is the serialized form of one translation, or an absence marker
// when Missing is set.
type Snapshot struct {
	ID           uuid.UUID      `json:"id,omitempty"`
	MasterID     uuid.UUID      `json:"master_id"`
	LanguageCode string         `json:"language_code"`
	Values       map[string]any `json:"values,omitempty"`
	Missing      bool           `json:"missing,omitempty"`
}

// Options configure a TranslationCache.
type Options struct {
	TTL    time.Duration
	Prefix string
	// Strict propagates provider failures instead of degrading to a miss.
	Strict bool
	Logger interfaces.Logger
}

// TranslationCache maps (schema, record id, language) to translation
// snapshots on top of a byte-oriented CacheProvider. A nil *TranslationCache
// is valid and behaves as a permanently empty cache.
type TranslationCache struct {
	provider interfaces.CacheProvider
	ttl      time.Duration
	prefix   string
	strict   bool
	logger   interfaces.Logger
}

// NewTranslationCache wraps provider. A nil provider yields a nil cache.
func NewTranslationCache(provider interfaces.CacheProvider, opts Options) *TranslationCache {
	if provider == nil {
		return nil
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	prefix := strings.TrimSpace(opts.Prefix)
	if prefix == "" {
		prefix = DefaultPrefix
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &TranslationCache{
		provider: provider,
		ttl:      ttl,
		prefix:   prefix,
		strict:   opts.Strict,
		logger:   logger,
	}
}

// Key derives the cache key for one (schema, id, language) triple.
func (c *TranslationCache) Key(schema string, id uuid.UUID, language string) string {
	prefix := DefaultPrefix
	if c != nil {
		prefix = c.prefix
	}
	return fmt.Sprintf("%s:%s:%s:%s", prefix, schema, id, language)
}

// Get returns the cached snapshot. found is false on a miss; a hit may carry
// an absence marker (Snapshot.Missing).
func (c *TranslationCache) Get(ctx context.Context, schema string, id uuid.UUID, language string) (*Snapshot, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	key := c.Key(schema, id, language)
	raw, err := c.provider.Get(ctx, key)
	if err != nil {
		if errors.Is(err, interfaces.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, c.degrade(ctx, "cache.get_failed", key, err)
	}

	// Numbers stay json.Number so int64 values above 2^53 survive the trip.
	var snapshot Snapshot
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&snapshot); err != nil {
		c.logger.WithContext(ctx).Warn("cache.decode_failed", "key", key, "error", err)
		_ = c.provider.Delete(ctx, key)
		return nil, false, nil
	}
	return &snapshot, true, nil
}

// Put writes a snapshot for a persisted translation.
func (c *TranslationCache) Put(ctx context.Context, schema string, snapshot Snapshot) error {
	if c == nil {
		return nil
	}
	snapshot.Missing = false
	return c.write(ctx, c.Key(schema, snapshot.MasterID, snapshot.LanguageCode), snapshot)
}

// PutMissing records that no row exists for (schema, id, language).
func (c *TranslationCache) PutMissing(ctx context.Context, schema string, id uuid.UUID, language string) error {
	if c == nil {
		return nil
	}
	return c.write(ctx, c.Key(schema, id, language), Snapshot{
		MasterID:     id,
		LanguageCode: language,
		Missing:      true,
	})
}

// Evict removes the entries for every listed language.
func (c *TranslationCache) Evict(ctx context.Context, schema string, id uuid.UUID, languages ...string) error {
	if c == nil || len(languages) == 0 {
		return nil
	}
	keys := make([]string, 0, len(languages))
	for _, language := range languages {
		keys = append(keys, c.Key(schema, id, language))
	}
	if err := c.provider.Delete(ctx, keys...); err != nil {
		return c.degrade(ctx, "cache.evict_failed", strings.Join(keys, ","), err)
	}
	return nil
}

func (c *TranslationCache) write(ctx context.Context, key string, snapshot Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		// A stale entry must not outlive a write that could not be cached.
		if delErr := c.provider.Delete(ctx, key); delErr != nil {
			err = errors.Join(err, delErr)
		}
		return c.degrade(ctx, "cache.encode_failed", key, err)
	}
	if err := c.provider.Set(ctx, key, payload, c.ttl); err != nil {
		return c.degrade(ctx, "cache.set_failed", key, err)
	}
	return nil
}

func (c *TranslationCache) degrade(ctx context.Context, event, key string, err error) error {
	if c.strict {
		return fmt.Errorf("cache: %s: %w", key, err)
	}
	c.logger.WithContext(ctx).Warn(event, "key", key, "error", err)
	return nil
}
