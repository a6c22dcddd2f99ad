package translations

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-translatable/internal/cache"
	"github.com/goliatone/go-translatable/internal/languages"
	"github.com/goliatone/go-translatable/internal/storage"
	"github.com/goliatone/go-translatable/pkg/interfaces"
)

var articleSchema = NewSchema("article").
	MasterTable("articles").
	Field("title", String).
	Field("body", Text).
	Field("slug", String, WithoutFallback(), AnyLanguage()).
	MustBuild()

func scenarioPolicy(t *testing.T) *languages.Policy {
	t.Helper()
	policy, err := languages.NewPolicy(languages.Settings{
		Default: "en",
		Languages: []languages.Language{
			{Code: "en"},
			{Code: "fr", Fallback: "en"},
			{Code: "de", Fallback: "en"},
		},
	})
	if err != nil {
		t.Fatalf("NewPolicy() error = %v", err)
	}
	return policy
}

type fixture struct {
	svc    *Service
	store  *countingStore
	cache  *cache.MemoryStore
	hooks  *Hooks
	events *eventLog
}

type fixtureOption func(*Options)

func withoutCache() fixtureOption {
	return func(o *Options) { o.Cache = nil }
}

func withCacheProvider(provider interfaces.CacheProvider) fixtureOption {
	return func(o *Options) { o.Cache = cache.NewTranslationCache(provider, cache.Options{TTL: time.Minute}) }
}

func withStore(store interfaces.TranslationStore) fixtureOption {
	return func(o *Options) { o.Store = store }
}

func withPolicy(policy *languages.Policy) fixtureOption {
	return func(o *Options) { o.Policy = policy }
}

func withManualCascade() fixtureOption {
	return func(o *Options) { o.ManualCascade = true }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	f := &fixture{
		store:  newCountingStore(storage.NewMemoryStore()),
		cache:  cache.NewMemoryStore(),
		hooks:  NewHooks(),
		events: &eventLog{},
	}
	options := Options{
		Policy: scenarioPolicy(t),
		Store:  f.store,
		Cache:  cache.NewTranslationCache(f.cache, cache.Options{TTL: time.Minute}),
		Events: Emitters(f.hooks, f.events),
	}
	for _, opt := range opts {
		opt(&options)
	}
	svc, err := NewService(options)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	f.svc = svc
	return f
}

// reload simulates fetching the base record again in a new request.
func (f *fixture) reload(t *testing.T, schema *Schema, id uuid.UUID) *Record {
	t.Helper()
	rec, err := f.svc.NewRecord(context.Background(), schema, id, nil)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}
	return rec
}

type countingStore struct {
	interfaces.TranslationStore
	mu     sync.Mutex
	counts map[string]int
}

func newCountingStore(inner interfaces.TranslationStore) *countingStore {
	return &countingStore{TranslationStore: inner, counts: map[string]int{}}
}

func (s *countingStore) count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[op]
}

func (s *countingStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.counts)
}

func (s *countingStore) hit(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[op]++
}

func (s *countingStore) Insert(ctx context.Context, table interfaces.TranslationTable, row *interfaces.TranslationRow) error {
	s.hit("insert")
	return s.TranslationStore.Insert(ctx, table, row)
}

func (s *countingStore) Update(ctx context.Context, table interfaces.TranslationTable, row *interfaces.TranslationRow) error {
	s.hit("update")
	return s.TranslationStore.Update(ctx, table, row)
}

func (s *countingStore) Get(ctx context.Context, table interfaces.TranslationTable, masterID uuid.UUID, language string) (*interfaces.TranslationRow, error) {
	s.hit("get")
	return s.TranslationStore.Get(ctx, table, masterID, language)
}

func (s *countingStore) First(ctx context.Context, table interfaces.TranslationTable, masterID uuid.UUID) (*interfaces.TranslationRow, error) {
	s.hit("first")
	return s.TranslationStore.First(ctx, table, masterID)
}

func (s *countingStore) Languages(ctx context.Context, table interfaces.TranslationTable, masterID uuid.UUID) ([]string, error) {
	s.hit("languages")
	return s.TranslationStore.Languages(ctx, table, masterID)
}

type eventLog struct {
	mu     sync.Mutex
	events []interfaces.TranslationEvent
}

func (l *eventLog) Emit(_ context.Context, event interfaces.TranslationEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) types() []interfaces.TranslationEventType {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]interfaces.TranslationEventType, len(l.events))
	for i, e := range l.events {
		out[i] = e.Type
	}
	return out
}

func (l *eventLog) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}

type failingCache struct{ err error }

func (f failingCache) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return f.err
}
func (f failingCache) Delete(context.Context, ...string) error { return f.err }

func mustSet(t *testing.T, svc *Service, rec *Record, field string, value any) {
	t.Helper()
	if err := svc.Set(context.Background(), rec, field, value); err != nil {
		t.Fatalf("Set(%s) error = %v", field, err)
	}
}

func mustSave(t *testing.T, svc *Service, rec *Record) {
	t.Helper()
	if err := svc.Save(context.Background(), rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
}
