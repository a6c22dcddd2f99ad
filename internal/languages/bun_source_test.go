package languages

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func TestBunSourceSeedAndLoad(t *testing.T) {
	db := newTestDB(t, "languages_seed")
	source := NewBunSource(db)
	ctx := context.Background()

	if err := source.CreateTable(ctx); err != nil {
		t.Fatalf("CreateTable() error = %v", err)
	}
	if _, err := source.Load(ctx); !errors.Is(err, ErrNoLanguages) {
		t.Fatalf("expected ErrNoLanguages, got %v", err)
	}

	if err := source.Seed(ctx, scenarioSettings()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	// seeding twice is a no-op
	if err := source.Seed(ctx, scenarioSettings()); err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}

	settings, err := source.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.Default != "en" {
		t.Fatalf("expected default en, got %q", settings.Default)
	}
	if len(settings.Languages) != 4 {
		t.Fatalf("expected 4 languages, got %d", len(settings.Languages))
	}

	policy, err := source.LoadPolicy(ctx)
	if err != nil {
		t.Fatalf("LoadPolicy() error = %v", err)
	}
	if fallback, ok := policy.FallbackOf("fr"); !ok || fallback != "en" {
		t.Fatalf("FallbackOf(fr) = %q, %v", fallback, ok)
	}

	record, err := source.Lookup(ctx, "pt-BR")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if record.Fallback != "pt-BR" {
		t.Fatalf("expected stored canonical fallback, got %q", record.Fallback)
	}

	var notFound *NotFoundError
	if _, err := source.Lookup(ctx, "es"); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestBunSourceWithCache(t *testing.T) {
	db := newTestDB(t, "languages_cached")
	cfg := repocache.DefaultConfig()
	cfg.TTL = time.Minute
	service, err := repocache.NewCacheService(cfg)
	if err != nil {
		t.Fatalf("NewCacheService() error = %v", err)
	}
	source := NewBunSourceWithCache(db, service, repocache.NewDefaultKeySerializer())
	ctx := context.Background()

	if err := source.CreateTable(ctx); err != nil {
		t.Fatalf("CreateTable() error = %v", err)
	}
	if err := source.Seed(ctx, Settings{Default: "en", Languages: []Language{{Code: "en"}}}); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		settings, err := source.Load(ctx)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(settings.Languages) != 1 || settings.Default != "en" {
			t.Fatalf("unexpected settings %+v", settings)
		}
	}
}

func newTestDB(t *testing.T, name string) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared&_fk=1")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db
}
