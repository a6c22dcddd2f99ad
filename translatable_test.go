package translatable_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	translatable "github.com/goliatone/go-translatable"
)

func scenarioModule(t *testing.T) *translatable.Module {
	t.Helper()
	cfg := translatable.DefaultConfig()
	cfg.Logging.Provider = ""
	cfg.Languages = translatable.LanguageList{
		{Code: "en"},
		{Code: "fr", Fallback: "en"},
		{Code: "de", Fallback: "en"},
	}
	module, err := translatable.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })
	return module
}

func TestModuleFallbackScenario(t *testing.T) {
	module := scenarioModule(t)
	ctx := context.Background()
	schema := translatable.NewSchema("article").Field("title", translatable.String).MustBuild()
	if err := module.Register(ctx, schema); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	events, err := module.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}

	svc := module.Translations()
	id := uuid.New()
	record, err := module.NewRecord(ctx, schema, id, nil)
	if err != nil {
		t.Fatalf("NewRecord returned error: %v", err)
	}
	if err := svc.Set(ctx, record, "title", "Hello"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := svc.Save(ctx, record); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	select {
	case evt := <-events:
		if evt.Type != translatable.EventPreSave {
			t.Fatalf("expected pre_save first, got %s", evt.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for lifecycle event")
	}

	german, err := module.NewRecord(translatable.WithLanguage(ctx, "de"), schema, id, nil)
	if err != nil {
		t.Fatalf("NewRecord returned error: %v", err)
	}
	title, err := svc.Get(ctx, german, "title")
	if err != nil || title != "Hello" {
		t.Fatalf("Get(title) = %#v, %v", title, err)
	}
	if ok, _ := svc.HasTranslation(ctx, german, "de"); ok {
		t.Fatal("expected no de translation")
	}
	if ok, _ := svc.HasTranslation(ctx, german, "en"); !ok {
		t.Fatal("expected en translation")
	}

	_, err = svc.Resolve(ctx, german, translatable.ResolveOptions{Language: "fr"})
	var notFound *translatable.NotFoundError
	if !errors.As(err, &notFound) || !translatable.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Language != "fr" {
		t.Fatalf("expected fr in error, got %+v", notFound)
	}
}

func TestModuleErrorsMatchPublicSentinels(t *testing.T) {
	module := scenarioModule(t)
	ctx := context.Background()
	schema := translatable.NewSchema("page").Field("title", translatable.String).MustBuild()

	if _, err := module.NewRecord(translatable.WithLanguage(ctx, "it"), schema, uuid.Nil, nil); !errors.Is(err, translatable.ErrUnknownLanguage) || !errors.Is(err, translatable.ErrConfiguration) {
		t.Fatalf("expected ErrUnknownLanguage, got %v", err)
	}

	record, _ := module.NewRecord(ctx, schema, uuid.Nil, map[string]any{"title": "Draft"})
	if err := module.Translations().Save(ctx, record); !errors.Is(err, translatable.ErrRecordNotPersisted) {
		t.Fatalf("expected ErrRecordNotPersisted, got %v", err)
	}

	if _, err := translatable.NewSchema("page").Field("id", translatable.String).Build(); !errors.Is(err, translatable.ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema, got %v", err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := translatable.DefaultConfig()
	cfg.Storage.Driver = "oracle"

	if _, err := translatable.New(context.Background(), cfg); !errors.Is(err, translatable.ErrStorageDriverUnknown) {
		t.Fatalf("expected ErrStorageDriverUnknown, got %v", err)
	}
}
