package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	translatable "github.com/goliatone/go-translatable"
)

var articleSchema = translatable.NewSchema("article").
	MasterTable("articles").
	Field("title", translatable.String).
	Field("body", translatable.Text).
	Field("slug", translatable.String, translatable.WithoutFallback(), translatable.AnyLanguage()).
	MustBuild()

func main() {
	languagesFile := flag.String("languages", "", "YAML language table (default: en, fr->en, de->en)")
	envPrefix := flag.String("env-prefix", "TRANSLATABLE_", "environment variable prefix")
	flag.Parse()

	ctx := context.Background()
	if err := run(ctx, *envPrefix, *languagesFile); err != nil {
		log.Fatalf("example: %v", err)
	}
}

func run(ctx context.Context, envPrefix, languagesFile string) error {
	cfg, err := translatable.LoadEnv(envPrefix)
	if err != nil {
		return err
	}
	if languagesFile != "" {
		settings, err := translatable.LoadLanguagesFile(languagesFile)
		if err != nil {
			return err
		}
		cfg.ApplySettings(settings)
	} else if _, set := os.LookupEnv(envPrefix + "LANGUAGES"); !set {
		cfg.Languages = translatable.LanguageList{
			{Code: "en", Title: "English"},
			{Code: "fr", Fallback: "en", Title: "Français"},
			{Code: "de", Fallback: "en", Title: "Deutsch"},
		}
	}
	if cfg.Storage.Driver == "" || strings.EqualFold(cfg.Storage.Driver, "memory") {
		cfg.Storage.Driver = "sqlite3"
		cfg.Storage.DSN = "file:translatable_example?mode=memory&cache=shared&_fk=1"
	}

	module, err := translatable.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer module.Close()

	db := module.Container().DB()
	if _, err := db.NewRaw("CREATE TABLE IF NOT EXISTS articles (id VARCHAR(36) PRIMARY KEY)").Exec(ctx); err != nil {
		return fmt.Errorf("create articles: %w", err)
	}
	if err := module.Register(ctx, articleSchema); err != nil {
		return err
	}

	module.Hooks().On(translatable.EventPostSave, func(_ context.Context, evt translatable.Event) {
		fmt.Printf("saved %s/%s created=%v\n", evt.Schema, evt.Language, evt.Created)
	})

	id := uuid.New()
	if _, err := db.NewRaw("INSERT INTO articles (id) VALUES (?)", id.String()).Exec(ctx); err != nil {
		return fmt.Errorf("insert article: %w", err)
	}

	svc := module.Translations()
	article, err := module.NewRecord(ctx, articleSchema, id, map[string]any{
		"title": "Hello",
		"body":  "First post",
	})
	if err != nil {
		return err
	}
	if err := svc.Save(ctx, article); err != nil {
		return err
	}

	german, err := module.NewRecord(translatable.WithLanguage(ctx, "de"), articleSchema, id, nil)
	if err != nil {
		return err
	}
	title, err := svc.Get(ctx, german, "title")
	if err != nil {
		return err
	}
	hasDE, err := svc.HasTranslation(ctx, german, "de")
	if err != nil {
		return err
	}
	hasEN, err := svc.HasTranslation(ctx, german, "en")
	if err != nil {
		return err
	}
	available, err := svc.AvailableLanguages(ctx, german)
	if err != nil {
		return err
	}

	fmt.Printf("de title (via fallback): %v\n", title)
	fmt.Printf("has de: %v, has en: %v\n", hasDE, hasEN)
	fmt.Printf("available: %s\n", strings.Join(available, ", "))

	notice := uuid.New()
	if _, err := db.NewRaw("INSERT INTO articles (id) VALUES (?)", notice.String()).Exec(ctx); err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	french, err := module.NewRecord(translatable.WithLanguage(ctx, "fr"), articleSchema, notice, map[string]any{
		"title": "Avis",
		"slug":  "avis",
	})
	if err != nil {
		return err
	}
	if err := svc.Save(ctx, french); err != nil {
		return err
	}
	english, err := module.NewRecord(ctx, articleSchema, notice, nil)
	if err != nil {
		return err
	}
	slug, err := svc.Get(ctx, english, "slug")
	if err != nil {
		return err
	}
	fmt.Printf("en slug (any language): %v\n", slug)

	if _, err := db.NewRaw("DELETE FROM articles WHERE id = ?", id.String()).Exec(ctx); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if err := svc.DeleteAll(ctx, german); err != nil {
		return err
	}
	available, err = svc.AvailableLanguages(ctx, german)
	if err != nil {
		return err
	}
	fmt.Printf("after delete: %d translations\n", len(available))
	return nil
}
