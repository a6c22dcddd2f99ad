package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-translatable/internal/languages"
	"github.com/goliatone/go-translatable/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidateRejectsInconsistentSettings(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{"default language", func(c *runtimeconfig.Config) { c.DefaultLanguage = " " }, runtimeconfig.ErrDefaultLanguageRequired},
		{"static languages", func(c *runtimeconfig.Config) { c.Languages = nil }, runtimeconfig.ErrLanguagesRequired},
		{"language entry", func(c *runtimeconfig.Config) {
			c.Languages = runtimeconfig.LanguageList{{Code: "a-very-long-language-code"}}
		}, runtimeconfig.ErrLanguagesInvalid},
		{"language source", func(c *runtimeconfig.Config) { c.LanguageSource = "ldap" }, runtimeconfig.ErrLanguageSourceUnknown},
		{"cache backend", func(c *runtimeconfig.Config) { c.Cache.Backend = "memcached" }, runtimeconfig.ErrCacheBackendUnknown},
		{"cache ttl", func(c *runtimeconfig.Config) { c.Cache.TTL = -time.Second }, runtimeconfig.ErrCacheTTLInvalid},
		{"redis url", func(c *runtimeconfig.Config) { c.Cache.Backend = "redis" }, runtimeconfig.ErrRedisURLRequired},
		{"storage driver", func(c *runtimeconfig.Config) { c.Storage.Driver = "mongo" }, runtimeconfig.ErrStorageDriverUnknown},
		{"storage dsn", func(c *runtimeconfig.Config) { c.Storage.Driver = "sqlite3" }, runtimeconfig.ErrStorageDSNRequired},
		{"database source", func(c *runtimeconfig.Config) { c.LanguageSource = runtimeconfig.SourceDatabase }, runtimeconfig.ErrDatabaseSourceRequiresSQL},
		{"logging provider", func(c *runtimeconfig.Config) { c.Logging.Provider = "syslog" }, runtimeconfig.ErrLoggingProviderUnknown},
		{"logging level", func(c *runtimeconfig.Config) { c.Logging.Level = "verbose" }, runtimeconfig.ErrLoggingLevelInvalid},
		{"logging format", func(c *runtimeconfig.Config) {
			c.Logging.Provider = "gologger"
			c.Logging.Format = "xml"
		}, runtimeconfig.ErrLoggingFormatInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidateIgnoresCacheSettingsWhenDisabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Cache.Backend = "redis"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestDatabaseSourceAllowsEmptyLanguageTable(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.LanguageSource = runtimeconfig.SourceDatabase
	cfg.Languages = nil
	cfg.Storage.Driver = "sqlite"
	cfg.Storage.DSN = "file::memory:"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestLanguageListUnmarshalText(t *testing.T) {
	var list runtimeconfig.LanguageList
	if err := list.UnmarshalText([]byte("en, fr:en ,de:en,")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	want := runtimeconfig.LanguageList{{Code: "en"}, {Code: "fr", Fallback: "en"}, {Code: "de", Fallback: "en"}}
	if len(list) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), list)
	}
	for i := range want {
		if list[i] != want[i] {
			t.Fatalf("entry %d: expected %+v, got %+v", i, want[i], list[i])
		}
	}

	if err := list.UnmarshalText([]byte(":en")); !errors.Is(err, runtimeconfig.ErrLanguagesInvalid) {
		t.Fatalf("expected ErrLanguagesInvalid, got %v", err)
	}
}

func TestLoadEnvOverlaysDefaults(t *testing.T) {
	t.Setenv("TEST_DEFAULT_LANGUAGE", "fr")
	t.Setenv("TEST_LANGUAGES", "en,fr:en")
	t.Setenv("TEST_CACHE_BACKEND", "redis")
	t.Setenv("TEST_CACHE_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("TEST_CACHE_TTL", "90s")
	t.Setenv("TEST_STORAGE_MANUAL_CASCADE", "true")
	t.Setenv("TEST_LOG_FOCUS", "translatable.resolver,translatable.cache")

	cfg, err := runtimeconfig.LoadEnv("TEST_", filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if cfg.DefaultLanguage != "fr" || len(cfg.Languages) != 2 || cfg.Languages[1].Fallback != "en" {
		t.Fatalf("unexpected languages %q %+v", cfg.DefaultLanguage, cfg.Languages)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisURL == "" || cfg.Cache.TTL != 90*time.Second {
		t.Fatalf("unexpected cache config %+v", cfg.Cache)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Prefix != "translatable" {
		t.Fatalf("expected defaults to survive, got %+v", cfg.Cache)
	}
	if !cfg.Storage.ManualCascade || cfg.Storage.Driver != runtimeconfig.DriverMemory {
		t.Fatalf("unexpected storage config %+v", cfg.Storage)
	}
	if len(cfg.Logging.Focus) != 2 || cfg.Logging.Focus[1] != "translatable.cache" {
		t.Fatalf("unexpected focus %v", cfg.Logging.Focus)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestLoadEnvReadsDotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("DOTENV_STORAGE_DRIVER=sqlite3\nDOTENV_STORAGE_DSN=file::memory:\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("DOTENV_STORAGE_DRIVER")
		os.Unsetenv("DOTENV_STORAGE_DSN")
	})

	cfg, err := runtimeconfig.LoadEnv("DOTENV_", path)
	if err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if cfg.Storage.Driver != "sqlite3" || cfg.Storage.DSN != "file::memory:" {
		t.Fatalf("unexpected storage config %+v", cfg.Storage)
	}
}

func TestLoadLanguagesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "languages.yaml")
	content := "default: en\nlanguages:\n  - code: en\n    title: English\n  - code: fr\n    fallback: en\n  - code: de\n    fallback: en\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write languages: %v", err)
	}

	settings, err := runtimeconfig.LoadLanguagesFile(path)
	if err != nil {
		t.Fatalf("LoadLanguagesFile() error = %v", err)
	}
	if settings.Default != "en" || len(settings.Languages) != 3 {
		t.Fatalf("unexpected settings %+v", settings)
	}
	if settings.Languages[0].Title != "English" || settings.Languages[2].Fallback != "en" {
		t.Fatalf("unexpected entries %+v", settings.Languages)
	}

	cfg := runtimeconfig.DefaultConfig()
	cfg.ApplySettings(settings)
	if _, err := languages.NewPolicy(cfg.Settings()); err != nil {
		t.Fatalf("NewPolicy() error = %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("languages: []\n"), 0o600); err != nil {
		t.Fatalf("write bad: %v", err)
	}
	if _, err := runtimeconfig.LoadLanguagesFile(bad); !errors.Is(err, runtimeconfig.ErrLanguagesInvalid) {
		t.Fatalf("expected ErrLanguagesInvalid, got %v", err)
	}
	if _, err := runtimeconfig.LoadLanguagesFile(filepath.Join(dir, "none.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}
