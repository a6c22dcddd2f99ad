package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-translatable/internal/languages"
)

var ErrDefaultLanguageRequired = errors.New("translatable config: default language is required")
var ErrLanguagesRequired = errors.New("translatable config: at least one language is required for the static source")
var ErrLanguagesInvalid = errors.New("translatable config: language table is invalid")
var ErrLanguageSourceUnknown = errors.New("translatable config: language source is invalid")

// ErrCacheBackendUnknown indicates a cache backend outside memory, redis and none.
var ErrCacheBackendUnknown = errors.New("translatable config: cache backend is invalid")
var ErrCacheTTLInvalid = errors.New("translatable config: cache ttl must be zero or positive")
var ErrRedisURLRequired = errors.New("translatable config: redis url is required for the redis cache backend")

// ErrStorageDriverUnknown indicates a storage driver outside memory, sqlite3 and postgres.
var ErrStorageDriverUnknown = errors.New("translatable config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("translatable config: storage dsn is required for sql drivers")
var ErrDatabaseSourceRequiresSQL = errors.New("translatable config: database language source requires a sql storage driver")

var ErrLoggingProviderUnknown = errors.New("translatable config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("translatable config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("translatable config: logging format is invalid")

// Language sources.
const (
	SourceStatic   = "static"
	SourceDatabase = "database"
)

// Cache backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// DriverMemory keeps translation rows in process. Intended for tests and demos.
const DriverMemory = "memory"

// DefaultEnvPrefix is prepended to every environment variable LoadEnv reads.
const DefaultEnvPrefix = "TRANSLATABLE_"

// Config aggregates the runtime settings of the translatable module.
type Config struct {
	DefaultLanguage string       `env:"DEFAULT_LANGUAGE" yaml:"default_language"`
	Languages       LanguageList `env:"LANGUAGES" yaml:"languages"`
	// LanguageSource selects where the language table comes from. The
	// database source seeds from Languages when the table is empty.
	LanguageSource string        `env:"LANGUAGE_SOURCE" yaml:"language_source"`
	Cache          CacheConfig   `envPrefix:"CACHE_" yaml:"cache"`
	Storage        StorageConfig `envPrefix:"STORAGE_" yaml:"storage"`
	Logging        LoggingConfig `envPrefix:"LOG_" yaml:"logging"`
}

// CacheConfig captures the shared translation cache.
type CacheConfig struct {
	Enabled  bool          `env:"ENABLED" yaml:"enabled"`
	Backend  string        `env:"BACKEND" yaml:"backend"`
	TTL      time.Duration `env:"TTL" yaml:"ttl"`
	Prefix   string        `env:"PREFIX" yaml:"prefix"`
	RedisURL string        `env:"REDIS_URL" yaml:"redis_url"`
	// Strict propagates cache failures instead of degrading to the store.
	Strict bool `env:"STRICT" yaml:"strict"`
}

// StorageConfig selects the translation row store.
type StorageConfig struct {
	Driver        string `env:"DRIVER" yaml:"driver"`
	DSN           string `env:"DSN" yaml:"dsn"`
	ManualCascade bool   `env:"MANUAL_CASCADE" yaml:"manual_cascade"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `env:"PROVIDER" yaml:"provider"`
	Level     string   `env:"LEVEL" yaml:"level"`
	Format    string   `env:"FORMAT" yaml:"format"`
	AddSource bool     `env:"ADD_SOURCE" yaml:"add_source"`
	Focus     []string `env:"FOCUS" envSeparator:"," yaml:"focus"`
}

// LanguageList reads from the environment as comma separated entries of
// the form code[:fallback], e.g. "en,fr:en,de:en".
type LanguageList []languages.Language

func (l *LanguageList) UnmarshalText(text []byte) error {
	var out LanguageList
	for _, entry := range strings.Split(string(text), ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		code, fallback, _ := strings.Cut(entry, ":")
		code = strings.TrimSpace(code)
		if code == "" {
			return fmt.Errorf("%w: empty code in %q", ErrLanguagesInvalid, entry)
		}
		out = append(out, languages.Language{Code: code, Fallback: strings.TrimSpace(fallback)})
	}
	*l = out
	return nil
}

// DefaultConfig returns a single-language setup backed by in-process stores.
func DefaultConfig() Config {
	return Config{
		DefaultLanguage: "en",
		Languages:       LanguageList{{Code: "en", Title: "English"}},
		LanguageSource:  SourceStatic,
		Cache: CacheConfig{
			Enabled: true,
			Backend: BackendMemory,
			TTL:     5 * time.Minute,
			Prefix:  "translatable",
		},
		Storage: StorageConfig{
			Driver: DriverMemory,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Settings returns the static language table.
func (cfg Config) Settings() languages.Settings {
	return languages.Settings{
		Default:   cfg.DefaultLanguage,
		Languages: append([]languages.Language(nil), cfg.Languages...),
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.DefaultLanguage) == "" {
		return ErrDefaultLanguageRequired
	}

	source := normalize(cfg.LanguageSource)
	switch source {
	case "", SourceStatic:
		if len(cfg.Languages) == 0 {
			return ErrLanguagesRequired
		}
	case SourceDatabase:
	default:
		return fmt.Errorf("%w: %s", ErrLanguageSourceUnknown, cfg.LanguageSource)
	}
	if len(cfg.Languages) > 0 {
		if err := cfg.Settings().Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrLanguagesInvalid, err)
		}
	}

	if cfg.Cache.Enabled {
		switch normalize(cfg.Cache.Backend) {
		case "", BackendMemory, BackendNone:
		case BackendRedis:
			if strings.TrimSpace(cfg.Cache.RedisURL) == "" {
				return ErrRedisURLRequired
			}
		default:
			return fmt.Errorf("%w: %s", ErrCacheBackendUnknown, cfg.Cache.Backend)
		}
		if cfg.Cache.TTL < 0 {
			return ErrCacheTTLInvalid
		}
	}

	driver := normalize(cfg.Storage.Driver)
	switch driver {
	case "", DriverMemory:
		if source == SourceDatabase {
			return ErrDatabaseSourceRequiresSQL
		}
	case "sqlite", "sqlite3", "postgres", "postgresql", "pgx", "pg":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, driver)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}

	provider := normalize(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// LoadEnv overlays environment variables onto DefaultConfig. Variables are
// read with prefix (DefaultEnvPrefix when empty) after loading the given
// dotenv files, or ".env" when none are named. Missing dotenv files are ignored.
func LoadEnv(prefix string, dotenv ...string) (Config, error) {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	for _, file := range dotenv {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("translatable config: load %s: %w", file, err)
		}
	}

	cfg := DefaultConfig()
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: prefix}); err != nil {
		return Config{}, fmt.Errorf("translatable config: parse env: %w", err)
	}
	return cfg, nil
}

// LoadLanguagesFile reads a YAML language table:
//
//	default: en
//	languages:
//	  - code: en
//	  - code: fr
//	    fallback: en
func LoadLanguagesFile(path string) (languages.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return languages.Settings{}, fmt.Errorf("translatable config: read %s: %w", path, err)
	}
	var settings languages.Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return languages.Settings{}, fmt.Errorf("%w: %s: %v", ErrLanguagesInvalid, path, err)
	}
	if err := settings.Validate(); err != nil {
		return languages.Settings{}, fmt.Errorf("%w: %s: %v", ErrLanguagesInvalid, path, err)
	}
	return settings, nil
}

// ApplySettings replaces the static language table with settings.
func (cfg *Config) ApplySettings(settings languages.Settings) {
	cfg.DefaultLanguage = settings.Default
	cfg.Languages = append(LanguageList(nil), settings.Languages...)
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
