package di

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-translatable/internal/adapters/noop"
	"github.com/goliatone/go-translatable/internal/cache"
	"github.com/goliatone/go-translatable/internal/languages"
	"github.com/goliatone/go-translatable/internal/logging"
	"github.com/goliatone/go-translatable/internal/logging/console"
	"github.com/goliatone/go-translatable/internal/logging/gologger"
	"github.com/goliatone/go-translatable/internal/runtimeconfig"
	"github.com/goliatone/go-translatable/internal/storage"
	"github.com/goliatone/go-translatable/internal/translations"
	"github.com/goliatone/go-translatable/pkg/interfaces"
)

// Container wires module dependencies from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider
	cacheProvider  interfaces.CacheProvider
	store          interfaces.TranslationStore
	events         interfaces.EventEmitter

	languageSource   *languages.BunSource
	policy           *languages.Policy
	translationCache *cache.TranslationCache
	hooks            *translations.Hooks
	broadcaster      *translations.Broadcaster
	registry         *translations.Registry
	service          *translations.Service

	closers []func() error
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB supplies the database used for translation rows and the
// database language source. The container does not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache used by the database language source.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithCacheProvider overrides the byte store behind the shared translation cache.
func WithCacheProvider(provider interfaces.CacheProvider) Option {
	return func(c *Container) {
		c.cacheProvider = provider
	}
}

// WithLoggerProvider overrides the logger provider selected by configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithStore overrides the translation row store.
func WithStore(store interfaces.TranslationStore) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithEvents adds an emitter that receives every lifecycle event.
func WithEvents(emitter interfaces.EventEmitter) Option {
	return func(c *Container) {
		c.events = emitter
	}
}

// NewContainer validates cfg and builds the object graph. ctx bounds the
// bootstrap work: connecting to Redis and loading the language table.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cfg.Cache.TTL,
		hooks:    translations.NewHooks(),
		registry: translations.NewRegistry(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	steps := []func(context.Context) error{
		c.configureLoggerProvider,
		c.configureDatabase,
		c.configureCacheDefaults,
		c.configureLanguages,
		c.configureStore,
		c.configureTranslationCache,
		c.configureService,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return nil, errors.Join(err, c.Close())
		}
	}
	return c, nil
}

func (c *Container) configureLoggerProvider(context.Context) error {
	if c.loggerProvider != nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "console":
		opts := console.Options{}
		if level, ok := console.ParseLevel(c.Config.Logging.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	}
	return nil
}

func (c *Container) configureDatabase(context.Context) error {
	if c.bunDB != nil {
		return nil
	}
	driver := strings.ToLower(strings.TrimSpace(c.Config.Storage.Driver))
	if driver == "" || driver == runtimeconfig.DriverMemory {
		return nil
	}
	db, err := storage.Open(driver, c.Config.Storage.DSN)
	if err != nil {
		return err
	}
	c.bunDB = db
	c.closers = append(c.closers, db.Close)
	return nil
}

func (c *Container) configureCacheDefaults(context.Context) error {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
		return nil
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
	return nil
}

func (c *Container) configureLanguages(ctx context.Context) error {
	if !strings.EqualFold(strings.TrimSpace(c.Config.LanguageSource), runtimeconfig.SourceDatabase) {
		policy, err := languages.NewPolicy(c.Config.Settings())
		if err != nil {
			return err
		}
		c.policy = policy
		return nil
	}

	if c.bunDB == nil {
		return runtimeconfig.ErrDatabaseSourceRequiresSQL
	}
	c.languageSource = languages.NewBunSourceWithCache(c.bunDB, c.cacheService, c.keySerializer)
	if err := c.languageSource.CreateTable(ctx); err != nil {
		return fmt.Errorf("di: create language table: %w", err)
	}
	if len(c.Config.Languages) > 0 {
		if err := c.languageSource.Seed(ctx, c.Config.Settings()); err != nil {
			return err
		}
	}
	policy, err := c.languageSource.LoadPolicy(ctx)
	if err != nil {
		return err
	}
	c.policy = policy

	logging.ModuleLogger(c.loggerProvider, logging.LanguagesModule).Debug("language table loaded",
		"default", policy.Default(), "languages", policy.Codes())
	return nil
}

func (c *Container) configureStore(context.Context) error {
	if c.store != nil {
		return nil
	}
	if c.bunDB != nil {
		c.store = storage.NewBunStore(c.bunDB,
			storage.WithLogger(logging.ModuleLogger(c.loggerProvider, logging.StorageModule)))
		return nil
	}
	c.store = storage.NewMemoryStore()
	return nil
}

func (c *Container) configureTranslationCache(ctx context.Context) error {
	if !c.Config.Cache.Enabled {
		return nil
	}
	if c.cacheProvider == nil {
		switch strings.ToLower(strings.TrimSpace(c.Config.Cache.Backend)) {
		case "", runtimeconfig.BackendMemory:
			c.cacheProvider = cache.NewMemoryStore()
		case runtimeconfig.BackendRedis:
			redisStore, err := cache.NewRedisStore(ctx, c.Config.Cache.RedisURL)
			if err != nil {
				return err
			}
			c.cacheProvider = redisStore
			c.closers = append(c.closers, redisStore.Close)
		case runtimeconfig.BackendNone:
			c.cacheProvider = noop.Cache()
		}
	}
	c.translationCache = cache.NewTranslationCache(c.cacheProvider, cache.Options{
		TTL:    c.Config.Cache.TTL,
		Prefix: c.Config.Cache.Prefix,
		Strict: c.Config.Cache.Strict,
		Logger: logging.ModuleLogger(c.loggerProvider, logging.CacheModule),
	})
	return nil
}

func (c *Container) configureService(context.Context) error {
	c.broadcaster = translations.NewBroadcaster(32)
	svc, err := translations.NewService(translations.Options{
		Policy:         c.policy,
		Store:          c.store,
		Cache:          c.translationCache,
		Events:         translations.Emitters(c.hooks, c.broadcaster, c.events),
		LoggerProvider: c.loggerProvider,
		ManualCascade:  c.Config.Storage.ManualCascade,
	})
	if err != nil {
		return err
	}
	c.service = svc
	return nil
}

// RegisterSchema adds schema to the registry. Stores able to create tables
// get the companion table created when it is missing.
func (c *Container) RegisterSchema(ctx context.Context, schema *translations.Schema) error {
	if err := c.registry.Register(schema); err != nil {
		return err
	}
	if creator, ok := c.store.(interface {
		CreateTable(context.Context, interfaces.TranslationTable) error
	}); ok {
		return creator.CreateTable(ctx, schema)
	}
	return nil
}

// Close releases connections the container opened itself, in reverse order.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *Container) TranslationService() *translations.Service { return c.service }
func (c *Container) Policy() *languages.Policy                 { return c.policy }
func (c *Container) Registry() *translations.Registry          { return c.registry }
func (c *Container) Hooks() *translations.Hooks                { return c.hooks }
func (c *Container) Broadcaster() *translations.Broadcaster    { return c.broadcaster }
func (c *Container) Store() interfaces.TranslationStore        { return c.store }
func (c *Container) TranslationCache() *cache.TranslationCache { return c.translationCache }
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }
func (c *Container) LanguageSource() *languages.BunSource      { return c.languageSource }
func (c *Container) DB() *bun.DB                               { return c.bunDB }
