package translatable

import "github.com/goliatone/go-translatable/internal/runtimeconfig"

var (
	ErrDefaultLanguageRequired   = runtimeconfig.ErrDefaultLanguageRequired
	ErrLanguagesRequired         = runtimeconfig.ErrLanguagesRequired
	ErrLanguagesInvalid          = runtimeconfig.ErrLanguagesInvalid
	ErrLanguageSourceUnknown     = runtimeconfig.ErrLanguageSourceUnknown
	ErrCacheBackendUnknown       = runtimeconfig.ErrCacheBackendUnknown
	ErrCacheTTLInvalid           = runtimeconfig.ErrCacheTTLInvalid
	ErrRedisURLRequired          = runtimeconfig.ErrRedisURLRequired
	ErrStorageDriverUnknown      = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired        = runtimeconfig.ErrStorageDSNRequired
	ErrDatabaseSourceRequiresSQL = runtimeconfig.ErrDatabaseSourceRequiresSQL
	ErrLoggingProviderUnknown    = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid       = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid      = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config        = runtimeconfig.Config
	CacheConfig   = runtimeconfig.CacheConfig
	StorageConfig = runtimeconfig.StorageConfig
	LoggingConfig = runtimeconfig.LoggingConfig
	LanguageList  = runtimeconfig.LanguageList
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadEnv reads configuration from the environment. See runtimeconfig.LoadEnv.
func LoadEnv(prefix string, dotenv ...string) (Config, error) {
	return runtimeconfig.LoadEnv(prefix, dotenv...)
}

func LoadLanguagesFile(path string) (LanguageSettings, error) {
	return runtimeconfig.LoadLanguagesFile(path)
}
