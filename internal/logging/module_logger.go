package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-translatable/pkg/interfaces"
	"github.com/google/uuid"
)

const (
	RootModule        = "translatable"
	ResolverModule    = "translatable.resolver"
	PersistenceModule = "translatable.persistence"
	CacheModule       = "translatable.cache"
	StorageModule     = "translatable.storage"
	LanguagesModule   = "translatable.languages"
)

const (
	fieldSchema   = "schema"
	fieldRecordID = "record_id"
	fieldLanguage = "language"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = RootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// WithTranslationContext enriches the logger with the record type, identity
// and language of a translation operation. Empty values are skipped.
func WithTranslationContext(logger interfaces.Logger, schema string, id uuid.UUID, language string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(schema); trimmed != "" {
		fields[fieldSchema] = trimmed
	}
	if id != uuid.Nil {
		fields[fieldRecordID] = id.String()
	}
	if trimmed := strings.TrimSpace(language); trimmed != "" {
		fields[fieldLanguage] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
