package noop

import (
	"context"
	"time"

	"github.com/goliatone/go-translatable/pkg/interfaces"
)

// Cache returns an interfaces.CacheProvider that never stores anything.
// Every lookup reports a miss.
func Cache() interfaces.CacheProvider {
	return cacheAdapter{}
}

type cacheAdapter struct{}

func (cacheAdapter) Get(context.Context, string) ([]byte, error) {
	return nil, interfaces.ErrCacheMiss
}

func (cacheAdapter) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (cacheAdapter) Delete(context.Context, ...string) error {
	return nil
}

// Events returns an emitter that drops every event.
func Events() interfaces.EventEmitter {
	return eventAdapter{}
}

type eventAdapter struct{}

func (eventAdapter) Emit(context.Context, interfaces.TranslationEvent) {}
