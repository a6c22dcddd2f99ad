package translations

import (
	"context"
	"sync"

	"github.com/goliatone/go-translatable/pkg/interfaces"
)

// HookFunc handles a lifecycle event synchronously.
type HookFunc func(ctx context.Context, event interfaces.TranslationEvent)

// Hooks is a synchronous callback registry keyed by event type.
type Hooks struct {
	mu       sync.RWMutex
	handlers map[interfaces.TranslationEventType][]HookFunc
}

// NewHooks constructs an empty registry.
func NewHooks() *Hooks {
	return &Hooks{handlers: make(map[interfaces.TranslationEventType][]HookFunc)}
}

// On registers fn for eventType. Handlers run in registration order.
func (h *Hooks) On(eventType interfaces.TranslationEventType, fn HookFunc) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[eventType] = append(h.handlers[eventType], fn)
}

func (h *Hooks) Emit(ctx context.Context, event interfaces.TranslationEvent) {
	h.mu.RLock()
	handlers := h.handlers[event.Type]
	h.mu.RUnlock()

	for _, fn := range handlers {
		fn(ctx, event)
	}
}

// Broadcaster fans events out to subscribers. Slow subscribers miss events
// rather than block the emitter.
type Broadcaster struct {
	mu       sync.Mutex
	watchers map[uint64]chan interfaces.TranslationEvent
	nextID   uint64
	buffer   int
}

// NewBroadcaster constructs a broadcaster whose subscriber channels hold
// buffer events. Values below one are raised to one.
func NewBroadcaster(buffer int) *Broadcaster {
	if buffer < 1 {
		buffer = 1
	}
	return &Broadcaster{
		watchers: make(map[uint64]chan interfaces.TranslationEvent),
		buffer:   buffer,
	}
}

// Subscribe delivers events until ctx is cancelled, then closes the channel.
func (b *Broadcaster) Subscribe(ctx context.Context) (<-chan interfaces.TranslationEvent, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		ch := make(chan interfaces.TranslationEvent)
		close(ch)
		return ch, nil
	}
	ch := make(chan interfaces.TranslationEvent, b.buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.watchers[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.watchers, id)
		close(ch)
		b.mu.Unlock()
	}()

	return ch, nil
}

func (b *Broadcaster) Emit(_ context.Context, event interfaces.TranslationEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.watchers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Emitters combines several emitters into one, skipping nil entries.
func Emitters(emitters ...interfaces.EventEmitter) interfaces.EventEmitter {
	out := make(multiEmitter, 0, len(emitters))
	for _, e := range emitters {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

type multiEmitter []interfaces.EventEmitter

func (m multiEmitter) Emit(ctx context.Context, event interfaces.TranslationEvent) {
	for _, e := range m {
		e.Emit(ctx, event)
	}
}

var (
	_ interfaces.EventEmitter = (*Hooks)(nil)
	_ interfaces.EventEmitter = (*Broadcaster)(nil)
)
