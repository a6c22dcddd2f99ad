package translations

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-translatable/pkg/interfaces"
)

func TestHooksRunInRegistrationOrder(t *testing.T) {
	hooks := NewHooks()
	var calls []string
	hooks.On(interfaces.EventPreSave, func(context.Context, interfaces.TranslationEvent) { calls = append(calls, "first") })
	hooks.On(interfaces.EventPreSave, func(context.Context, interfaces.TranslationEvent) { calls = append(calls, "second") })
	hooks.On(interfaces.EventPostSave, func(context.Context, interfaces.TranslationEvent) { calls = append(calls, "post") })
	hooks.On(interfaces.EventPreSave, nil)

	hooks.Emit(context.Background(), interfaces.TranslationEvent{Type: interfaces.EventPreSave})

	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("unexpected calls %v", calls)
	}
}

func TestBroadcasterDeliversUntilCancelled(t *testing.T) {
	broadcaster := NewBroadcaster(2)
	ctx, cancel := context.WithCancel(context.Background())

	events, err := broadcaster.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	broadcaster.Emit(ctx, interfaces.TranslationEvent{Type: interfaces.EventPostSave, Language: "en"})
	select {
	case evt := <-events:
		if evt.Type != interfaces.EventPostSave || evt.Language != "en" {
			t.Fatalf("unexpected event %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}

	cancel()
	select {
	case _, ok := <-events:
		if ok {
			t.Fatal("expected channel to close after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for close")
	}
}

func TestBroadcasterDropsWhenSubscriberIsFull(t *testing.T) {
	broadcaster := NewBroadcaster(1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _ := broadcaster.Subscribe(ctx)
	broadcaster.Emit(ctx, interfaces.TranslationEvent{Type: interfaces.EventPreSave})
	broadcaster.Emit(ctx, interfaces.TranslationEvent{Type: interfaces.EventPostSave})

	if evt := <-events; evt.Type != interfaces.EventPreSave {
		t.Fatalf("expected first event to be kept, got %v", evt.Type)
	}
	select {
	case evt := <-events:
		t.Fatalf("expected overflow to be dropped, got %v", evt.Type)
	default:
	}
}

func TestSubscribeWithCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events, err := NewBroadcaster(1).Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if _, ok := <-events; ok {
		t.Fatal("expected closed channel")
	}
}
