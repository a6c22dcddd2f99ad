package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// TranslationEventType enumerates lifecycle notifications for translation rows.
type TranslationEventType string

const (
	EventPreSave    TranslationEventType = "pre_save"
	EventPostSave   TranslationEventType = "post_save"
	EventPreDelete  TranslationEventType = "pre_delete"
	EventPostDelete TranslationEventType = "post_delete"
	EventPostInit   TranslationEventType = "post_init"
)

// TranslationEvent describes a single lifecycle step. Values is a copy taken
// when the event was emitted; mutating it has no effect on the translation.
type TranslationEvent struct {
	Type          TranslationEventType
	Schema        string
	RecordID      uuid.UUID
	TranslationID uuid.UUID
	Language      string
	Created       bool
	Values        map[string]any
}

// EventEmitter receives lifecycle events. Emit must not block the caller for
// long and cannot veto the operation.
type EventEmitter interface {
	Emit(ctx context.Context, event TranslationEvent)
}
