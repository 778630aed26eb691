// internal/domain/audit/event.go
package audit

import (
	"context"
	"strings"
	"time"
)

// Event is one structured audit record. Every status transition and payment
// confirmation emits one.
type Event struct {
	Actor      string
	Action     string
	EntityType string
	EntityID   string
	Timestamp  time.Time
	Payload    map[string]any
}

func NewEvent(actor, action, entityType, entityID string, at time.Time, payload map[string]any) Event {
	return Event{
		Actor:      strings.TrimSpace(actor),
		Action:     strings.TrimSpace(action),
		EntityType: strings.TrimSpace(entityType),
		EntityID:   strings.TrimSpace(entityID),
		Timestamp:  at.UTC(),
		Payload:    payload,
	}
}

// Sink is the outbound audit port. Writes are append-only; failures must not
// abort the business operation (callers log and continue).
type Sink interface {
	Record(ctx context.Context, e Event) error
}
