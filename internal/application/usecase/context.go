// internal/application/usecase/context.go
package usecase

import (
	"context"
	"strings"
)

// Actor is the authenticated identity performing an operation. The auth
// middleware fills it from the verified token; background jobs use System.
type Actor struct {
	UID   string
	Email string
	Name  string
}

// Display picks the most readable identifier for logs and history entries.
func (a Actor) Display() string {
	if s := strings.TrimSpace(a.Name); s != "" {
		return s
	}
	if s := strings.TrimSpace(a.Email); s != "" {
		return s
	}
	if s := strings.TrimSpace(a.UID); s != "" {
		return s
	}
	return "system"
}

type ctxKey string

const ctxKeyActor ctxKey = "actor"

// WithActor injects the actor from the outer layer (auth middleware).
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKeyActor, a)
}

// ActorFromContext extracts the actor; zero value when none was injected.
func ActorFromContext(ctx context.Context) Actor {
	a, ok := ctx.Value(ctxKeyActor).(Actor)
	if !ok {
		return Actor{}
	}
	return a
}
