// internal/adapters/out/firestore/audit_sink_fs.go
package firestore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	auditdom "localix/internal/domain/audit"
)

const auditCollection = "audit_events"

// AuditSinkFS appends audit events to a Firestore collection. Documents are
// never updated or deleted; the collection is the immutable trail.
type AuditSinkFS struct {
	Client *firestore.Client
}

func NewAuditSinkFS(client *firestore.Client) *AuditSinkFS {
	return &AuditSinkFS{Client: client}
}

type auditDoc struct {
	Actor      string         `firestore:"actor"`
	Action     string         `firestore:"action"`
	EntityType string         `firestore:"entityType"`
	EntityID   string         `firestore:"entityId"`
	Timestamp  time.Time      `firestore:"timestamp"`
	Payload    map[string]any `firestore:"payload,omitempty"`
}

// Record implements audit.Sink.
func (s *AuditSinkFS) Record(ctx context.Context, e auditdom.Event) error {
	if s == nil || s.Client == nil {
		return fmt.Errorf("audit: firestore client is nil")
	}
	doc := auditDoc{
		Actor:      e.Actor,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Timestamp:  e.Timestamp,
		Payload:    e.Payload,
	}
	_, _, err := s.Client.Collection(auditCollection).Add(ctx, doc)
	if err != nil {
		if st, ok := status.FromError(err); ok && st.Code() == codes.PermissionDenied {
			return fmt.Errorf("audit: firestore write denied: %w", err)
		}
		return fmt.Errorf("audit: firestore write: %w", err)
	}
	return nil
}

// ListByEntity returns the trail of one entity, oldest first. Read path for
// back-office inspection; not part of the Sink port.
func (s *AuditSinkFS) ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]auditdom.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	q := s.Client.Collection(auditCollection).
		Where("entityType", "==", strings.TrimSpace(entityType)).
		Where("entityId", "==", strings.TrimSpace(entityID)).
		OrderBy("timestamp", firestore.Asc).
		Limit(limit)

	it := q.Documents(ctx)
	defer it.Stop()

	var out []auditdom.Event
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("audit: firestore read: %w", err)
		}
		var doc auditDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("audit: decode %s: %w", snap.Ref.ID, err)
		}
		out = append(out, auditdom.Event{
			Actor:      doc.Actor,
			Action:     doc.Action,
			EntityType: doc.EntityType,
			EntityID:   doc.EntityID,
			Timestamp:  doc.Timestamp,
			Payload:    doc.Payload,
		})
	}
	return out, nil
}
