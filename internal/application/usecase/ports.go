// internal/application/usecase/ports.go
package usecase

import (
	"context"

	orderdom "localix/internal/domain/order"
)

// Notifier sends operational notifications. Failures are logged and never
// abort the business operation.
type Notifier interface {
	OrderShipped(ctx context.Context, o orderdom.Order, recipient string) error
	LayawaySettled(ctx context.Context, o orderdom.Order, recipient string) error
}

// ReceiptStore persists uploaded receipt files and returns a public URL.
type ReceiptStore interface {
	Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error)
}
