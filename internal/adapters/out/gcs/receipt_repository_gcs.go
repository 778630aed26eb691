// internal/adapters/out/gcs/receipt_repository_gcs.go
package gcs

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
)

// ReceiptRepositoryGCS stores installment receipt files. Objects live under
// receipts/<orderId>/ and are addressed by their public URL on the record.
type ReceiptRepositoryGCS struct {
	Client *storage.Client
	Bucket string
}

func NewReceiptRepositoryGCS(client *storage.Client, bucket string) *ReceiptRepositoryGCS {
	return &ReceiptRepositoryGCS{Client: client, Bucket: strings.TrimSpace(bucket)}
}

// Upload implements usecase.ReceiptStore.
func (r *ReceiptRepositoryGCS) Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	if r == nil || r.Client == nil {
		return "", fmt.Errorf("gcs: client is nil")
	}
	if r.Bucket == "" {
		return "", fmt.Errorf("gcs: bucket is empty")
	}
	objectName = sanitizeObjectPath(objectName)
	if objectName == "" {
		return "", fmt.Errorf("gcs: object name is empty")
	}

	w := r.Client.Bucket(r.Bucket).Object(objectName).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs: write %s: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs: close %s: %w", objectName, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", r.Bucket, objectName), nil
}

// sanitizeObjectPath keeps slashes as segment separators but cleans each
// segment of characters that break object addressing.
func sanitizeObjectPath(p string) string {
	segs := strings.Split(strings.TrimSpace(p), "/")
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		s = strings.Trim(strings.ReplaceAll(s, "\\", "_"), ". ")
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}
