// internal/infra/secrets/provider_sm.go
package secrets

import (
	"context"
	"errors"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// Resolve reads the latest version of a Secret Manager secret. Used at boot
// to pull the database password when DB_PASSWORD_SECRET is set.
func Resolve(ctx context.Context, projectID, secretID string) (string, error) {
	prj := strings.TrimSpace(projectID)
	if prj == "" {
		return "", errors.New("secrets: projectID is empty")
	}
	sid := strings.TrimSpace(secretID)
	if sid == "" {
		return "", errors.New("secrets: secretID is empty")
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", errors.New("secrets: client init failed: " + err.Error())
	}
	defer client.Close()

	name := "projects/" + prj + "/secrets/" + sid + "/versions/latest"
	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", errors.New("secrets: AccessSecretVersion failed (" + name + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("secrets: empty payload (" + name + ")")
	}
	return strings.TrimSpace(string(resp.Payload.Data)), nil
}
