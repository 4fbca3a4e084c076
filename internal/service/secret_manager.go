package service

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// SecretManagerService reads secrets from Google Secret Manager. Used at
// startup to resolve the model API key when it is not passed directly in the
// environment.
type SecretManagerService interface {
	AccessSecret(ctx context.Context, secretName string) (string, error)
	Close() error
}

type secretManagerService struct {
	client    *secretmanager.Client
	projectID string
}

func NewSecretManagerService(ctx context.Context, projectID string) (SecretManagerService, error) {
	if projectID == "" {
		return nil, fmt.Errorf("GCP Project ID is not set for the current environment")
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}

	return &secretManagerService{
		client:    client,
		projectID: projectID,
	}, nil
}

// AccessSecret returns the latest version of the named secret. The name may
// be a bare secret ID or a full resource path.
func (s *secretManagerService) AccessSecret(ctx context.Context, secretName string) (string, error) {
	resourceName := secretName
	if !strings.HasPrefix(secretName, "projects/") {
		resourceName = fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.projectID, secretName)
	}

	result, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: resourceName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}

	return string(result.Payload.Data), nil
}

func (s *secretManagerService) Close() error {
	return s.client.Close()
}
