package repository

import "context"

// CredentialStore is the opaque secret store the extraction pipeline reads
// API keys from. The core never touches the underlying storage mechanism.
type CredentialStore interface {
	Get(ctx context.Context, name string) (string, error)
	Set(ctx context.Context, name, value string) error
	Delete(ctx context.Context, name string) error
}
