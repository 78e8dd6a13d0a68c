package ports

import "context"

// SecretStore holds small secrets by key. Get wraps domain.ErrSecretNotFound
// when the key has no value; Delete of a missing key is not an error.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
