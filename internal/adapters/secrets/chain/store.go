// Package chain layers two secret stores so the session credential survives
// a missing or broken pass installation.
package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	filestore "github.com/mktautomations/opsc/internal/adapters/secrets/file"
	passstore "github.com/mktautomations/opsc/internal/adapters/secrets/pass"
	"github.com/mktautomations/opsc/internal/domain"
	"github.com/mktautomations/opsc/internal/ports"
)

// Store reads and writes the primary backend first. A credential lives in
// one backend only: a primary write removes the fallback copy and a delete
// reaches both.
type Store struct {
	primary  ports.SecretStore
	fallback ports.SecretStore
	logger   *slog.Logger
}

var _ ports.SecretStore = (*Store)(nil)

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore panics on a nil backend; use NewStoreChecked for untrusted input.
func NewStore(primary, fallback ports.SecretStore, opts ...Option) *Store {
	store, err := NewStoreChecked(primary, fallback, opts...)
	if err != nil {
		panic(err)
	}
	return store
}

func NewStoreChecked(primary, fallback ports.SecretStore, opts ...Option) (*Store, error) {
	switch {
	case primary == nil:
		return nil, errors.New("chain: primary secret store is nil")
	case fallback == nil:
		return nil, errors.New("chain: fallback secret store is nil")
	}

	s := &Store{primary: primary, fallback: fallback, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewPassWithFileFallback keeps secrets in pass and under fileRoot when pass
// cannot serve them.
func NewPassWithFileFallback(fileRoot string, opts ...Option) (*Store, error) {
	return NewStoreChecked(passstore.NewStore(), filestore.NewStore(fileRoot), opts...)
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	primaryErr := s.primary.Put(ctx, key, value)
	if primaryErr == nil {
		if err := s.fallback.Delete(ctx, key); err != nil {
			s.logger.Debug("stale fallback secret kept", "key", key, "err", err)
		}
		return nil
	}
	if interrupted(primaryErr) {
		return primaryErr
	}

	s.logger.Debug("primary secret store put failed, using fallback", "key", key, "err", primaryErr)
	if err := s.fallback.Put(ctx, key, value); err != nil {
		return both("put", primaryErr, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, primaryErr := s.primary.Get(ctx, key)
	if primaryErr == nil {
		return value, nil
	}
	if interrupted(primaryErr) {
		return "", primaryErr
	}

	value, fallbackErr := s.fallback.Get(ctx, key)
	if fallbackErr == nil {
		return value, nil
	}

	primaryMissing := errors.Is(primaryErr, domain.ErrSecretNotFound)
	fallbackMissing := errors.Is(fallbackErr, domain.ErrSecretNotFound)
	switch {
	case primaryMissing && fallbackMissing:
		return "", fmt.Errorf("secret %q: %w", key, domain.ErrSecretNotFound)
	case primaryMissing:
		return "", fmt.Errorf("fallback backend get: %w", fallbackErr)
	default:
		return "", both("get", primaryErr, fallbackErr)
	}
}

// Delete tolerates a broken primary as long as the fallback copy is gone.
func (s *Store) Delete(ctx context.Context, key string) error {
	primaryErr := s.primary.Delete(ctx, key)
	if primaryErr != nil && interrupted(primaryErr) {
		return primaryErr
	}

	fallbackErr := s.fallback.Delete(ctx, key)
	switch {
	case fallbackErr == nil:
		if primaryErr != nil {
			s.logger.Debug("primary secret store delete failed", "key", key, "err", primaryErr)
		}
		return nil
	case primaryErr == nil:
		return fmt.Errorf("fallback backend delete: %w", fallbackErr)
	default:
		return both("delete", primaryErr, fallbackErr)
	}
}

func both(op string, primaryErr, fallbackErr error) error {
	return errors.Join(
		fmt.Errorf("primary backend %s: %w", op, primaryErr),
		fmt.Errorf("fallback backend %s: %w", op, fallbackErr),
	)
}

func interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
