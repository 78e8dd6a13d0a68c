package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mktautomations/opsc/internal/domain"
	"github.com/mktautomations/opsc/internal/ports"
)

// CredentialKey is the secret-store slot holding the session credential.
const CredentialKey = "opsc/session/access_token"

const defaultLogoutTimeout = 5 * time.Second

// TeardownFunc clears view state that depends on the session.
type TeardownFunc func(ctx context.Context)

// SessionStore owns the credential. It is the only writer of the
// persisted credential slot.
type SessionStore struct {
	auth          ports.AuthGateway
	store         ports.SecretStore
	logger        *slog.Logger
	logoutTimeout time.Duration

	mu        sync.RWMutex
	session   domain.Session
	teardowns []TeardownFunc

	pending sync.WaitGroup
}

type SessionOption func(*SessionStore)

func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *SessionStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLogoutTimeout bounds the best-effort logout notification.
func WithLogoutTimeout(timeout time.Duration) SessionOption {
	return func(s *SessionStore) {
		if timeout > 0 {
			s.logoutTimeout = timeout
		}
	}
}

func NewSessionStore(auth ports.AuthGateway, store ports.SecretStore, opts ...SessionOption) *SessionStore {
	s := &SessionStore{
		auth:          auth,
		store:         store,
		logger:        slog.New(slog.DiscardHandler),
		logoutTimeout: defaultLogoutTimeout,
		session:       domain.AnonymousSession(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnTeardown registers fn to run on every logout and invalidation.
func (s *SessionStore) OnTeardown(fn TeardownFunc) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardowns = append(s.teardowns, fn)
}

// Session returns a snapshot of the current session.
func (s *SessionStore) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Credential returns the live credential, or ok=false when anonymous.
func (s *SessionStore) Credential() (domain.Credential, bool) {
	session := s.Session()
	if !session.Authenticated() {
		return "", false
	}
	return session.Credential, true
}

// Restore loads a persisted credential without validating it against the
// backend. It reports whether one was found. A failing store read clears
// the slot and leaves the session anonymous.
func (s *SessionStore) Restore(ctx context.Context) (bool, error) {
	value, err := s.store.Get(ctx, CredentialKey)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			s.setSession(domain.AnonymousSession())
			return false, nil
		}
		s.setSession(domain.AnonymousSession())
		if deleteErr := s.store.Delete(ctx, CredentialKey); deleteErr != nil {
			return false, fmt.Errorf("restore session: %w", errors.Join(err, deleteErr))
		}
		return false, fmt.Errorf("restore session: %w", err)
	}

	credential := domain.Credential(strings.TrimSpace(value))
	if credential.Empty() {
		s.setSession(domain.AnonymousSession())
		return false, nil
	}

	s.setSession(domain.Session{Credential: credential, Status: domain.SessionAuthenticated})
	s.logger.Debug("session restored")
	return true, nil
}

// Login exchanges identity and secret for a credential. A rejection is an
// *domain.AuthRejectedError and leaves the current session untouched.
func (s *SessionStore) Login(ctx context.Context, identity, secret string) error {
	credential, err := s.auth.Login(ctx, identity, secret)
	if err != nil {
		return err
	}

	if err := s.store.Put(ctx, CredentialKey, string(credential)); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}

	s.setSession(domain.Session{Credential: credential, Status: domain.SessionAuthenticated})
	s.logger.Info("logged in", "identity", strings.TrimSpace(identity))
	return nil
}

// Logout always succeeds locally. The backend notification runs on its own
// and its failure is only logged.
func (s *SessionStore) Logout(ctx context.Context) {
	s.teardown(ctx, "logout", nil)
}

// Invalidate tears the session down after a 401/403 observed under
// credential and returns domain.ErrSessionExpired. If credential is no
// longer the live one the current session is kept and
// domain.ErrSessionReplaced is returned.
func (s *SessionStore) Invalidate(ctx context.Context, credential domain.Credential) error {
	live := func(current domain.Session) bool {
		return current.Authenticated() && current.Credential == credential
	}
	if !s.teardown(ctx, "invalidate", live) {
		s.logger.Debug("ignoring authorization failure from a replaced session")
		return domain.ErrSessionReplaced
	}
	return domain.ErrSessionExpired
}

// WaitPending blocks until background logout notifications finish or ctx
// is done.
func (s *SessionStore) WaitPending(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// teardown ends the session when live is nil or accepts it, and reports
// whether it did.
func (s *SessionStore) teardown(ctx context.Context, reason string, live func(domain.Session) bool) bool {
	s.mu.Lock()
	previous := s.session
	if live != nil && !live(previous) {
		s.mu.Unlock()
		return false
	}
	s.session = domain.AnonymousSession()
	teardowns := append([]TeardownFunc(nil), s.teardowns...)
	s.mu.Unlock()

	if previous.Authenticated() {
		s.notifyLogout(ctx, previous.Credential)
	}

	if err := s.store.Delete(ctx, CredentialKey); err != nil {
		s.logger.Warn("clear persisted credential", "reason", reason, "err", err)
	}

	for _, fn := range teardowns {
		fn(ctx)
	}

	s.logger.Info("session closed", "reason", reason)
	return true
}

func (s *SessionStore) notifyLogout(ctx context.Context, credential domain.Credential) {
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.logoutTimeout)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer cancel()
		if err := s.auth.Logout(notifyCtx, credential); err != nil {
			s.logger.Warn("logout notification failed", "err", err)
		}
	}()
}

func (s *SessionStore) setSession(session domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
}
