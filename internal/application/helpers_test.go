package application

import (
	"context"
	"sync"
	"time"

	"github.com/mktautomations/opsc/internal/domain"
	"github.com/stretchr/testify/mock"
)

func mockAnyContext() interface{} {
	return mock.Anything
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

// fakeSession is a CredentialSource whose Invalidate mirrors SessionStore.
type fakeSession struct {
	mu          sync.Mutex
	credential  domain.Credential
	invalidated int
}

func newFakeSession(credential domain.Credential) *fakeSession {
	return &fakeSession{credential: credential}
}

func (s *fakeSession) Credential() (domain.Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.credential.Empty() {
		return "", false
	}
	return s.credential, true
}

func (s *fakeSession) Invalidate(_ context.Context, credential domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.credential.Empty() || s.credential != credential {
		return domain.ErrSessionReplaced
	}
	s.credential = ""
	s.invalidated++
	return domain.ErrSessionExpired
}

// replace swaps the live credential, as a logout followed by a new login
// would.
func (s *fakeSession) replace(credential domain.Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
}

func (s *fakeSession) invalidations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invalidated
}

// memoryRepository keeps the conversation in memory.
type memoryRepository struct {
	mu      sync.Mutex
	stored  domain.ConversationContext
	saves   int
	cleared int
}

func (r *memoryRepository) Load(context.Context) (domain.ConversationContext, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneConversation(r.stored), nil
}

func (r *memoryRepository) Save(_ context.Context, conversation domain.ConversationContext) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored = cloneConversation(conversation)
	r.saves++
	return nil
}

func (r *memoryRepository) Clear(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored = domain.ConversationContext{}
	r.cleared++
	return nil
}

func (r *memoryRepository) snapshot() domain.ConversationContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneConversation(r.stored)
}
