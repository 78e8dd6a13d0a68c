package domain

import "strings"

// Credential is the opaque bearer token issued by /auth/login.
type Credential string

func (c Credential) Empty() bool {
	return strings.TrimSpace(string(c)) == ""
}

type SessionStatus string

const (
	SessionAnonymous     SessionStatus = "anonymous"
	SessionAuthenticated SessionStatus = "authenticated"
)

type Session struct {
	Credential Credential
	Status     SessionStatus
}

func AnonymousSession() Session {
	return Session{Status: SessionAnonymous}
}

func (s Session) Authenticated() bool {
	return s.Status == SessionAuthenticated && !s.Credential.Empty()
}
