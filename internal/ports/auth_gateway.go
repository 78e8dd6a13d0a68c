package ports

import (
	"context"

	"github.com/mktautomations/opsc/internal/domain"
)

// AuthGateway exchanges login material for a credential and ends
// server-side sessions.
type AuthGateway interface {
	Login(ctx context.Context, identity, secret string) (domain.Credential, error)
	Logout(ctx context.Context, credential domain.Credential) error
}
