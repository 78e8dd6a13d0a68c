package ports

import (
	"context"

	"github.com/mktautomations/opsc/internal/domain"
)

// ConversationRepository keeps the active conversation context between
// process runs. Load returns an empty context when nothing is stored.
type ConversationRepository interface {
	Load(ctx context.Context) (domain.ConversationContext, error)
	Save(ctx context.Context, conversation domain.ConversationContext) error
	Clear(ctx context.Context) error
}
