package ports

import (
	"context"

	"github.com/mktautomations/opsc/internal/domain"
)

type NewMessage struct {
	Role    domain.Role
	Content string
	Run     *domain.Run
}

type SavedOutputFilter struct {
	ProjectID int64
	AgentID   int64
	Limit     int
}

// ConversationGateway is the backend surface the conversation engine
// drives. Errors are *domain.StatusError or wrap domain.ErrUnreachable.
type ConversationGateway interface {
	GenerateText(ctx context.Context, credential domain.Credential, request domain.TextGeneration) (domain.TextResult, error)
	CreateConversation(ctx context.Context, credential domain.Credential, key domain.ConversationKey, title string) (int64, error)
	AppendMessage(ctx context.Context, credential domain.Credential, conversationID int64, message NewMessage) (int64, error)
	SaveMessage(ctx context.Context, credential domain.Credential, messageID int64, label, notes string) (domain.SavedOutput, error)
	ListSavedOutputs(ctx context.Context, credential domain.Credential, filter SavedOutputFilter) ([]domain.SavedOutput, error)
}

// StudioGateway covers generation endpoints outside the chat loop.
type StudioGateway interface {
	GenerateImage(ctx context.Context, credential domain.Credential, request domain.ImageGeneration) (domain.ImageResult, error)
	ListTextSpecialties(ctx context.Context, credential domain.Credential) ([]domain.TextSpecialty, error)
}
