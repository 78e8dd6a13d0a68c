package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mktautomations/opsc/internal/domain"
	"github.com/mktautomations/opsc/internal/ports"
)

var _ ports.ConversationGateway = (*Client)(nil)

type textGenerateRequest struct {
	ProjectID          int64    `json:"project_id"`
	AgentID            int64    `json:"agent_id"`
	Prompt             string   `json:"prompt"`
	SystemPrompt       string   `json:"system_prompt,omitempty"`
	StageID            int64    `json:"stage_id,omitempty"`
	ProviderPreference string   `json:"provider_preference,omitempty"`
	ModelName          string   `json:"model_name,omitempty"`
	Temperature        *float64 `json:"temperature,omitempty"`
	MaxOutputTokens    int      `json:"max_output_tokens,omitempty"`
}

type textGenerateResponse struct {
	RunID            int64    `json:"run_id"`
	Provider         string   `json:"provider"`
	ModelName        string   `json:"model_name"`
	Text             string   `json:"text"`
	TokenInputCount  *int64   `json:"token_input_count"`
	TokenOutputCount *int64   `json:"token_output_count"`
	CostUSD          *float64 `json:"cost_usd"`
}

type conversationCreateRequest struct {
	ProjectID int64  `json:"project_id"`
	AgentID   int64  `json:"agent_id"`
	Title     string `json:"title,omitempty"`
}

type conversationResponse struct {
	ConversationID int64 `json:"conversation_id"`
}

type messageCreateRequest struct {
	Role      string   `json:"role"`
	Content   string   `json:"content"`
	Provider  string   `json:"provider,omitempty"`
	ModelName string   `json:"model_name,omitempty"`
	RunID     int64    `json:"run_id,omitempty"`
	CostUSD   *float64 `json:"cost_usd,omitempty"`
}

type messageResponse struct {
	MessageID int64 `json:"message_id"`
}

type saveMessageRequest struct {
	Label string `json:"label"`
	Notes string `json:"notes,omitempty"`
}

type savedOutputResponse struct {
	SavedOutputID   int64     `json:"saved_output_id"`
	ConversationID  int64     `json:"conversation_id"`
	MessageID       int64     `json:"message_id"`
	Label           string    `json:"label"`
	Notes           *string   `json:"notes"`
	CreatedByUserID int64     `json:"created_by_user_id"`
	CreatedAt       time.Time `json:"created_at"`
	ProjectID       int64     `json:"project_id"`
	AgentID         int64     `json:"agent_id"`
	RunID           *int64    `json:"run_id"`
	Provider        *string   `json:"provider"`
	ModelName       *string   `json:"model_name"`
	Content         string    `json:"content"`
}

func (c *Client) GenerateText(ctx context.Context, credential domain.Credential, request domain.TextGeneration) (domain.TextResult, error) {
	var response textGenerateResponse
	err := c.call(ctx, "generate text", http.MethodPost, "/ai/text/generate", credential, textGenerateRequest{
		ProjectID:          request.Key.ProjectID,
		AgentID:            request.Key.AgentID,
		Prompt:             request.Prompt,
		SystemPrompt:       request.Options.SystemPrompt,
		StageID:            request.Options.StageID,
		ProviderPreference: request.Options.ProviderPreference,
		ModelName:          request.Options.Model,
		Temperature:        request.Options.Temperature,
		MaxOutputTokens:    request.Options.MaxOutputTokens,
	}, &response)
	if err != nil {
		return domain.TextResult{}, err
	}

	return domain.TextResult{
		Run: domain.Run{
			RunID:        response.RunID,
			Provider:     response.Provider,
			Model:        response.ModelName,
			CostUSD:      deref(response.CostUSD),
			InputTokens:  deref(response.TokenInputCount),
			OutputTokens: deref(response.TokenOutputCount),
		},
		Text: response.Text,
	}, nil
}

func (c *Client) CreateConversation(ctx context.Context, credential domain.Credential, key domain.ConversationKey, title string) (int64, error) {
	var response conversationResponse
	err := c.call(ctx, "create conversation", http.MethodPost, "/ia/conversations", credential, conversationCreateRequest{
		ProjectID: key.ProjectID,
		AgentID:   key.AgentID,
		Title:     title,
	}, &response)
	if err != nil {
		return 0, err
	}
	if response.ConversationID <= 0 {
		return 0, &domain.StatusError{Op: "create conversation", Status: domain.StatusMalformedPayload, Body: "missing conversation_id"}
	}

	return response.ConversationID, nil
}

func (c *Client) AppendMessage(ctx context.Context, credential domain.Credential, conversationID int64, message ports.NewMessage) (int64, error) {
	payload := messageCreateRequest{
		Role:    string(message.Role),
		Content: message.Content,
	}
	if message.Run != nil {
		cost := message.Run.CostUSD
		payload.Provider = message.Run.Provider
		payload.ModelName = message.Run.Model
		payload.RunID = message.Run.RunID
		payload.CostUSD = &cost
	}

	var response messageResponse
	path := fmt.Sprintf("/ia/conversations/%d/messages", conversationID)
	if err := c.call(ctx, "append message", http.MethodPost, path, credential, payload, &response); err != nil {
		return 0, err
	}
	if response.MessageID <= 0 {
		return 0, &domain.StatusError{Op: "append message", Status: domain.StatusMalformedPayload, Body: "missing message_id"}
	}

	return response.MessageID, nil
}

func (c *Client) SaveMessage(ctx context.Context, credential domain.Credential, messageID int64, label, notes string) (domain.SavedOutput, error) {
	var response savedOutputResponse
	path := fmt.Sprintf("/ia/messages/%d/save", messageID)
	if err := c.call(ctx, "save output", http.MethodPost, path, credential, saveMessageRequest{Label: label, Notes: notes}, &response); err != nil {
		return domain.SavedOutput{}, err
	}

	return response.toDomain(), nil
}

func (c *Client) ListSavedOutputs(ctx context.Context, credential domain.Credential, filter ports.SavedOutputFilter) ([]domain.SavedOutput, error) {
	query := url.Values{}
	if filter.ProjectID > 0 {
		query.Set("project_id", strconv.FormatInt(filter.ProjectID, 10))
	}
	if filter.AgentID > 0 {
		query.Set("agent_id", strconv.FormatInt(filter.AgentID, 10))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	path := "/ia/saved-outputs"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var response []savedOutputResponse
	if err := c.call(ctx, "list saved outputs", http.MethodGet, path, credential, nil, &response); err != nil {
		return nil, err
	}

	outputs := make([]domain.SavedOutput, 0, len(response))
	for _, item := range response {
		outputs = append(outputs, item.toDomain())
	}

	return outputs, nil
}

func (r savedOutputResponse) toDomain() domain.SavedOutput {
	return domain.SavedOutput{
		ID:             r.SavedOutputID,
		ConversationID: r.ConversationID,
		MessageID:      r.MessageID,
		Label:          r.Label,
		Notes:          deref(r.Notes),
		ProjectID:      r.ProjectID,
		AgentID:        r.AgentID,
		RunID:          deref(r.RunID),
		Provider:       deref(r.Provider),
		Model:          deref(r.ModelName),
		Content:        r.Content,
		CreatedByUser:  r.CreatedByUserID,
		CreatedAt:      r.CreatedAt,
	}
}

func deref[T any](value *T) T {
	if value == nil {
		var zero T
		return zero
	}
	return *value
}
