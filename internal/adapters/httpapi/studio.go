package httpapi

import (
	"context"
	"net/http"

	"github.com/mktautomations/opsc/internal/domain"
	"github.com/mktautomations/opsc/internal/ports"
)

var _ ports.StudioGateway = (*Client)(nil)

type imageGenerateRequest struct {
	ProjectID          int64  `json:"project_id"`
	AgentID            int64  `json:"agent_id"`
	Prompt             string `json:"prompt"`
	StageID            int64  `json:"stage_id,omitempty"`
	ProviderPreference string `json:"provider_preference,omitempty"`
	ModelName          string `json:"model_name,omitempty"`
	Size               string `json:"size,omitempty"`
}

type imageGenerateResponse struct {
	RunID       int64    `json:"run_id"`
	Provider    string   `json:"provider"`
	ModelName   string   `json:"model_name"`
	MimeType    *string  `json:"mime_type"`
	ImageBase64 *string  `json:"image_base64"`
	ImageURL    *string  `json:"image_url"`
	CostUSD     *float64 `json:"cost_usd"`
}

func (c *Client) GenerateImage(ctx context.Context, credential domain.Credential, request domain.ImageGeneration) (domain.ImageResult, error) {
	var response imageGenerateResponse
	err := c.call(ctx, "generate image", http.MethodPost, "/ai/image/generate", credential, imageGenerateRequest{
		ProjectID:          request.Key.ProjectID,
		AgentID:            request.Key.AgentID,
		Prompt:             request.Prompt,
		StageID:            request.StageID,
		ProviderPreference: request.ProviderPreference,
		ModelName:          request.Model,
		Size:               request.Size,
	}, &response)
	if err != nil {
		return domain.ImageResult{}, err
	}

	return domain.ImageResult{
		Run: domain.Run{
			RunID:    response.RunID,
			Provider: response.Provider,
			Model:    response.ModelName,
			CostUSD:  deref(response.CostUSD),
		},
		MimeType:    deref(response.MimeType),
		ImageBase64: deref(response.ImageBase64),
		ImageURL:    deref(response.ImageURL),
	}, nil
}

func (c *Client) ListTextSpecialties(ctx context.Context, credential domain.Credential) ([]domain.TextSpecialty, error) {
	var specialties []domain.TextSpecialty
	if err := c.call(ctx, "list text specialties", http.MethodGet, "/ia/text-specialties", credential, nil, &specialties); err != nil {
		return nil, err
	}
	return specialties, nil
}
