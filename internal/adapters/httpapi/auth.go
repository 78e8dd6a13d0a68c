package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mktautomations/opsc/internal/domain"
	"github.com/mktautomations/opsc/internal/ports"
)

var errEmptyAccessToken = errors.New("login response missing access_token")

type loginRequest struct {
	Email     string `json:"email"`
	AccessKey string `json:"access_key"`
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	ExpiresInSeconds int64  `json:"expires_in_seconds"`
}

var _ ports.AuthGateway = (*Client)(nil)

func (c *Client) Login(ctx context.Context, identity, secret string) (domain.Credential, error) {
	status, body, err := c.raw(ctx, http.MethodPost, "/auth/login", "", loginRequest{
		Email:     strings.TrimSpace(identity),
		AccessKey: strings.TrimSpace(secret),
	})
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return "", &domain.AuthRejectedError{Status: status}
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("login: decode token response: %w", err)
	}

	credential := domain.Credential(strings.TrimSpace(token.AccessToken))
	if credential.Empty() {
		return "", errEmptyAccessToken
	}

	return credential, nil
}

func (c *Client) Logout(ctx context.Context, credential domain.Credential) error {
	return c.call(ctx, "logout", http.MethodPost, "/auth/logout", credential, nil, nil)
}
