package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mktautomations/opsc/internal/domain"
	"github.com/mktautomations/opsc/internal/ports"
)

// StudioService covers one-shot generation outside the chat loop.
type StudioService struct {
	session CredentialSource
	gateway ports.StudioGateway
	ledger  ports.RunLedger
	clock   ports.Clock
	logger  *slog.Logger
}

func NewStudioService(session CredentialSource, gateway ports.StudioGateway, ledger ports.RunLedger, clock ports.Clock, logger *slog.Logger) *StudioService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &StudioService{session: session, gateway: gateway, ledger: ledger, clock: clock, logger: logger}
}

func (s *StudioService) GenerateImage(ctx context.Context, request domain.ImageGeneration) (domain.ImageResult, error) {
	if strings.TrimSpace(request.Prompt) == "" {
		return domain.ImageResult{}, domain.ErrEmptyPrompt
	}
	credential, ok := s.session.Credential()
	if !ok {
		return domain.ImageResult{}, domain.ErrNotAuthenticated
	}

	result, err := s.gateway.GenerateImage(ctx, credential, request)
	if err != nil {
		return domain.ImageResult{}, s.fail(ctx, credential, err)
	}

	if s.ledger != nil {
		record := domain.RunRecord{Run: result.Run, Kind: domain.RunKindImage, Key: request.Key, RecordedAt: s.clock.Now()}
		if err := s.ledger.Record(ctx, record); err != nil {
			s.logger.Warn("record run", "run_id", result.Run.RunID, "err", err)
		}
	}
	return result, nil
}

func (s *StudioService) ListTextSpecialties(ctx context.Context) ([]domain.TextSpecialty, error) {
	credential, ok := s.session.Credential()
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	specialties, err := s.gateway.ListTextSpecialties(ctx, credential)
	if err != nil {
		return nil, s.fail(ctx, credential, err)
	}
	return specialties, nil
}

// ApplySpecialty fills the unset options from the specialty named by code.
// Explicit options win.
func (s *StudioService) ApplySpecialty(ctx context.Context, code string, opts domain.GenerationOptions) (domain.GenerationOptions, error) {
	specialties, err := s.ListTextSpecialties(ctx)
	if err != nil {
		return opts, err
	}
	for _, specialty := range specialties {
		if !strings.EqualFold(specialty.Code, code) {
			continue
		}
		if opts.SystemPrompt == "" {
			opts.SystemPrompt = specialty.SystemPromptTemplate
		}
		if opts.ProviderPreference == "" || opts.ProviderPreference == "auto" {
			if specialty.RecommendedProvider != "" {
				opts.ProviderPreference = specialty.RecommendedProvider
			}
		}
		if opts.Model == "" {
			opts.Model = specialty.RecommendedModel
		}
		return opts, nil
	}
	return opts, fmt.Errorf("unknown specialty %q", code)
}

func (s *StudioService) fail(ctx context.Context, credential domain.Credential, err error) error {
	if errors.Is(err, domain.ErrAuthFailure) {
		return errors.Join(s.session.Invalidate(ctx, credential), err)
	}
	return err
}
