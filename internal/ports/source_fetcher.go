package ports

import (
	"context"

	"github.com/mktautomations/opsc/internal/domain"
)

// SourceDescriptor describes one dashboard read. Path builds the request
// path (with query) for a round; Parse decodes a 2xx body.
type SourceDescriptor struct {
	Name  domain.SourceName
	Path  func(filter domain.RoundFilter) string
	Parse func(body []byte) (any, error)
}

// SourceFetcher performs one read and classifies it. It never returns an
// error: every failure is an outcome.
type SourceFetcher interface {
	Fetch(ctx context.Context, descriptor SourceDescriptor, credential domain.Credential, filter domain.RoundFilter) domain.SourceOutcome
}
