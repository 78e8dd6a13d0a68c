package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/mktautomations/opsc/internal/domain"
	"github.com/mktautomations/opsc/internal/ports"
)

// Fetcher is the source fetcher for dashboard reads.
type Fetcher struct {
	client *Client
}

var _ ports.SourceFetcher = (*Fetcher)(nil)

func NewFetcher(client *Client) *Fetcher {
	return &Fetcher{client: client}
}

func (f *Fetcher) Fetch(ctx context.Context, descriptor ports.SourceDescriptor, credential domain.Credential, filter domain.RoundFilter) domain.SourceOutcome {
	status, body, err := f.client.raw(ctx, http.MethodGet, descriptor.Path(filter), credential, nil)
	if err != nil {
		if !errors.Is(err, domain.ErrUnreachable) {
			f.client.logger.Warn("source request not sent", "source", descriptor.Name, "err", err)
		}
		return domain.Unreachable(descriptor.Name)
	}

	switch {
	case domain.IsAuthFailure(status):
		return domain.AuthFailure(descriptor.Name, status)
	case status < http.StatusOK || status >= http.StatusMultipleChoices:
		return domain.Failed(descriptor.Name, status)
	}

	payload, err := descriptor.Parse(body)
	if err != nil {
		f.client.logger.Warn("source payload unparseable", "source", descriptor.Name, "err", err)
		return domain.Failed(descriptor.Name, domain.StatusMalformedPayload)
	}

	return domain.Ok(descriptor.Name, payload)
}
