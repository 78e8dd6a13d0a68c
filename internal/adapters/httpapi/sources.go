package httpapi

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mktautomations/opsc/internal/domain"
	"github.com/mktautomations/opsc/internal/ports"
)

// SourceOptions are the fixed query parameters of the dashboard sources.
type SourceOptions struct {
	DashboardLimit int
	CostDays       int
}

// DefaultSources returns the context, dashboard and costs descriptors.
func DefaultSources(opts SourceOptions) []ports.SourceDescriptor {
	limit := opts.DashboardLimit
	if limit <= 0 {
		limit = 20
	}
	days := opts.CostDays
	if days <= 0 {
		days = 30
	}

	return []ports.SourceDescriptor{
		{
			Name:  domain.SourceContext,
			Path:  func(domain.RoundFilter) string { return "/me/context" },
			Parse: decodeAs[domain.MeContext],
		},
		{
			Name: domain.SourceDashboard,
			Path: func(domain.RoundFilter) string {
				return "/me/dashboard?limit=" + strconv.Itoa(limit)
			},
			Parse: decodeAs[domain.MeDashboard],
		},
		{
			Name: domain.SourceCosts,
			Path: func(filter domain.RoundFilter) string {
				query := url.Values{}
				query.Set("days", strconv.Itoa(days))
				if filter.ProjectID > 0 {
					query.Set("project_id", strconv.FormatInt(filter.ProjectID, 10))
				}
				return "/costs/summary?" + query.Encode()
			},
			Parse: decodeAs[domain.CostSummary],
		},
	}
}

func decodeAs[T any](body []byte) (any, error) {
	var payload T
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode %T: %w", payload, err)
	}
	return payload, nil
}
