package ports

import (
	"context"

	"github.com/mktautomations/opsc/internal/domain"
)

type RunFilter struct {
	ProjectID int64
	AgentID   int64
	Limit     int
}

type RunLedger interface {
	Record(ctx context.Context, record domain.RunRecord) error
	List(ctx context.Context, filter RunFilter) ([]domain.RunRecord, error)
	Totals(ctx context.Context, filter RunFilter) (domain.RunTotals, error)
}
