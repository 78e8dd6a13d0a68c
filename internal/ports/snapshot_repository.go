package ports

import (
	"context"

	"github.com/mktautomations/opsc/internal/domain"
)

// SnapshotRepository keeps the dashboard snapshot between process runs so a
// failed source can still show its last good payload. Load returns a
// snapshot with no entries when nothing is stored.
type SnapshotRepository interface {
	Load(ctx context.Context) (domain.AggregationSnapshot, error)
	Save(ctx context.Context, snapshot domain.AggregationSnapshot) error
	Clear(ctx context.Context) error
}
