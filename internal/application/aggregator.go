package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mktautomations/opsc/internal/domain"
	"github.com/mktautomations/opsc/internal/ports"
	"github.com/sourcegraph/conc"
)

// CredentialSource hands out the credential snapshot for one operation and
// tears the session down on authorization failure.
type CredentialSource interface {
	Credential() (domain.Credential, bool)
	Invalidate(ctx context.Context, credential domain.Credential) error
}

// RoundReport describes one Refresh call. Message is advisory; Outcomes
// and the snapshot status map are authoritative.
type RoundReport struct {
	Round    uint64
	Outcomes []domain.SourceOutcome
	Message  string
	Stale    bool
}

// Aggregator fans out to a fixed set of sources and merges what comes back
// into one snapshot.
type Aggregator struct {
	session CredentialSource
	fetcher ports.SourceFetcher
	sources []ports.SourceDescriptor
	logger  *slog.Logger
	store   ports.SnapshotRepository

	nextRound atomic.Uint64

	mu       sync.Mutex
	snapshot domain.AggregationSnapshot
	applied  uint64
	epoch    uint64
}

type AggregatorOption func(*Aggregator)

// WithSnapshotRepository keeps the snapshot across processes: every applied
// round is saved and Reset clears the stored copy.
func WithSnapshotRepository(store ports.SnapshotRepository) AggregatorOption {
	return func(a *Aggregator) {
		a.store = store
	}
}

func NewAggregator(session CredentialSource, fetcher ports.SourceFetcher, sources []ports.SourceDescriptor, logger *slog.Logger, opts ...AggregatorOption) (*Aggregator, error) {
	names := make([]domain.SourceName, 0, len(sources))
	seen := make(map[domain.SourceName]struct{}, len(sources))
	for _, source := range sources {
		if source.Name == "" || source.Path == nil || source.Parse == nil {
			return nil, fmt.Errorf("source %q is incomplete", source.Name)
		}
		if _, ok := seen[source.Name]; ok {
			return nil, fmt.Errorf("duplicate source %q", source.Name)
		}
		seen[source.Name] = struct{}{}
		names = append(names, source.Name)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	aggregator := &Aggregator{
		session:  session,
		fetcher:  fetcher,
		sources:  append([]ports.SourceDescriptor(nil), sources...),
		logger:   logger,
		snapshot: domain.NewAggregationSnapshot(names),
	}
	for _, opt := range opts {
		opt(aggregator)
	}
	return aggregator, nil
}

// Load seeds the snapshot from the repository. Only configured sources are
// taken; anything else in the stored copy is ignored.
func (a *Aggregator) Load(ctx context.Context) error {
	if a.store == nil {
		return nil
	}
	stored, err := a.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load dashboard snapshot: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, source := range a.sources {
		if status, ok := stored.Status[source.Name]; ok {
			a.snapshot.Status[source.Name] = status
		}
		if payload, ok := stored.Payloads[source.Name]; ok {
			a.snapshot.Payloads[source.Name] = payload
		}
	}
	return nil
}

// Snapshot returns a copy of the current snapshot.
func (a *Aggregator) Snapshot() domain.AggregationSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot.Clone()
}

// Reset drops every payload and returns all sources to idle. Rounds that
// started before the reset are discarded when they finish.
func (a *Aggregator) Reset(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	names := make([]domain.SourceName, 0, len(a.sources))
	for _, source := range a.sources {
		names = append(names, source.Name)
	}
	a.snapshot = domain.NewAggregationSnapshot(names)
	a.epoch++

	if a.store == nil {
		return
	}
	if err := a.store.Clear(ctx); err != nil {
		a.logger.Warn("clear dashboard snapshot", "err", err)
	}
}

// Refresh runs one round. With no live credential it returns
// domain.ErrNotAuthenticated without touching the network. An
// authorization failure from any source invalidates the session, applies
// nothing and returns domain.ErrSessionExpired. If the session was
// replaced while the round was in flight the round is reported stale and
// the new session is left alone.
func (a *Aggregator) Refresh(ctx context.Context, filter domain.RoundFilter) (RoundReport, error) {
	credential, ok := a.session.Credential()
	if !ok {
		return RoundReport{}, domain.ErrNotAuthenticated
	}

	a.mu.Lock()
	epoch := a.epoch
	a.mu.Unlock()

	round := a.nextRound.Add(1)

	outcomes := a.fanOut(ctx, credential, filter)
	report := RoundReport{Round: round, Outcomes: outcomes}

	for _, outcome := range outcomes {
		if outcome.Kind != domain.OutcomeAuthFailure {
			continue
		}
		a.logger.Warn("source rejected credential", "source", outcome.Source, "status", outcome.Status, "round", round)
		err := a.session.Invalidate(ctx, credential)
		if errors.Is(err, domain.ErrSessionReplaced) {
			report.Stale = true
			return report, nil
		}
		return report, err
	}

	report.Message = compositeMessage(outcomes)

	a.mu.Lock()
	defer a.mu.Unlock()
	if epoch != a.epoch || round < a.applied {
		report.Stale = true
		a.logger.Debug("discarding stale round", "round", round, "applied", a.applied)
		return report, nil
	}
	for _, outcome := range outcomes {
		a.snapshot.Apply(outcome)
	}
	a.applied = round

	if a.store != nil {
		if err := a.store.Save(ctx, a.snapshot); err != nil {
			a.logger.Warn("save dashboard snapshot", "round", round, "err", err)
		}
	}
	return report, nil
}

func (a *Aggregator) fanOut(ctx context.Context, credential domain.Credential, filter domain.RoundFilter) []domain.SourceOutcome {
	outcomes := make([]domain.SourceOutcome, len(a.sources))
	var wg conc.WaitGroup
	for i, source := range a.sources {
		wg.Go(func() {
			// A panicking fetch leaves the source reported as unreachable.
			outcomes[i] = domain.Unreachable(source.Name)
			outcomes[i] = a.fetcher.Fetch(ctx, source, credential, filter)
		})
	}
	if recovered := wg.WaitAndRecover(); recovered != nil {
		a.logger.Error("source fetch panicked", "err", recovered.AsError())
	}
	return outcomes
}

func compositeMessage(outcomes []domain.SourceOutcome) string {
	var failures []string
	for _, outcome := range outcomes {
		if message := outcome.Message(); message != "" {
			failures = append(failures, message)
		}
	}
	if len(failures) == 0 {
		return ""
	}
	return "partial view loaded. " + strings.Join(failures, " | ")
}
