package domain

import "maps"

// AggregationSnapshot holds the last good payload per source and the
// status each source reached in the most recent round that queried it.
type AggregationSnapshot struct {
	Payloads map[SourceName]any
	Status   map[SourceName]SourceStatus
}

func NewAggregationSnapshot(sources []SourceName) AggregationSnapshot {
	snapshot := AggregationSnapshot{
		Payloads: make(map[SourceName]any, len(sources)),
		Status:   make(map[SourceName]SourceStatus, len(sources)),
	}
	for _, source := range sources {
		snapshot.Status[source] = SourceIdle
	}
	return snapshot
}

func (s AggregationSnapshot) Clone() AggregationSnapshot {
	return AggregationSnapshot{
		Payloads: maps.Clone(s.Payloads),
		Status:   maps.Clone(s.Status),
	}
}

// Apply records one outcome. Failures leave the previous payload intact.
func (s AggregationSnapshot) Apply(outcome SourceOutcome) {
	if outcome.Kind == OutcomeOk {
		s.Payloads[outcome.Source] = outcome.Payload
		s.Status[outcome.Source] = SourceOK
		return
	}
	s.Status[outcome.Source] = SourceError
}

func (s AggregationSnapshot) Context() (MeContext, bool) {
	return payloadAs[MeContext](s.Payloads[SourceContext])
}

func (s AggregationSnapshot) Dashboard() (MeDashboard, bool) {
	return payloadAs[MeDashboard](s.Payloads[SourceDashboard])
}

func (s AggregationSnapshot) Costs() (CostSummary, bool) {
	return payloadAs[CostSummary](s.Payloads[SourceCosts])
}

func payloadAs[T any](payload any) (T, bool) {
	switch v := payload.(type) {
	case T:
		return v, true
	case *T:
		if v != nil {
			return *v, true
		}
	}
	var zero T
	return zero, false
}
