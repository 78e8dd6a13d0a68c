package domain

type SourceName string

const (
	SourceContext   SourceName = "context"
	SourceDashboard SourceName = "dashboard"
	SourceCosts     SourceName = "costs"
)

// Label is the name used in human-readable round summaries.
func (n SourceName) Label() string {
	switch n {
	case SourceContext:
		return "Context"
	case SourceDashboard:
		return "Dashboard"
	case SourceCosts:
		return "Costs"
	default:
		return string(n)
	}
}

type OutcomeKind string

const (
	OutcomeOk          OutcomeKind = "ok"
	OutcomeFailed      OutcomeKind = "failed"
	OutcomeUnreachable OutcomeKind = "unreachable"
	OutcomeAuthFailure OutcomeKind = "auth_failure"
)

// SourceOutcome is the classified result of one source read. Payload is
// set only for OutcomeOk; Status is the HTTP status for Failed and
// AuthFailure.
type SourceOutcome struct {
	Source  SourceName
	Kind    OutcomeKind
	Status  int
	Payload any
}

func Ok(source SourceName, payload any) SourceOutcome {
	return SourceOutcome{Source: source, Kind: OutcomeOk, Payload: payload}
}

func Failed(source SourceName, status int) SourceOutcome {
	return SourceOutcome{Source: source, Kind: OutcomeFailed, Status: status}
}

func Unreachable(source SourceName) SourceOutcome {
	return SourceOutcome{Source: source, Kind: OutcomeUnreachable}
}

func AuthFailure(source SourceName, status int) SourceOutcome {
	return SourceOutcome{Source: source, Kind: OutcomeAuthFailure, Status: status}
}

// Message is the advisory line for a non-Ok outcome, empty for Ok.
func (o SourceOutcome) Message() string {
	switch o.Kind {
	case OutcomeOk:
		return ""
	case OutcomeUnreachable:
		return UnreachableMessage(o.Source.Label())
	default:
		return HumanError(o.Source.Label(), o.Status)
	}
}

type SourceStatus string

const (
	SourceIdle  SourceStatus = "idle"
	SourceOK    SourceStatus = "ok"
	SourceError SourceStatus = "error"
)

// RoundFilter parameterizes a refresh round. ProjectID restricts the costs
// source to one project; zero means all projects.
type RoundFilter struct {
	ProjectID int64
}
