package domain

import "time"

type Profile struct {
	UserID int64    `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}

type GlobalPermissions struct {
	UserID                int64    `json:"user_id"`
	Roles                 []string `json:"roles"`
	CanAccessPlatform     bool     `json:"can_access_platform"`
	CanCreateProjects     bool     `json:"can_create_projects"`
	CanManageAgentCatalog bool     `json:"can_manage_agent_catalog"`
	CanIssueDevTokens     bool     `json:"can_issue_dev_tokens"`
	CanManageSecurity     bool     `json:"can_manage_security"`
}

type ProjectRef struct {
	ProjectID       int64     `json:"project_id"`
	ProjectKey      string    `json:"project_key"`
	ProjectName     string    `json:"project_name"`
	LifecycleStatus string    `json:"lifecycle_status"`
	MemberRole      string    `json:"member_role"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// MeContext is the payload of the context source.
type MeContext struct {
	Profile           Profile           `json:"profile"`
	GlobalPermissions GlobalPermissions `json:"global_permissions"`
	Projects          []ProjectRef      `json:"projects"`
}

type DashboardKPIs struct {
	ProjectsCount           int64   `json:"projects_count"`
	BlockedStagesCount      int64   `json:"blocked_stages_count"`
	FailedRunsCount7d       int64   `json:"failed_runs_count_7d"`
	QueuedRunsCount         int64   `json:"queued_runs_count"`
	PublishedArtifactsCount int64   `json:"published_artifacts_count"`
	CostUSDTotal30d         float64 `json:"cost_usd_total_30d"`
}

type DashboardProject struct {
	ProjectRef
	BlockedStagesCount int64   `json:"blocked_stages_count"`
	FailedRunsCount7d  int64   `json:"failed_runs_count_7d"`
	QueuedRunsCount    int64   `json:"queued_runs_count"`
	CostUSDTotal30d    float64 `json:"cost_usd_total_30d"`
}

// MeDashboard is the payload of the dashboard source.
type MeDashboard struct {
	UserID      int64              `json:"user_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	KPIs        DashboardKPIs      `json:"kpis"`
	Projects    []DashboardProject `json:"projects"`
}

type CostByProvider struct {
	Provider     string  `json:"provider"`
	TotalCostUSD float64 `json:"total_cost_usd"`
	RunsCount    int64   `json:"runs_count"`
}

type CostByModel struct {
	Provider     string  `json:"provider"`
	ModelName    string  `json:"model_name"`
	TotalCostUSD float64 `json:"total_cost_usd"`
	RunsCount    int64   `json:"runs_count"`
}

type CostByProject struct {
	ProjectID    int64   `json:"project_id"`
	ProjectKey   string  `json:"project_key"`
	ProjectName  string  `json:"project_name"`
	TotalCostUSD float64 `json:"total_cost_usd"`
	RunsCount    int64   `json:"runs_count"`
}

// CostSummary is the payload of the costs source.
type CostSummary struct {
	Days           int64            `json:"days"`
	ProjectID      *int64           `json:"project_id"`
	TotalCostUSD   float64          `json:"total_cost_usd"`
	TotalRunsCount int64            `json:"total_runs_count"`
	ByProvider     []CostByProvider `json:"by_provider"`
	ByModel        []CostByModel    `json:"by_model"`
	ByProject      []CostByProject  `json:"by_project"`
}

// ProviderTotal sums the per-provider breakdown.
func (c CostSummary) ProviderTotal() float64 {
	var total float64
	for _, provider := range c.ByProvider {
		total += provider.TotalCostUSD
	}
	return total
}
