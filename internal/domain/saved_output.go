package domain

import "time"

// SavedOutput is a promoted assistant reply. It is never modified after
// creation.
type SavedOutput struct {
	ID             int64     `json:"saved_output_id" yaml:"saved_output_id"`
	ConversationID int64     `json:"conversation_id" yaml:"conversation_id"`
	MessageID      int64     `json:"message_id" yaml:"message_id"`
	Label          string    `json:"label" yaml:"label"`
	Notes          string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	ProjectID      int64     `json:"project_id" yaml:"project_id"`
	AgentID        int64     `json:"agent_id" yaml:"agent_id"`
	RunID          int64     `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Provider       string    `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model          string    `json:"model_name,omitempty" yaml:"model_name,omitempty"`
	Content        string    `json:"content" yaml:"content"`
	CreatedByUser  int64     `json:"created_by_user_id" yaml:"created_by_user_id"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
}

// TextSpecialty is a backend-provided preset for text generation.
type TextSpecialty struct {
	Code                 string   `json:"code"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	SystemPromptTemplate string   `json:"system_prompt_template"`
	RecommendedProvider  string   `json:"recommended_provider"`
	RecommendedModel     string   `json:"recommended_model"`
	Tags                 []string `json:"tags"`
}
