package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version      int                 `toml:"version"`
	Conversation *conversationSchema `toml:"conversation,omitempty"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported conversation schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type conversationSchema struct {
	ProjectID      int64        `toml:"project_id"`
	AgentID        int64        `toml:"agent_id"`
	ConversationID int64        `toml:"conversation_id,omitempty"`
	Turns          []turnSchema `toml:"turns,omitempty"`
}

type turnSchema struct {
	Role      string     `toml:"role"`
	Content   string     `toml:"content"`
	CreatedAt string     `toml:"created_at,omitempty"`
	Run       *runSchema `toml:"run,omitempty"`
}

type runSchema struct {
	RunID        int64   `toml:"run_id"`
	Provider     string  `toml:"provider"`
	Model        string  `toml:"model"`
	CostUSD      float64 `toml:"cost_usd"`
	InputTokens  int64   `toml:"input_tokens"`
	OutputTokens int64   `toml:"output_tokens"`
}

type snapshotFileSchema struct {
	Version int                    `toml:"version"`
	Sources []snapshotSourceSchema `toml:"sources,omitempty"`
}

type snapshotSourceSchema struct {
	Name    string `toml:"name"`
	Status  string `toml:"status"`
	Payload string `toml:"payload,omitempty"`
}
