package domain

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationKey identifies a conversation context.
type ConversationKey struct {
	ProjectID int64
	AgentID   int64
}

func (k ConversationKey) Complete() bool {
	return k.ProjectID > 0 && k.AgentID > 0
}

func (k ConversationKey) String() string {
	return fmt.Sprintf("project %d / agent %d", k.ProjectID, k.AgentID)
}

// Run is the backend bookkeeping attached to an assistant turn.
type Run struct {
	RunID        int64
	Provider     string
	Model        string
	CostUSD      float64
	InputTokens  int64
	OutputTokens int64
}

type Turn struct {
	Role      Role
	Content   string
	Run       *Run
	CreatedAt time.Time
}

// Render is the "speaker: content" line used in the context window.
func (t Turn) Render() string {
	return fmt.Sprintf("%s: %s", t.Role, t.Content)
}

type ConversationState string

const (
	ConversationEmpty     ConversationState = "empty"
	ConversationActive    ConversationState = "active"
	ConversationPersisted ConversationState = "persisted"
)

// ConversationContext is the client-side view of one chat. ConversationID
// is zero until a turn has been promoted.
type ConversationContext struct {
	Key            ConversationKey
	ConversationID int64
	Turns          []Turn
}

func (c ConversationContext) State() ConversationState {
	switch {
	case c.ConversationID > 0:
		return ConversationPersisted
	case len(c.Turns) > 0:
		return ConversationActive
	default:
		return ConversationEmpty
	}
}

// Window returns the last n turns, oldest first.
func (c ConversationContext) Window(n int) []Turn {
	if n <= 0 || len(c.Turns) == 0 {
		return nil
	}
	if len(c.Turns) <= n {
		return c.Turns
	}
	return c.Turns[len(c.Turns)-n:]
}

// PrecedingUserTurn returns the index of the nearest user turn before
// index, or -1.
func (c ConversationContext) PrecedingUserTurn(index int) int {
	for i := index - 1; i >= 0; i-- {
		if c.Turns[i].Role == RoleUser {
			return i
		}
	}
	return -1
}

// Totals sums cost and run count over the assistant turns.
func (c ConversationContext) Totals() (runs int, costUSD float64) {
	for _, turn := range c.Turns {
		if turn.Run == nil {
			continue
		}
		runs++
		costUSD += turn.Run.CostUSD
	}
	return runs, costUSD
}

// ComposePrompt prefixes prompt with the rendered window. An empty window
// yields the prompt unchanged.
func ComposePrompt(window []Turn, prompt string) string {
	if len(window) == 0 {
		return prompt
	}
	lines := make([]string, 0, len(window))
	for _, turn := range window {
		lines = append(lines, turn.Render())
	}
	return strings.Join(lines, "\n") + "\n\n" + prompt
}
