package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"
	"sync"

	"github.com/mktautomations/opsc/internal/domain"
	"github.com/mktautomations/opsc/internal/ports"
)

const (
	DefaultPromptWindow = 8
	maxTitleRunes       = 180
)

// ConversationEngine drives one chat against the text generation backend.
// Turns stay client-side until one is promoted; promotion creates the
// durable conversation lazily and replays just enough of the transcript
// to keep the server-side ordering coherent.
type ConversationEngine struct {
	session CredentialSource
	gateway ports.ConversationGateway
	repo    ports.ConversationRepository
	ledger  ports.RunLedger
	clock   ports.Clock
	logger  *slog.Logger
	window  int

	mu    sync.Mutex
	conv  domain.ConversationContext
	saved []domain.SavedOutput
}

type EngineOption func(*ConversationEngine)

// WithPromptWindow sets how many prior turns are sent as context.
func WithPromptWindow(n int) EngineOption {
	return func(e *ConversationEngine) {
		if n >= 0 {
			e.window = n
		}
	}
}

func WithRunLedger(ledger ports.RunLedger) EngineOption {
	return func(e *ConversationEngine) {
		e.ledger = ledger
	}
}

func WithEngineClock(clock ports.Clock) EngineOption {
	return func(e *ConversationEngine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *ConversationEngine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func NewConversationEngine(session CredentialSource, gateway ports.ConversationGateway, repo ports.ConversationRepository, opts ...EngineOption) *ConversationEngine {
	e := &ConversationEngine{
		session: session,
		gateway: gateway,
		repo:    repo,
		clock:   ports.SystemClock{},
		logger:  slog.New(slog.DiscardHandler),
		window:  DefaultPromptWindow,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load restores the persisted conversation context.
func (e *ConversationEngine) Load(ctx context.Context) error {
	conv, err := e.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load conversation: %w", err)
	}
	e.mu.Lock()
	e.conv = conv
	e.saved = nil
	e.mu.Unlock()
	return nil
}

// Context returns a copy of the current conversation context.
func (e *ConversationEngine) Context() domain.ConversationContext {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneConversation(e.conv)
}

func (e *ConversationEngine) State() domain.ConversationState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conv.State()
}

// SavedOutputs returns the saved outputs cached for the active context.
func (e *ConversationEngine) SavedOutputs() []domain.SavedOutput {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.saved)
}

// SetContext switches the active (project, agent) pair. A different pair
// drops the durable conversation id and the saved-output cache, then
// reloads saved outputs for the new pair when a session is live. Turns are
// kept; ClearHistory removes them.
func (e *ConversationEngine) SetContext(ctx context.Context, key domain.ConversationKey) error {
	e.mu.Lock()
	if e.conv.Key == key {
		e.mu.Unlock()
		return nil
	}
	e.conv.Key = key
	e.conv.ConversationID = 0
	e.saved = nil
	e.mu.Unlock()

	if err := e.persist(ctx); err != nil {
		return err
	}

	if key.ProjectID <= 0 && key.AgentID <= 0 {
		return nil
	}
	if _, ok := e.session.Credential(); !ok {
		return nil
	}
	_, err := e.ListSavedOutputs(ctx, key.ProjectID, key.AgentID)
	return err
}

// ClearHistory drops every turn and the durable conversation id while
// keeping the active pair.
func (e *ConversationEngine) ClearHistory(ctx context.Context) error {
	e.mu.Lock()
	e.conv.Turns = nil
	e.conv.ConversationID = 0
	e.mu.Unlock()
	return e.persist(ctx)
}

// Reset forgets everything, including the active pair. It runs on logout.
func (e *ConversationEngine) Reset(ctx context.Context) {
	e.mu.Lock()
	e.conv = domain.ConversationContext{}
	e.saved = nil
	e.mu.Unlock()
	if err := e.repo.Clear(ctx); err != nil {
		e.logger.Warn("clear persisted conversation", "err", err)
	}
}

// SubmitTurn appends the user's prompt, sends it with the rolling context
// window and appends the reply. Both project and agent must be set. When
// generation fails the user turn stays in the history so the conversation
// can continue.
func (e *ConversationEngine) SubmitTurn(ctx context.Context, prompt string, opts domain.GenerationOptions) (domain.Turn, error) {
	if strings.TrimSpace(prompt) == "" {
		return domain.Turn{}, domain.ErrEmptyPrompt
	}
	credential, ok := e.session.Credential()
	if !ok {
		return domain.Turn{}, domain.ErrNotAuthenticated
	}

	e.mu.Lock()
	if !e.conv.Key.Complete() {
		e.mu.Unlock()
		return domain.Turn{}, domain.ErrMissingContext
	}
	window := slices.Clone(e.conv.Window(e.window))
	key := e.conv.Key
	e.conv.Turns = append(e.conv.Turns, domain.Turn{
		Role:      domain.RoleUser,
		Content:   prompt,
		CreatedAt: e.clock.Now(),
	})
	e.mu.Unlock()

	if err := e.persist(ctx); err != nil {
		return domain.Turn{}, err
	}

	result, err := e.gateway.GenerateText(ctx, credential, domain.TextGeneration{
		Key:     key,
		Prompt:  domain.ComposePrompt(window, prompt),
		Options: opts,
	})
	if err != nil {
		return domain.Turn{}, e.fail(ctx, credential, err)
	}

	run := result.Run
	reply := domain.Turn{
		Role:      domain.RoleAssistant,
		Content:   result.Text,
		Run:       &run,
		CreatedAt: e.clock.Now(),
	}
	e.mu.Lock()
	e.conv.Turns = append(e.conv.Turns, reply)
	e.mu.Unlock()

	e.recordRun(ctx, domain.RunKindText, key, run)
	e.logger.Debug("turn completed", "run_id", run.RunID, "provider", run.Provider, "model", run.Model, "window", len(window))

	if err := e.persist(ctx); err != nil {
		return reply, err
	}
	return reply, nil
}

// Promote saves the assistant turn at index as a named artifact. Every call
// creates a new saved output.
func (e *ConversationEngine) Promote(ctx context.Context, index int, label, notes string) (domain.SavedOutput, error) {
	label = strings.TrimSpace(label)
	switch {
	case label == "":
		return domain.SavedOutput{}, domain.ErrEmptyLabel
	case utf8.RuneCountInString(label) < domain.MinLabelLength:
		return domain.SavedOutput{}, domain.ErrLabelTooShort
	}

	e.mu.Lock()
	conv := cloneConversation(e.conv)
	e.mu.Unlock()

	if index < 0 || index >= len(conv.Turns) {
		return domain.SavedOutput{}, fmt.Errorf("%w: %d", domain.ErrTurnOutOfRange, index)
	}
	turn := conv.Turns[index]
	if turn.Role != domain.RoleAssistant {
		return domain.SavedOutput{}, domain.ErrNotAssistantTurn
	}

	credential, ok := e.session.Credential()
	if !ok {
		return domain.SavedOutput{}, domain.ErrNotAuthenticated
	}

	userIndex := conv.PrecedingUserTurn(index)
	title := label
	if userIndex >= 0 {
		title = conversationTitle(conv.Turns[userIndex].Content)
	}

	conversationID, err := e.ensureConversation(ctx, credential, conv, title)
	if err != nil {
		return domain.SavedOutput{}, err
	}

	if userIndex >= 0 {
		if _, err := e.gateway.AppendMessage(ctx, credential, conversationID, ports.NewMessage{
			Role:    domain.RoleUser,
			Content: conv.Turns[userIndex].Content,
		}); err != nil {
			return domain.SavedOutput{}, e.fail(ctx, credential, err)
		}
	}

	messageID, err := e.gateway.AppendMessage(ctx, credential, conversationID, ports.NewMessage{
		Role:    domain.RoleAssistant,
		Content: turn.Content,
		Run:     turn.Run,
	})
	if err != nil {
		return domain.SavedOutput{}, e.fail(ctx, credential, err)
	}

	saved, err := e.gateway.SaveMessage(ctx, credential, messageID, label, strings.TrimSpace(notes))
	if err != nil {
		return domain.SavedOutput{}, e.fail(ctx, credential, err)
	}

	e.mu.Lock()
	if e.conv.Key == conv.Key {
		e.saved = append([]domain.SavedOutput{saved}, e.saved...)
	}
	e.mu.Unlock()

	e.logger.Info("output saved", "saved_output_id", saved.ID, "conversation_id", conversationID, "message_id", messageID)
	return saved, nil
}

// ListSavedOutputs asks the backend for saved outputs. Zero ids are not
// used as filters. Listing the active pair refreshes the cache.
func (e *ConversationEngine) ListSavedOutputs(ctx context.Context, projectID, agentID int64) ([]domain.SavedOutput, error) {
	credential, ok := e.session.Credential()
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}

	outputs, err := e.gateway.ListSavedOutputs(ctx, credential, ports.SavedOutputFilter{
		ProjectID: projectID,
		AgentID:   agentID,
	})
	if err != nil {
		return nil, e.fail(ctx, credential, err)
	}
	if outputs == nil {
		outputs = []domain.SavedOutput{}
	}

	e.mu.Lock()
	if e.conv.Key == (domain.ConversationKey{ProjectID: projectID, AgentID: agentID}) {
		e.saved = slices.Clone(outputs)
	}
	e.mu.Unlock()

	return outputs, nil
}

func (e *ConversationEngine) ensureConversation(ctx context.Context, credential domain.Credential, conv domain.ConversationContext, title string) (int64, error) {
	if conv.ConversationID > 0 {
		return conv.ConversationID, nil
	}
	if !conv.Key.Complete() {
		return 0, domain.ErrMissingContext
	}

	id, err := e.gateway.CreateConversation(ctx, credential, conv.Key, title)
	if err != nil {
		return 0, e.fail(ctx, credential, err)
	}

	e.mu.Lock()
	if e.conv.Key == conv.Key {
		e.conv.ConversationID = id
	}
	e.mu.Unlock()

	if err := e.persist(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

// fail invalidates the session on 401/403 seen under credential and passes
// other errors through.
func (e *ConversationEngine) fail(ctx context.Context, credential domain.Credential, err error) error {
	if errors.Is(err, domain.ErrAuthFailure) {
		return errors.Join(e.session.Invalidate(ctx, credential), err)
	}
	return err
}

func (e *ConversationEngine) recordRun(ctx context.Context, kind domain.RunKind, key domain.ConversationKey, run domain.Run) {
	if e.ledger == nil {
		return
	}
	record := domain.RunRecord{Run: run, Kind: kind, Key: key, RecordedAt: e.clock.Now()}
	if err := e.ledger.Record(ctx, record); err != nil {
		e.logger.Warn("record run", "run_id", run.RunID, "err", err)
	}
}

func (e *ConversationEngine) persist(ctx context.Context) error {
	e.mu.Lock()
	conv := cloneConversation(e.conv)
	e.mu.Unlock()
	if err := e.repo.Save(ctx, conv); err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}
	return nil
}

func cloneConversation(conv domain.ConversationContext) domain.ConversationContext {
	conv.Turns = slices.Clone(conv.Turns)
	return conv
}

func conversationTitle(prompt string) string {
	title := strings.Join(strings.Fields(prompt), " ")
	runes := []rune(title)
	if len(runes) > maxTitleRunes {
		title = string(runes[:maxTitleRunes-3]) + "..."
	}
	return title
}
