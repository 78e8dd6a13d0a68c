package application

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/mktautomations/opsc/internal/domain"
	"github.com/mktautomations/opsc/internal/ports"
	"github.com/mktautomations/opsc/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var engineNow = time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

type engineFixture struct {
	engine  *ConversationEngine
	session *fakeSession
	gateway *mocks.MockConversationGateway
	repo    *memoryRepository
}

func newEngineFixture(t *testing.T, stored domain.ConversationContext, opts ...EngineOption) engineFixture {
	t.Helper()

	session := newFakeSession("tok")
	gateway := mocks.NewMockConversationGateway(t)
	repo := &memoryRepository{stored: stored}
	opts = append([]EngineOption{WithEngineClock(fixedClock{now: engineNow})}, opts...)
	engine := NewConversationEngine(session, gateway, repo, opts...)
	require.NoError(t, engine.Load(context.Background()))

	return engineFixture{engine: engine, session: session, gateway: gateway, repo: repo}
}

func exchange(user, assistant string, runID int64) []domain.Turn {
	return []domain.Turn{
		{Role: domain.RoleUser, Content: user, CreatedAt: engineNow},
		{Role: domain.RoleAssistant, Content: assistant, CreatedAt: engineNow, Run: &domain.Run{RunID: runID, Provider: "openai", Model: "gpt-4.1-mini", CostUSD: 0.001}},
	}
}

func textResult(runID int64, text string) domain.TextResult {
	return domain.TextResult{
		Run:  domain.Run{RunID: runID, Provider: "openai", Model: "gpt-4.1-mini", CostUSD: 0.002, InputTokens: 10, OutputTokens: 4},
		Text: text,
	}
}

func TestConversationEngineSubmitTurnSendsRollingWindow(t *testing.T) {
	key := domain.ConversationKey{ProjectID: 3, AgentID: 7}
	turns := append(exchange("first", "one", 1), exchange("second", "two", 2)...)
	fx := newEngineFixture(t, domain.ConversationContext{Key: key, Turns: turns}, WithPromptWindow(3))

	fx.gateway.EXPECT().
		GenerateText(mockAnyContext(), domain.Credential("tok"), domain.TextGeneration{
			Key:     key,
			Prompt:  "assistant: one\nuser: second\nassistant: two\n\nthird",
			Options: domain.GenerationOptions{Model: "gpt-4.1"},
		}).
		Return(textResult(3, "three"), nil)

	reply, err := fx.engine.SubmitTurn(context.Background(), "third", domain.GenerationOptions{Model: "gpt-4.1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAssistant, reply.Role)
	assert.Equal(t, "three", reply.Content)
	require.NotNil(t, reply.Run)
	assert.Equal(t, int64(3), reply.Run.RunID)

	conv := fx.engine.Context()
	require.Len(t, conv.Turns, 6)
	assert.Equal(t, domain.Turn{Role: domain.RoleUser, Content: "third", CreatedAt: engineNow}, conv.Turns[4])
	assert.Equal(t, conv, fx.repo.snapshot())
	assert.Equal(t, domain.ConversationActive, fx.engine.State())
}

func TestConversationEngineFirstTurnSendsPromptUnchanged(t *testing.T) {
	fx := newEngineFixture(t, domain.ConversationContext{Key: domain.ConversationKey{ProjectID: 3, AgentID: 7}})

	fx.gateway.EXPECT().
		GenerateText(mockAnyContext(), domain.Credential("tok"), mock.MatchedBy(func(request domain.TextGeneration) bool {
			return request.Prompt == "hello"
		})).
		Return(textResult(1, "hi"), nil)

	_, err := fx.engine.SubmitTurn(context.Background(), "hello", domain.GenerationOptions{})
	require.NoError(t, err)
}

func TestConversationEngineZeroWindowSendsOnlyPrompt(t *testing.T) {
	fx := newEngineFixture(t, domain.ConversationContext{Key: domain.ConversationKey{ProjectID: 3, AgentID: 7}, Turns: exchange("a", "b", 1)}, WithPromptWindow(0))

	fx.gateway.EXPECT().
		GenerateText(mockAnyContext(), domain.Credential("tok"), mock.MatchedBy(func(request domain.TextGeneration) bool {
			return request.Prompt == "c"
		})).
		Return(textResult(2, "d"), nil)

	_, err := fx.engine.SubmitTurn(context.Background(), "c", domain.GenerationOptions{})
	require.NoError(t, err)
}

func TestConversationEngineSubmitTurnFailureKeepsUserTurn(t *testing.T) {
	fx := newEngineFixture(t, domain.ConversationContext{Key: domain.ConversationKey{ProjectID: 3, AgentID: 7}})

	fx.gateway.EXPECT().
		GenerateText(mockAnyContext(), domain.Credential("tok"), mock.Anything).
		Return(domain.TextResult{}, &domain.StatusError{Op: "generate text", Status: http.StatusUnprocessableEntity})

	_, err := fx.engine.SubmitTurn(context.Background(), "hello", domain.GenerationOptions{})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, domain.HTTPStatus(err))
	assert.Zero(t, fx.session.invalidations())

	turns := fx.engine.Context().Turns
	require.Len(t, turns, 1)
	assert.Equal(t, domain.RoleUser, turns[0].Role)
	assert.Len(t, fx.repo.snapshot().Turns, 1)
}

func TestConversationEngineSubmitTurnAuthFailureInvalidatesSession(t *testing.T) {
	fx := newEngineFixture(t, domain.ConversationContext{Key: domain.ConversationKey{ProjectID: 3, AgentID: 7}})

	fx.gateway.EXPECT().
		GenerateText(mockAnyContext(), domain.Credential("tok"), mock.Anything).
		Return(domain.TextResult{}, &domain.StatusError{Op: "generate text", Status: http.StatusUnauthorized})

	_, err := fx.engine.SubmitTurn(context.Background(), "hello", domain.GenerationOptions{})
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.ErrorIs(t, err, domain.ErrAuthFailure)
	assert.Equal(t, 1, fx.session.invalidations())
}

func TestConversationEngineSubmitTurnValidatesInput(t *testing.T) {
	fx := newEngineFixture(t, domain.ConversationContext{Key: domain.ConversationKey{ProjectID: 3}})

	_, err := fx.engine.SubmitTurn(context.Background(), "   ", domain.GenerationOptions{})
	assert.ErrorIs(t, err, domain.ErrEmptyPrompt)

	_, err = fx.engine.SubmitTurn(context.Background(), "hello", domain.GenerationOptions{})
	assert.ErrorIs(t, err, domain.ErrMissingContext)
	assert.Zero(t, fx.repo.saves)

	fx.session.credential = ""
	_, err = fx.engine.SubmitTurn(context.Background(), "hello", domain.GenerationOptions{})
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.Empty(t, fx.engine.Context().Turns)
}

func TestConversationEngineSubmitTurnRecordsRun(t *testing.T) {
	ledger := mocks.NewMockRunLedger(t)
	key := domain.ConversationKey{ProjectID: 3, AgentID: 7}
	fx := newEngineFixture(t, domain.ConversationContext{Key: key}, WithRunLedger(ledger))

	fx.gateway.EXPECT().GenerateText(mockAnyContext(), domain.Credential("tok"), mock.Anything).Return(textResult(9, "ok"), nil)
	ledger.EXPECT().Record(mockAnyContext(), domain.RunRecord{
		Run:        textResult(9, "ok").Run,
		Kind:       domain.RunKindText,
		Key:        key,
		RecordedAt: engineNow,
	}).Return(errors.New("database is locked"))

	_, err := fx.engine.SubmitTurn(context.Background(), "hello", domain.GenerationOptions{})
	require.NoError(t, err)
}

func TestConversationEnginePromoteCreatesConversationOnce(t *testing.T) {
	key := domain.ConversationKey{ProjectID: 3, AgentID: 7}
	turns := append(exchange("draft a tagline", "Ship it", 11), exchange("shorter", "Ship", 12)...)
	fx := newEngineFixture(t, domain.ConversationContext{Key: key, Turns: turns})

	fx.gateway.EXPECT().CreateConversation(mockAnyContext(), domain.Credential("tok"), key, "draft a tagline").Return(int64(41), nil).Once()

	var appended []ports.NewMessage
	nextMessage := int64(500)
	fx.gateway.EXPECT().
		AppendMessage(mockAnyContext(), domain.Credential("tok"), int64(41), mock.Anything).
		RunAndReturn(func(_ context.Context, _ domain.Credential, _ int64, message ports.NewMessage) (int64, error) {
			appended = append(appended, message)
			nextMessage++
			return nextMessage, nil
		}).
		Times(4)
	fx.gateway.EXPECT().
		SaveMessage(mockAnyContext(), domain.Credential("tok"), mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, _ domain.Credential, messageID int64, label, notes string) (domain.SavedOutput, error) {
			return domain.SavedOutput{ID: messageID - 500, ConversationID: 41, MessageID: messageID, Label: label, Notes: notes}, nil
		}).
		Times(2)

	first, err := fx.engine.Promote(context.Background(), 1, " first ", "")
	require.NoError(t, err)
	assert.Equal(t, "first", first.Label)
	assert.Equal(t, int64(502), first.MessageID)

	second, err := fx.engine.Promote(context.Background(), 3, "second", " keep ")
	require.NoError(t, err)
	assert.Equal(t, "keep", second.Notes)
	assert.NotEqual(t, first.ID, second.ID)

	require.Len(t, appended, 4)
	assert.Equal(t, ports.NewMessage{Role: domain.RoleUser, Content: "draft a tagline"}, appended[0])
	assert.Equal(t, domain.RoleAssistant, appended[1].Role)
	assert.Equal(t, "Ship it", appended[1].Content)
	require.NotNil(t, appended[1].Run)
	assert.Equal(t, int64(11), appended[1].Run.RunID)
	assert.Equal(t, "shorter", appended[2].Content)

	assert.Equal(t, int64(41), fx.engine.Context().ConversationID)
	assert.Equal(t, int64(41), fx.repo.snapshot().ConversationID)
	assert.Equal(t, domain.ConversationPersisted, fx.engine.State())

	saved := fx.engine.SavedOutputs()
	require.Len(t, saved, 2)
	assert.Equal(t, "second", saved[0].Label)
	assert.Equal(t, "first", saved[1].Label)
}

func TestConversationEnginePromoteSameTurnTwiceSavesTwice(t *testing.T) {
	key := domain.ConversationKey{ProjectID: 3, AgentID: 7}
	fx := newEngineFixture(t, domain.ConversationContext{Key: key, Turns: exchange("draft a tagline", "Ship it", 11)})

	fx.gateway.EXPECT().CreateConversation(mockAnyContext(), domain.Credential("tok"), key, "draft a tagline").Return(int64(41), nil).Once()
	nextMessage := int64(500)
	fx.gateway.EXPECT().
		AppendMessage(mockAnyContext(), domain.Credential("tok"), int64(41), mock.Anything).
		RunAndReturn(func(context.Context, domain.Credential, int64, ports.NewMessage) (int64, error) {
			nextMessage++
			return nextMessage, nil
		}).
		Times(4)
	var savedMessages []int64
	fx.gateway.EXPECT().
		SaveMessage(mockAnyContext(), domain.Credential("tok"), mock.Anything, "tagline", "").
		RunAndReturn(func(_ context.Context, _ domain.Credential, messageID int64, label, _ string) (domain.SavedOutput, error) {
			savedMessages = append(savedMessages, messageID)
			return domain.SavedOutput{ID: int64(len(savedMessages)), MessageID: messageID, Label: label}, nil
		}).
		Times(2)

	first, err := fx.engine.Promote(context.Background(), 1, "tagline", "")
	require.NoError(t, err)
	second, err := fx.engine.Promote(context.Background(), 1, "tagline", "")
	require.NoError(t, err)

	assert.Equal(t, []int64{502, 504}, savedMessages)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, fx.engine.SavedOutputs(), 2)
}

func TestConversationEnginePromoteWithoutUserTurnUsesLabelAsTitle(t *testing.T) {
	key := domain.ConversationKey{ProjectID: 3, AgentID: 7}
	fx := newEngineFixture(t, domain.ConversationContext{Key: key, Turns: exchange("x", "reply", 1)[1:]})

	fx.gateway.EXPECT().CreateConversation(mockAnyContext(), domain.Credential("tok"), key, "solo").Return(int64(5), nil)
	fx.gateway.EXPECT().
		AppendMessage(mockAnyContext(), domain.Credential("tok"), int64(5), mock.MatchedBy(func(message ports.NewMessage) bool {
			return message.Role == domain.RoleAssistant
		})).
		Return(int64(8), nil).
		Once()
	fx.gateway.EXPECT().SaveMessage(mockAnyContext(), domain.Credential("tok"), int64(8), "solo", "").Return(domain.SavedOutput{ID: 1, Label: "solo"}, nil)

	_, err := fx.engine.Promote(context.Background(), 0, "solo", "")
	require.NoError(t, err)
}

func TestConversationEnginePromoteValidation(t *testing.T) {
	complete := domain.ConversationKey{ProjectID: 3, AgentID: 7}

	tests := []struct {
		name  string
		key   domain.ConversationKey
		index int
		label string
		want  error
	}{
		{name: "empty label", key: complete, index: 1, label: " ", want: domain.ErrEmptyLabel},
		{name: "one character label", key: complete, index: 1, label: " x ", want: domain.ErrLabelTooShort},
		{name: "negative index", key: complete, index: -1, label: "draft", want: domain.ErrTurnOutOfRange},
		{name: "index past end", key: complete, index: 2, label: "draft", want: domain.ErrTurnOutOfRange},
		{name: "user turn", key: complete, index: 0, label: "draft", want: domain.ErrNotAssistantTurn},
		{name: "agent missing", key: domain.ConversationKey{ProjectID: 3}, index: 1, label: "draft", want: domain.ErrMissingContext},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newEngineFixture(t, domain.ConversationContext{Key: tt.key, Turns: exchange("q", "a", 1)})

			_, err := fx.engine.Promote(context.Background(), tt.index, tt.label, "")
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, fx.engine.Context().ConversationID)
		})
	}
}

func TestConversationEnginePromoteRequiresSession(t *testing.T) {
	fx := newEngineFixture(t, domain.ConversationContext{Key: domain.ConversationKey{ProjectID: 1, AgentID: 2}, Turns: exchange("q", "a", 1)})
	fx.session.credential = ""

	_, err := fx.engine.Promote(context.Background(), 1, "draft", "")
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestConversationEnginePromoteAuthFailureInvalidatesSession(t *testing.T) {
	key := domain.ConversationKey{ProjectID: 3, AgentID: 7}
	fx := newEngineFixture(t, domain.ConversationContext{Key: key, Turns: exchange("q", "a", 1)})

	fx.gateway.EXPECT().CreateConversation(mockAnyContext(), domain.Credential("tok"), key, "q").
		Return(int64(0), &domain.StatusError{Op: "create conversation", Status: http.StatusForbidden})

	_, err := fx.engine.Promote(context.Background(), 1, "draft", "")
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Equal(t, 1, fx.session.invalidations())
}

func TestConversationEngineSetContextResetsConversationAndLoadsSavedOutputs(t *testing.T) {
	turns := exchange("q", "a", 1)
	fx := newEngineFixture(t, domain.ConversationContext{
		Key:            domain.ConversationKey{ProjectID: 1, AgentID: 2},
		ConversationID: 41,
		Turns:          turns,
	})

	next := domain.ConversationKey{ProjectID: 3, AgentID: 7}
	fx.gateway.EXPECT().
		ListSavedOutputs(mockAnyContext(), domain.Credential("tok"), ports.SavedOutputFilter{ProjectID: 3, AgentID: 7}).
		Return([]domain.SavedOutput{{ID: 1, Label: "kept"}}, nil)

	require.NoError(t, fx.engine.SetContext(context.Background(), next))

	conv := fx.engine.Context()
	assert.Equal(t, next, conv.Key)
	assert.Zero(t, conv.ConversationID)
	assert.Equal(t, turns, conv.Turns)
	assert.Equal(t, next, fx.repo.snapshot().Key)
	require.Len(t, fx.engine.SavedOutputs(), 1)

	saves := fx.repo.saves
	require.NoError(t, fx.engine.SetContext(context.Background(), next))
	assert.Equal(t, saves, fx.repo.saves)
}

func TestConversationEngineClearHistoryKeepsKey(t *testing.T) {
	key := domain.ConversationKey{ProjectID: 3, AgentID: 7}
	fx := newEngineFixture(t, domain.ConversationContext{Key: key, ConversationID: 41, Turns: exchange("q", "a", 1)})

	require.NoError(t, fx.engine.ClearHistory(context.Background()))

	conv := fx.engine.Context()
	assert.Equal(t, key, conv.Key)
	assert.Zero(t, conv.ConversationID)
	assert.Empty(t, conv.Turns)
	assert.Equal(t, domain.ConversationEmpty, fx.engine.State())
}

func TestConversationEngineResetForgetsEverything(t *testing.T) {
	fx := newEngineFixture(t, domain.ConversationContext{Key: domain.ConversationKey{ProjectID: 3, AgentID: 7}, Turns: exchange("q", "a", 1)})

	fx.engine.Reset(context.Background())

	assert.Equal(t, domain.ConversationContext{}, fx.engine.Context())
	assert.Empty(t, fx.engine.SavedOutputs())
	assert.Equal(t, 1, fx.repo.cleared)
}

func TestConversationEngineListSavedOutputsNeverReturnsNil(t *testing.T) {
	fx := newEngineFixture(t, domain.ConversationContext{})

	fx.gateway.EXPECT().ListSavedOutputs(mockAnyContext(), domain.Credential("tok"), ports.SavedOutputFilter{}).Return(nil, nil)

	outputs, err := fx.engine.ListSavedOutputs(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, outputs)
	assert.Empty(t, outputs)
}

func TestConversationTitle(t *testing.T) {
	assert.Equal(t, "draft a tagline", conversationTitle("  draft\n a\ttagline "))

	long := strings.Repeat("é", 200)
	title := conversationTitle(long)
	assert.Equal(t, maxTitleRunes, len([]rune(title)))
	assert.True(t, strings.HasSuffix(title, "..."))

	exact := strings.Repeat("a", maxTitleRunes)
	assert.Equal(t, exact, conversationTitle(exact))
}

func TestConversationEngineLoadWrapsRepositoryError(t *testing.T) {
	repo := mocks.NewMockConversationRepository(t)
	repo.EXPECT().Load(mock.Anything).Return(domain.ConversationContext{}, errors.New("corrupt file")).Once()

	engine := NewConversationEngine(newFakeSession("tok"), mocks.NewMockConversationGateway(t), repo)
	err := engine.Load(context.Background())

	require.Error(t, err)
	assert.ErrorContains(t, err, "load conversation")
	assert.ErrorContains(t, err, "corrupt file")
}

func TestConversationEngineResetSurvivesClearFailure(t *testing.T) {
	key := domain.ConversationKey{ProjectID: 3, AgentID: 7}
	repo := mocks.NewMockConversationRepository(t)
	repo.EXPECT().Load(mock.Anything).Return(domain.ConversationContext{Key: key, Turns: exchange("hi", "hello", 1)}, nil).Once()
	repo.EXPECT().Clear(mock.Anything).Return(errors.New("read-only fs")).Once()

	engine := NewConversationEngine(newFakeSession("tok"), mocks.NewMockConversationGateway(t), repo)
	require.NoError(t, engine.Load(context.Background()))

	engine.Reset(context.Background())

	assert.Equal(t, domain.ConversationContext{}, engine.Context())
	assert.Equal(t, domain.ConversationEmpty, engine.State())
}

func TestConversationEngineAuthFailureFromReplacedSessionKeepsNewSession(t *testing.T) {
	fx := newEngineFixture(t, domain.ConversationContext{Key: domain.ConversationKey{ProjectID: 3, AgentID: 7}})

	fx.gateway.EXPECT().
		GenerateText(mockAnyContext(), domain.Credential("tok"), mock.Anything).
		RunAndReturn(func(context.Context, domain.Credential, domain.TextGeneration) (domain.TextResult, error) {
			fx.session.replace("tok-new")
			return domain.TextResult{}, &domain.StatusError{Op: "generate text", Status: http.StatusUnauthorized}
		})

	_, err := fx.engine.SubmitTurn(context.Background(), "hello", domain.GenerationOptions{})
	assert.ErrorIs(t, err, domain.ErrSessionReplaced)
	assert.NotErrorIs(t, err, domain.ErrSessionExpired)
	assert.Zero(t, fx.session.invalidations())

	credential, ok := fx.session.Credential()
	require.True(t, ok)
	assert.Equal(t, domain.Credential("tok-new"), credential)
}
