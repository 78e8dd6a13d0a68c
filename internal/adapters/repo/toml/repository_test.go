package toml

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mktautomations/opsc/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*Repository, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "nested", "conversation.toml")
	config := viper.New()
	config.Set(ConversationPathKey, path)

	repo, err := NewRepository(config)
	require.NoError(t, err)
	return repo, path
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo, path := newTestRepository(t)
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	conversation := domain.ConversationContext{
		Key:            domain.ConversationKey{ProjectID: 3, AgentID: 7},
		ConversationID: 41,
		Turns: []domain.Turn{
			{Role: domain.RoleUser, Content: "draft a tagline", CreatedAt: now},
			{
				Role:      domain.RoleAssistant,
				Content:   "Ship it \"today\"\nor never",
				CreatedAt: now.Add(2 * time.Second),
				Run: &domain.Run{
					RunID:        99,
					Provider:     "openai",
					Model:        "gpt-4.1-mini",
					CostUSD:      0.0042,
					InputTokens:  120,
					OutputTokens: 48,
				},
			},
		},
	}

	require.NoError(t, repo.Save(context.Background(), conversation))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, conversation, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(conversationFileMode), info.Mode().Perm())
}

func TestRepositoryLoadMissingFileReturnsEmptyContext(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ConversationEmpty, got.State())
	assert.Equal(t, domain.ConversationKey{}, got.Key)
}

func TestRepositoryClearRemovesFileAndIsIdempotent(t *testing.T) {
	t.Parallel()

	repo, path := newTestRepository(t)
	require.NoError(t, repo.Save(context.Background(), domain.ConversationContext{
		Key: domain.ConversationKey{ProjectID: 1, AgentID: 2},
	}))

	require.NoError(t, repo.Clear(context.Background()))
	_, err := os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, repo.Clear(context.Background()))
}

func TestRepositoryRejectsNewerSchemaVersion(t *testing.T) {
	t.Parallel()

	repo, path := newTestRepository(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("version = 9\n"), 0o600))

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported conversation schema version 9")
}

func TestRepositoryRejectsUnknownRole(t *testing.T) {
	t.Parallel()

	repo, path := newTestRepository(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"version = 1",
		"",
		"[conversation]",
		"project_id = 1",
		"agent_id = 2",
		"",
		"[[conversation.turns]]",
		"role = \"system\"",
		"content = \"hi\"",
	}, "\n")), 0o600))

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")
}

func TestRepositoryHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.Save(ctx, domain.ConversationContext{}), context.Canceled)
	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRepositorySharesLockPerPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "conversation.toml")
	config := viper.New()
	config.Set(ConversationPathKey, path)

	first, err := NewRepository(config)
	require.NoError(t, err)
	second, err := NewRepository(config)
	require.NoError(t, err)

	assert.Same(t, first.mu, second.mu)
	assert.Equal(t, path, first.Path())
}
