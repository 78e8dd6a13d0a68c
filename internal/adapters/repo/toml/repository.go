package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mktautomations/opsc/internal/domain"
	"github.com/mktautomations/opsc/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	ConversationPathKey    = "conversation.path"
	conversationFileMode   = 0o600
	conversationDirMode    = 0o700
	conversationConfigDir  = ".opsc"
	conversationConfigFile = "conversation.toml"
	tempFilePattern        = ".conversation-*.toml.tmp"
)

// Repository stores the active conversation context in a single TOML file.
type Repository struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.ConversationRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(ConversationPathKey)
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(homeDir, conversationConfigDir, conversationConfigFile)
	}

	path, err := normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &Repository{path: path, mu: lockForPath(path)}, nil
}

func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) Load(ctx context.Context) (domain.ConversationContext, error) {
	if err := ctx.Err(); err != nil {
		return domain.ConversationContext{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.ConversationContext{}, err
	}
	if file.Conversation == nil {
		return domain.ConversationContext{}, nil
	}

	return fromSchema(*file.Conversation)
}

func (r *Repository) Save(ctx context.Context, conversation domain.ConversationContext) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	encoded := toSchema(conversation)
	return r.writeSchema(fileSchema{Conversation: &encoded})
}

// Clear removes the file. A missing file is not an error.
func (r *Repository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove conversation file: %w", err)
	}
	return nil
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read conversation file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode conversation file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode conversation file: %w", err)
	}
	if err := replaceFile(r.path, data, tempFilePattern); err != nil {
		return fmt.Errorf("write conversation file: %w", err)
	}
	return nil
}

// replaceFile writes data next to path and renames it into place, so
// readers see either the old file or the new one.
func replaceFile(path string, data []byte, pattern string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, conversationDirMode); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tempFile.Chmod(conversationFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}

	cleanup = false
	return nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve conversation path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func toSchema(conversation domain.ConversationContext) conversationSchema {
	turns := make([]turnSchema, 0, len(conversation.Turns))
	for _, turn := range conversation.Turns {
		encoded := turnSchema{
			Role:      string(turn.Role),
			Content:   turn.Content,
			CreatedAt: formatTime(turn.CreatedAt),
		}
		if turn.Run != nil {
			encoded.Run = &runSchema{
				RunID:        turn.Run.RunID,
				Provider:     turn.Run.Provider,
				Model:        turn.Run.Model,
				CostUSD:      turn.Run.CostUSD,
				InputTokens:  turn.Run.InputTokens,
				OutputTokens: turn.Run.OutputTokens,
			}
		}
		turns = append(turns, encoded)
	}

	return conversationSchema{
		ProjectID:      conversation.Key.ProjectID,
		AgentID:        conversation.Key.AgentID,
		ConversationID: conversation.ConversationID,
		Turns:          turns,
	}
}

func fromSchema(conversation conversationSchema) (domain.ConversationContext, error) {
	var turns []domain.Turn
	for i, entry := range conversation.Turns {
		role := domain.Role(entry.Role)
		if role != domain.RoleUser && role != domain.RoleAssistant {
			return domain.ConversationContext{}, fmt.Errorf("conversation turn %d: unknown role %q", i, entry.Role)
		}

		turn := domain.Turn{
			Role:      role,
			Content:   entry.Content,
			CreatedAt: parseTime(entry.CreatedAt),
		}
		if entry.Run != nil {
			turn.Run = &domain.Run{
				RunID:        entry.Run.RunID,
				Provider:     entry.Run.Provider,
				Model:        entry.Run.Model,
				CostUSD:      entry.Run.CostUSD,
				InputTokens:  entry.Run.InputTokens,
				OutputTokens: entry.Run.OutputTokens,
			}
		}
		turns = append(turns, turn)
	}

	return domain.ConversationContext{
		Key: domain.ConversationKey{
			ProjectID: conversation.ProjectID,
			AgentID:   conversation.AgentID,
		},
		ConversationID: conversation.ConversationID,
		Turns:          turns,
	}, nil
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339Nano)
}
