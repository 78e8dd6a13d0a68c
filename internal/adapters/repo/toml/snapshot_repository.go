package toml

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/mktautomations/opsc/internal/domain"
	"github.com/mktautomations/opsc/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	SnapshotPathKey         = "dashboard.snapshot_path"
	snapshotConfigFile      = "dashboard.toml"
	snapshotTempFilePattern = ".dashboard-*.toml.tmp"
)

// SnapshotRepository stores the dashboard snapshot in a TOML file, one
// table per source. Payloads are kept as the JSON the backend sent.
type SnapshotRepository struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.SnapshotRepository = (*SnapshotRepository)(nil)

func NewSnapshotRepository(cfg *viper.Viper) (*SnapshotRepository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(SnapshotPathKey)
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(homeDir, conversationConfigDir, snapshotConfigFile)
	}

	path, err := normalizePath(path)
	if err != nil {
		return nil, err
	}
	return &SnapshotRepository{path: path, mu: lockForPath(path)}, nil
}

func (r *SnapshotRepository) Path() string {
	return r.path
}

// Load decodes the stored snapshot. Sources it does not know are skipped.
func (r *SnapshotRepository) Load(ctx context.Context) (domain.AggregationSnapshot, error) {
	snapshot := domain.NewAggregationSnapshot(nil)
	if err := ctx.Err(); err != nil {
		return snapshot, err
	}

	r.mu.RLock()
	data, err := os.ReadFile(r.path)
	r.mu.RUnlock()
	if errors.Is(err, os.ErrNotExist) {
		return snapshot, nil
	}
	if err != nil {
		return snapshot, fmt.Errorf("read dashboard snapshot: %w", err)
	}

	var file snapshotFileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return snapshot, fmt.Errorf("decode dashboard snapshot: %w", err)
	}
	if file.Version > currentSchemaVersion {
		return snapshot, fmt.Errorf("unsupported dashboard snapshot version %d (current %d)", file.Version, currentSchemaVersion)
	}

	for _, entry := range file.Sources {
		name := domain.SourceName(entry.Name)
		status := domain.SourceStatus(entry.Status)
		switch status {
		case domain.SourceIdle, domain.SourceOK, domain.SourceError:
		default:
			return snapshot, fmt.Errorf("dashboard snapshot source %q: unknown status %q", entry.Name, entry.Status)
		}
		if !knownSource(name) {
			continue
		}
		snapshot.Status[name] = status
		if entry.Payload == "" {
			continue
		}
		payload, err := decodePayload(name, []byte(entry.Payload))
		if err != nil {
			return snapshot, fmt.Errorf("dashboard snapshot source %q: %w", entry.Name, err)
		}
		snapshot.Payloads[name] = payload
	}
	return snapshot, nil
}

func (r *SnapshotRepository) Save(ctx context.Context, snapshot domain.AggregationSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	names := make([]string, 0, len(snapshot.Status))
	for name := range snapshot.Status {
		names = append(names, string(name))
	}
	slices.Sort(names)

	file := snapshotFileSchema{Version: currentSchemaVersion}
	for _, name := range names {
		entry := snapshotSourceSchema{Name: name, Status: string(snapshot.Status[domain.SourceName(name)])}
		if payload, ok := snapshot.Payloads[domain.SourceName(name)]; ok && payload != nil {
			encoded, err := json.Marshal(payload)
			if err != nil {
				return fmt.Errorf("encode %s payload: %w", name, err)
			}
			entry.Payload = string(encoded)
		}
		file.Sources = append(file.Sources, entry)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode dashboard snapshot: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := replaceFile(r.path, data, snapshotTempFilePattern); err != nil {
		return fmt.Errorf("write dashboard snapshot: %w", err)
	}
	return nil
}

// Clear removes the file. A missing file is not an error.
func (r *SnapshotRepository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove dashboard snapshot: %w", err)
	}
	return nil
}

func knownSource(name domain.SourceName) bool {
	switch name {
	case domain.SourceContext, domain.SourceDashboard, domain.SourceCosts:
		return true
	}
	return false
}

func decodePayload(name domain.SourceName, data []byte) (any, error) {
	switch name {
	case domain.SourceContext:
		return decodeAs[domain.MeContext](data)
	case domain.SourceDashboard:
		return decodeAs[domain.MeDashboard](data)
	default:
		return decodeAs[domain.CostSummary](data)
	}
}

func decodeAs[T any](data []byte) (any, error) {
	var payload T
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return payload, nil
}
