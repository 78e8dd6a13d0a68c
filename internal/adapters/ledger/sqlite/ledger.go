package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mktautomations/opsc/internal/domain"
	"github.com/mktautomations/opsc/internal/ports"

	_ "modernc.org/sqlite"
)

const (
	ledgerDirMode = 0o700
	// Fixed width so recorded_at sorts lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Ledger records every successful generation run in a local SQLite file.
type Ledger struct {
	db *sql.DB
}

var _ ports.RunLedger = (*Ledger)(nil)

func Open(ctx context.Context, dbPath string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), ledgerDirMode); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	ledger := &Ledger{db: db}
	if err := ledger.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return ledger, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) ensureSchema(ctx context.Context) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  run_id INTEGER NOT NULL,
  kind TEXT NOT NULL,
  provider TEXT NOT NULL,
  model TEXT NOT NULL,
  cost_usd REAL NOT NULL,
  input_tokens INTEGER NOT NULL,
  output_tokens INTEGER NOT NULL,
  project_id INTEGER NOT NULL,
  agent_id INTEGER NOT NULL,
  recorded_at TEXT NOT NULL
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS runs_run_id ON runs(run_id) WHERE run_id > 0;`,
		`CREATE INDEX IF NOT EXISTS runs_context ON runs(project_id, agent_id);`,
	}
	for _, stmt := range statements {
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create runs schema: %w", err)
		}
	}
	return nil
}

// Record stores one run. Recording the same backend run id twice keeps the
// first row.
func (l *Ledger) Record(ctx context.Context, record domain.RunRecord) error {
	const stmt = `
INSERT OR IGNORE INTO runs (run_id, kind, provider, model, cost_usd, input_tokens, output_tokens, project_id, agent_id, recorded_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	recordedAt := record.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	_, err := l.db.ExecContext(ctx, stmt,
		record.RunID,
		string(record.Kind),
		record.Provider,
		record.Model,
		record.CostUSD,
		record.InputTokens,
		record.OutputTokens,
		record.Key.ProjectID,
		record.Key.AgentID,
		recordedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("record run %d: %w", record.RunID, err)
	}
	return nil
}

// List returns runs newest first. A zero limit returns every match.
func (l *Ledger) List(ctx context.Context, filter ports.RunFilter) ([]domain.RunRecord, error) {
	const query = `
SELECT run_id, kind, provider, model, cost_usd, input_tokens, output_tokens, project_id, agent_id, recorded_at
FROM runs
WHERE (? = 0 OR project_id = ?) AND (? = 0 OR agent_id = ?)
ORDER BY recorded_at DESC, id DESC
LIMIT ?;
`
	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}

	rows, err := l.db.QueryContext(ctx, query,
		filter.ProjectID, filter.ProjectID,
		filter.AgentID, filter.AgentID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	records := []domain.RunRecord{}
	for rows.Next() {
		var (
			record     domain.RunRecord
			kind       string
			recordedAt string
		)
		if err := rows.Scan(
			&record.RunID,
			&kind,
			&record.Provider,
			&record.Model,
			&record.CostUSD,
			&record.InputTokens,
			&record.OutputTokens,
			&record.Key.ProjectID,
			&record.Key.AgentID,
			&recordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		record.Kind = domain.RunKind(kind)
		parsed, err := time.Parse(timeLayout, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parse recorded_at %q: %w", recordedAt, err)
		}
		record.RecordedAt = parsed
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return records, nil
}

// Totals sums every matching run. The limit is ignored.
func (l *Ledger) Totals(ctx context.Context, filter ports.RunFilter) (domain.RunTotals, error) {
	const query = `
SELECT COUNT(*), COALESCE(SUM(cost_usd), 0), COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0)
FROM runs
WHERE (? = 0 OR project_id = ?) AND (? = 0 OR agent_id = ?);
`
	var totals domain.RunTotals
	err := l.db.QueryRowContext(ctx, query,
		filter.ProjectID, filter.ProjectID,
		filter.AgentID, filter.AgentID,
	).Scan(&totals.Runs, &totals.CostUSD, &totals.InputTokens, &totals.OutputTokens)
	if err != nil {
		return domain.RunTotals{}, fmt.Errorf("sum runs: %w", err)
	}
	return totals, nil
}
