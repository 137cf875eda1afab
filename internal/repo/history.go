// Package repo persists analysis output so the API layer can serve historical
// root causes. The store is an embedded SQLite database; the analysis core
// itself never depends on it.
package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sentinelstack/sentinel-rca/internal/models"
)

// HistoryStore keeps root-cause results in an embedded SQLite database.
type HistoryStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewHistoryStore opens (or creates) the database at path and ensures the
// schema exists. WAL journaling and a busy timeout keep concurrent readers
// from tripping over the writer.
func NewHistoryStore(path string, logger *slog.Logger) (*HistoryStore, error) {
	if path == "" {
		return nil, fmt.Errorf("history store path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	db.SetMaxOpenConns(4)

	store := &HistoryStore{db: db, logger: logger}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *HistoryStore) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS root_causes (
			result_id     TEXT PRIMARY KEY,
			run_id        TEXT NOT NULL,
			service       TEXT NOT NULL,
			message       TEXT NOT NULL,
			root_ts       INTEGER NOT NULL,
			confidence    REAL NOT NULL,
			affected      TEXT NOT NULL,  -- JSON encoded service list
			total         INTEGER NOT NULL,
			avg_score     REAL NOT NULL,
			severity      TEXT NOT NULL,
			explanation   TEXT,
			analysis_ts   INTEGER NOT NULL,
			remediation   TEXT            -- JSON encoded RemediationResult
		);

		CREATE INDEX IF NOT EXISTS idx_root_causes_service ON root_causes(service);
		CREATE INDEX IF NOT EXISTS idx_root_causes_analysis_ts ON root_causes(analysis_ts);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create history schema: %w", err)
	}
	return nil
}

// SaveRun stores all results of one analysis run in a single transaction.
func (s *HistoryStore) SaveRun(ctx context.Context, runID string, results []models.RootCauseResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save run: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO root_causes
		(result_id, run_id, service, message, root_ts, confidence, affected,
		 total, avg_score, severity, explanation, analysis_ts, remediation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, res := range results {
		affected, err := json.Marshal(res.AffectedServices)
		if err != nil {
			return fmt.Errorf("encode affected services: %w", err)
		}
		var remediation []byte
		if res.Remediation != nil {
			remediation, err = json.Marshal(res.Remediation)
			if err != nil {
				return fmt.Errorf("encode remediation: %w", err)
			}
		}
		if _, err := stmt.ExecContext(ctx,
			res.ResultID, runID, res.RootCauseService, res.RootCauseMessage,
			res.RootCauseTimestamp.UnixMilli(), res.ConfidenceScore, string(affected),
			res.TotalAnomalies, res.AvgAnomalyScore, string(res.Severity),
			res.Explanation, res.AnalysisTimestamp.UnixMilli(), nullable(remediation),
		); err != nil {
			return fmt.Errorf("insert root cause %s: %w", res.ResultID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save run: %w", err)
	}
	s.logger.Debug("persisted analysis run", slog.String("run_id", runID), slog.Int("results", len(results)))
	return nil
}

// ListRootCauses returns stored root causes, newest analysis first, optionally
// filtered by service. limit <= 0 applies a default of 50.
func (s *HistoryStore) ListRootCauses(ctx context.Context, service string, limit int) ([]models.RootCauseResult, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT result_id, service, message, root_ts, confidence, affected,
		       total, avg_score, severity, explanation, analysis_ts, remediation
		FROM root_causes`
	args := make([]any, 0, 2)
	if service != "" {
		query += ` WHERE service = ?`
		args = append(args, service)
	}
	query += ` ORDER BY analysis_ts DESC, confidence DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query root causes: %w", err)
	}
	defer rows.Close()

	results := make([]models.RootCauseResult, 0, limit)
	for rows.Next() {
		var (
			res         models.RootCauseResult
			rootTS      int64
			analysisTS  int64
			affected    string
			severity    string
			remediation sql.NullString
		)
		if err := rows.Scan(&res.ResultID, &res.RootCauseService, &res.RootCauseMessage,
			&rootTS, &res.ConfidenceScore, &affected, &res.TotalAnomalies,
			&res.AvgAnomalyScore, &severity, &res.Explanation, &analysisTS, &remediation,
		); err != nil {
			return nil, fmt.Errorf("scan root cause: %w", err)
		}
		res.RootCauseTimestamp = time.UnixMilli(rootTS).UTC()
		res.AnalysisTimestamp = time.UnixMilli(analysisTS).UTC()
		res.Severity = models.Severity(severity)
		if err := json.Unmarshal([]byte(affected), &res.AffectedServices); err != nil {
			return nil, fmt.Errorf("decode affected services: %w", err)
		}
		if remediation.Valid && remediation.String != "" {
			var rem models.RemediationResult
			if err := json.Unmarshal([]byte(remediation.String), &rem); err != nil {
				return nil, fmt.Errorf("decode remediation: %w", err)
			}
			res.Remediation = &rem
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// Close releases the underlying database handle.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

func nullable(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
