package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gutlands/gutlands-server-go/internal/game"
)

const matchReportsSchema = `
CREATE TABLE IF NOT EXISTS match_reports (
	match_id     TEXT PRIMARY KEY,
	finished_at  TIMESTAMPTZ NOT NULL,
	winner       TEXT NOT NULL,
	winning_team TEXT NOT NULL DEFAULT '',
	total_turns  INT NOT NULL,
	mode         TEXT NOT NULL,
	report       JSONB NOT NULL
)`

// MatchReportRepository stores finished match reports as JSONB rows with a
// few indexed columns pulled out for querying.
type MatchReportRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewMatchReportRepository creates the repository.
func NewMatchReportRepository(db *DB, logger *zap.Logger) *MatchReportRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchReportRepository{db: db, logger: logger}
}

// EnsureSchema creates the match_reports table if it does not exist.
func (r *MatchReportRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Pool().Exec(ctx, matchReportsSchema); err != nil {
		return fmt.Errorf("failed to create match_reports table: %w", err)
	}
	return nil
}

// Save persists one finished match report.
func (r *MatchReportRepository) Save(ctx context.Context, report *game.MatchReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = r.db.Pool().Exec(ctx, `
		INSERT INTO match_reports (match_id, finished_at, winner, winning_team, total_turns, mode, report)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (match_id) DO NOTHING
	`,
		report.MatchID,
		report.Timestamp,
		report.Winner,
		report.WinningTeam,
		report.TotalTurns,
		report.Mode,
		payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert match report: %w", err)
	}

	r.logger.Debug("match report saved",
		zap.String("match_id", report.MatchID),
		zap.String("winner", report.Winner),
	)
	return nil
}

// ReportSummary is one row of the recent-matches listing.
type ReportSummary struct {
	MatchID     string
	FinishedAt  time.Time
	Winner      string
	WinningTeam string
	TotalTurns  int
	Mode        string
}

// ListRecent returns the most recently finished matches, newest first.
func (r *MatchReportRepository) ListRecent(ctx context.Context, limit int) ([]ReportSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Pool().Query(ctx, `
		SELECT match_id, finished_at, winner, winning_team, total_turns, mode
		FROM match_reports
		ORDER BY finished_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query match reports: %w", err)
	}
	defer rows.Close()

	var out []ReportSummary
	for rows.Next() {
		var s ReportSummary
		if err := rows.Scan(&s.MatchID, &s.FinishedAt, &s.Winner, &s.WinningTeam, &s.TotalTurns, &s.Mode); err != nil {
			return nil, fmt.Errorf("failed to scan match report row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get loads one full report by match ID.
func (r *MatchReportRepository) Get(ctx context.Context, matchID string) (*game.MatchReport, error) {
	var payload []byte
	err := r.db.Pool().QueryRow(ctx,
		`SELECT report FROM match_reports WHERE match_id = $1`, matchID,
	).Scan(&payload)
	if err != nil {
		return nil, fmt.Errorf("failed to load match report %s: %w", matchID, err)
	}

	var report game.MatchReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match report %s: %w", matchID, err)
	}
	return &report, nil
}
