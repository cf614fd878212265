package store

import (
	"context"
	"fmt"
	"time"

	"github.com/crewline/crewline/internal/models"
)

// StatsStore computes dashboard KPI aggregates.
type StatsStore struct {
	Base
}

// NewStatsStore creates a StatsStore.
func NewStatsStore(base Base) *StatsStore {
	return &StatsStore{Base: base}
}

// Overview runs one consolidated query for the dashboard headline numbers.
// dayStart and dayEnd bound "today" in the workspace's local calendar.
func (s *StatsStore) Overview(
	ctx context.Context, workspaceID string, dayStart, dayEnd time.Time,
) (models.StatsOverview, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, workspaceID)
	if err != nil {
		return models.StatsOverview{}, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx, rollback is cleanup.

	rows, err := tx.Query(ctx, `
		SELECT 'call' AS kind, disposition AS label, COUNT(*) AS n
		  FROM calls
		 WHERE workspace_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		 GROUP BY disposition
		UNION ALL
		SELECT 'job', status, COUNT(*)
		  FROM jobs
		 WHERE workspace_id = $1 AND status IN ('scheduled', 'en_route', 'in_progress')
		 GROUP BY status
		UNION ALL
		SELECT 'followup', status, COUNT(*)
		  FROM followups
		 WHERE workspace_id = $1 AND status = 'pending'
		 GROUP BY status`,
		workspaceID, dayStart, dayEnd)
	if err != nil {
		return models.StatsOverview{}, fmt.Errorf("querying stats: %w", err)
	}
	defer rows.Close()

	overview := models.StatsOverview{
		CallsToday: make(map[string]int),
		OpenJobs:   make(map[string]int),
	}

	for rows.Next() {
		var kind, label string
		var n int
		if err := rows.Scan(&kind, &label, &n); err != nil {
			return models.StatsOverview{}, fmt.Errorf("scanning stats row: %w", err)
		}

		switch kind {
		case "call":
			overview.CallsToday[label] = n
		case "job":
			overview.OpenJobs[label] = n
		case "followup":
			overview.PendingFollowUps = n
		}
	}
	if err := rows.Err(); err != nil {
		return models.StatsOverview{}, fmt.Errorf("reading stats rows: %w", err)
	}

	return overview, nil
}
