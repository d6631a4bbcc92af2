package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/contract"
	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/entity"
)

type snapshotRepo struct {
	db dbConn
}

func newSnapshotRepo(db dbConn) contract.SnapshotRepo {
	return &snapshotRepo{db: db}
}

func (r *snapshotRepo) Get(planDate string) (*entity.Snapshot, error) {
	snapshot := &entity.Snapshot{}
	query := `
		SELECT plan_date, periods, updated_at
		FROM snapshots
		WHERE plan_date = ?
	`

	var periodsJSON string
	err := r.db.QueryRow(query, planDate).Scan(
		&snapshot.PlanDate,
		&periodsJSON,
		&snapshot.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	// A row that cannot be decoded (e.g. written by a killed process)
	// counts as no prior state rather than an error.
	if err := json.Unmarshal([]byte(periodsJSON), &snapshot.Periods); err != nil {
		return nil, nil
	}

	return snapshot, nil
}

func (r *snapshotRepo) Save(planDate string, periods []entity.Period) error {
	query := `
		INSERT INTO snapshots (plan_date, periods, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(plan_date) DO UPDATE SET
			periods = excluded.periods,
			updated_at = excluded.updated_at
	`

	periodsJSON, err := json.Marshal(periods)
	if err != nil {
		return fmt.Errorf("failed to marshal periods: %w", err)
	}

	if _, err := r.db.Exec(query, planDate, string(periodsJSON), time.Now()); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

func (r *snapshotRepo) Prune(before string, keep []string) error {
	query := `DELETE FROM snapshots WHERE plan_date < ?`
	args := []interface{}{before}

	if len(keep) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(keep)), ", ")
		query += fmt.Sprintf(" AND plan_date NOT IN (%s)", placeholders)
		for _, date := range keep {
			args = append(args, date)
		}
	}

	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}

	return nil
}
