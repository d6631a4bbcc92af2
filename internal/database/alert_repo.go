package database

import (
	"fmt"
	"time"

	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/contract"
	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/entity"
)

type alertRepo struct {
	db dbConn
}

func newAlertRepo(db dbConn) contract.AlertRepo {
	return &alertRepo{db: db}
}

func (r *alertRepo) GetSince(minDate string) ([]entity.AlertEntry, error) {
	query := `
		SELECT plan_date, fingerprint, created_at
		FROM alerts
		WHERE plan_date >= ?
		ORDER BY plan_date ASC
	`

	rows, err := r.db.Query(query, minDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get alerts: %w", err)
	}
	defer rows.Close()

	var entries []entity.AlertEntry
	for rows.Next() {
		entry := entity.AlertEntry{}
		err := rows.Scan(
			&entry.PlanDate,
			&entry.Fingerprint,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *alertRepo) Create(planDate, fingerprint string) error {
	query := `
		INSERT INTO alerts (plan_date, fingerprint, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(plan_date, fingerprint) DO NOTHING
	`

	if _, err := r.db.Exec(query, planDate, fingerprint, time.Now()); err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}

	return nil
}

func (r *alertRepo) DeleteBefore(minDate string) error {
	query := `DELETE FROM alerts WHERE plan_date < ?`

	if _, err := r.db.Exec(query, minDate); err != nil {
		return fmt.Errorf("failed to delete alerts: %w", err)
	}

	return nil
}
