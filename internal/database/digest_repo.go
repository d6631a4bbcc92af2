package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/contract"
)

type digestRepo struct {
	db dbConn
}

func newDigestRepo(db dbConn) contract.DigestRepo {
	return &digestRepo{db: db}
}

func (r *digestRepo) Get() (string, error) {
	query := `SELECT digest FROM digests WHERE id = 1`

	var digest string
	err := r.db.QueryRow(query).Scan(&digest)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get digest: %w", err)
	}

	return digest, nil
}

func (r *digestRepo) Set(digest string) error {
	query := `
		INSERT INTO digests (id, digest, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			digest = excluded.digest,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, digest, time.Now()); err != nil {
		return fmt.Errorf("failed to set digest: %w", err)
	}

	return nil
}
