package database

import (
	"context"
	"fmt"

	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/contract"
)

// instance implements DataManager interface
type instance struct {
	db           *DB
	snapshotRepo contract.SnapshotRepo
	alertRepo    contract.AlertRepo
	digestRepo   contract.DigestRepo
}

// NewInstance creates a new database instance with all repositories
func NewInstance(db *DB) contract.DataManager {
	instance := &instance{
		db: db,
	}
	instance.repoInstances()
	return instance
}

// repoInstances initializes all repositories
func (i *instance) repoInstances() {
	i.snapshotRepo = newSnapshotRepo(i.db.conn)
	i.alertRepo = newAlertRepo(i.db.conn)
	i.digestRepo = newDigestRepo(i.db.conn)
}

// repoInstancesWithConn creates repository instances with custom dbConn
func repoInstancesWithConn(db dbConn) *instance {
	return &instance{
		snapshotRepo: newSnapshotRepo(db),
		alertRepo:    newAlertRepo(db),
		digestRepo:   newDigestRepo(db),
	}
}

// Snapshot returns the snapshot repository
func (i *instance) Snapshot() contract.SnapshotRepo {
	return i.snapshotRepo
}

// Alert returns the alert ledger repository
func (i *instance) Alert() contract.AlertRepo {
	return i.alertRepo
}

// Digest returns the digest repository
func (i *instance) Digest() contract.DigestRepo {
	return i.digestRepo
}

// WithTransaction executes a function within a database transaction
func (i *instance) WithTransaction(ctx context.Context, fn func(dm contract.DataManager) error) error {
	tx, err := i.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txInstance := repoInstancesWithConn(tx)
	err = fn(txInstance)
	if err != nil {
		rbErr := tx.Rollback()
		if rbErr != nil {
			return fmt.Errorf("error rolling back transaction: %v, original error: %w", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}
