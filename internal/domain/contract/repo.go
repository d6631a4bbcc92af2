package contract

import (
	"context"

	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/entity"
)

// DataManager aggregates all repository interfaces
type DataManager interface {
	WithTransaction(ctx context.Context, fn func(dm DataManager) error) error
	Snapshot() SnapshotRepo
	Alert() AlertRepo
	Digest() DigestRepo
}

// SnapshotRepo persists the last-seen filtered period list per plan date
// (YYYYMMDD key).
type SnapshotRepo interface {
	// Get returns nil when no snapshot exists for the date. A stored
	// snapshot that cannot be decoded is treated the same way.
	Get(planDate string) (*entity.Snapshot, error)
	// Save creates or overwrites the snapshot for the date.
	Save(planDate string, periods []entity.Period) error
	// Prune deletes snapshots dated before the given key, except dates
	// listed in keep.
	Prune(before string, keep []string) error
}

// AlertRepo persists delivered-notification fingerprints per plan date.
type AlertRepo interface {
	GetSince(minDate string) ([]entity.AlertEntry, error)
	Create(planDate, fingerprint string) error
	DeleteBefore(minDate string) error
}

// DigestRepo persists the hash of the last delivered payload.
type DigestRepo interface {
	// Get returns the empty string when no digest has been stored yet.
	Get() (string, error)
	Set(digest string) error
}
