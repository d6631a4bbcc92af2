package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/planbot-dev/vertretungsplan-bot/internal/domain"
	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/contract"
	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/entity"
)

// Canonical normalizes a message line for duplicate detection: Unicode
// NFC, whitespace runs collapsed to single spaces, trimmed.
func Canonical(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// Fingerprint is the dedup key of one change event. The plan date is
// part of it, so the same change on different days stays distinct.
func Fingerprint(ev entity.ChangeEvent) string {
	return Canonical(ev.Day().Format(domain.DisplayDateFormat) + " " + ev.Render())
}

// PayloadDigest hashes a full rendered notification payload. An
// unchanged payload on the next tick is not sent again.
func PayloadDigest(payload string) string {
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Ledger is the per-tick view of the persisted alert ledger. Loading it
// prunes entries past the retention window; Seen answers duplicate
// checks against the shorter suppression window.
type Ledger struct {
	today   time.Time
	entries map[string]map[string]bool // plan date -> delivered fingerprints
}

// LoadLedger reads the alert ledger, dropping entries older than the
// retention window.
func LoadLedger(dm contract.DataManager, today time.Time) (*Ledger, error) {
	retentionKey := today.AddDate(0, 0, -domain.LedgerRetentionDays).Format(domain.PlanDateFormat)

	if err := dm.Alert().DeleteBefore(retentionKey); err != nil {
		return nil, fmt.Errorf("failed to prune alert ledger: %w", err)
	}

	rows, err := dm.Alert().GetSince(retentionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load alert ledger: %w", err)
	}

	ledger := &Ledger{
		today:   today,
		entries: make(map[string]map[string]bool),
	}
	for _, row := range rows {
		if ledger.entries[row.PlanDate] == nil {
			ledger.entries[row.PlanDate] = make(map[string]bool)
		}
		ledger.entries[row.PlanDate][row.Fingerprint] = true
	}

	return ledger, nil
}

// Seen reports whether the fingerprint was already delivered within the
// duplicate-suppression window, regardless of which date-key recorded it.
func (l *Ledger) Seen(fingerprint string) bool {
	windowKey := l.today.AddDate(0, 0, -domain.DuplicateWindowDays).Format(domain.PlanDateFormat)
	for planDate, fingerprints := range l.entries {
		if planDate >= windowKey && fingerprints[fingerprint] {
			return true
		}
	}
	return false
}

// Record stores delivered fingerprints under today's date-key through
// dm, which may be transaction-scoped. On error the caller discards
// the ledger; the next tick reloads it from the store.
func (l *Ledger) Record(dm contract.DataManager, fingerprints []string) error {
	todayKey := l.today.Format(domain.PlanDateFormat)
	for _, fingerprint := range fingerprints {
		if err := dm.Alert().Create(todayKey, fingerprint); err != nil {
			return err
		}
		if l.entries[todayKey] == nil {
			l.entries[todayKey] = make(map[string]bool)
		}
		l.entries[todayKey][fingerprint] = true
	}
	return nil
}
