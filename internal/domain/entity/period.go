package entity

import (
	"strings"
	"time"
)

const cancelledSubject = "---"

// Period is one scheduled lesson slot of a daily plan. Empty string
// fields mean the plan did not publish that value.
type Period struct {
	PeriodNumber int    `json:"stunde"`
	Start        string `json:"beginn,omitempty"`
	End          string `json:"ende,omitempty"`
	Subject      string `json:"fach,omitempty"`
	CourseCode   string `json:"kurs,omitempty"`
	Teacher      string `json:"lehrer,omitempty"`
	Room         string `json:"raum,omitempty"`
	Info         string `json:"info,omitempty"`
}

// IsCancelled reports whether the slot is a cancellation/self-study
// period. For those, CourseCode carries the displaced subject.
func (p Period) IsCancelled() bool {
	return p.Subject == cancelledSubject
}

// MatchKey correlates a period across plan versions: the course code
// when present, the subject otherwise. Course codes stay stable while
// subject text may drift.
func (p Period) MatchKey() string {
	if p.CourseCode != "" {
		return strings.ToUpper(p.CourseCode)
	}
	return strings.ToUpper(p.Subject)
}

// Snapshot is the last persisted filtered period list for one date.
type Snapshot struct {
	PlanDate  string    `json:"plan_date"`
	Periods   []Period  `json:"periods"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AlertEntry is one delivered-notification fingerprint in the ledger.
type AlertEntry struct {
	PlanDate    string    `json:"plan_date"`
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`
}
