package domain

// CancelledSubject is the sentinel the plan uses for a cancelled or
// self-study period. The course code of such a record carries the
// subject that was displaced.
const CancelledSubject = "---"

// SelfStudyMarker prefixes the info text of self-study periods
// ("selbstständiges Arbeiten").
const SelfStudyMarker = "selbst."

// CoursePair identifies one tracked course by subject code and teacher.
type CoursePair struct {
	Subject string
	Teacher string
}

// MyCourses is the hand-curated list of (subject, teacher) pairs for the
// tracked student. Numbered codes are elective courses, plain codes are
// class-wide subjects.
var MyCourses = []CoursePair{
	{"GEO1", "MÖW"},
	{"ETH3", "MADA"},
	{"INF1", "BOSSE"},
	{"KUN2", "KUGJ"},
	{"KUN4", "RAUE"},
	{"RUS1", "MÖW"},
	{"WIL1", "WETZ"},
	{"BIO", "GRUSS"},
	{"CHE", "GRUSS"},
	{"DEU", "PETH"},
	{"ENG", "SKAL"},
	{"MAT", "FELD"},
	{"SPO", "SCHJ"},
	{"GES", "NEU"},
	{"PHY", "VOGEL"},
}

const (
	// MaxUnpublishedDays is how many consecutive not-yet-published days
	// the horizon scan tolerates before it stops advancing.
	MaxUnpublishedDays = 16

	// LedgerRetentionDays is how long alert fingerprints stay persisted.
	LedgerRetentionDays = 21

	// DuplicateWindowDays is how far back a fingerprint still counts as
	// already sent.
	DuplicateWindowDays = 16

	// SnapshotKeepSchoolDays is how many past school days (weekends not
	// counted) of plan snapshots survive the prune.
	SnapshotKeepSchoolDays = 10
)

// PlanDateFormat is the date key format used for snapshots and the
// alert ledger.
const PlanDateFormat = "20060102"

// DisplayDateFormat is the date format used in messages to the channel.
const DisplayDateFormat = "02.01.2006"
