package contract

import (
	"context"
	"time"

	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/entity"
)

// PlanFetcher loads the raw plan document for one calendar day.
// Implementations signal an unpublished day with vplan.ErrNotPublished.
type PlanFetcher interface {
	Fetch(ctx context.Context, day time.Time) ([]byte, error)
}

// PeriodFilter decides whether a period belongs to the tracked student.
// Any predicate of this shape can be swapped in.
type PeriodFilter func(entity.Period) bool

// Clock is the injected time source. Today is the start of the current
// calendar day; a fixed implementation makes date-driven logic
// deterministic in tests and via the DATE_OVERRIDE setting.
type Clock interface {
	Now() time.Time
	Today() time.Time
}
