package service

import (
	"time"

	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/contract"
)

type systemClock struct{}

// NewSystemClock returns the wall clock.
func NewSystemClock() contract.Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Today() time.Time {
	return truncateToDay(time.Now())
}

type fixedClock struct {
	t time.Time
}

// NewFixedClock returns a clock pinned to the given instant. Used for
// the DATE_OVERRIDE setting and in tests.
func NewFixedClock(t time.Time) contract.Clock {
	return fixedClock{t: t}
}

func (c fixedClock) Now() time.Time {
	return c.t
}

func (c fixedClock) Today() time.Time {
	return truncateToDay(c.t)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
