package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/planbot-dev/vertretungsplan-bot/internal/domain"
	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/contract"
	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/entity"
)

// Detector compares freshly fetched, filtered period lists against the
// stored snapshot of the same date.
type Detector struct {
	dm contract.DataManager
}

func NewDetector(dm contract.DataManager) *Detector {
	return &Detector{dm: dm}
}

// Check diffs the fresh list against the snapshot for day and returns
// the change events. The first sighting of a date yields a single
// NewPlan event. Whenever at least one event is produced, the fresh
// list replaces the snapshot, so later ticks compare against the
// latest known state. seen suppresses cancellations whose fingerprint
// was already delivered; pass nil to skip that check.
func (d *Detector) Check(day time.Time, fresh []entity.Period, seen func(string) bool) ([]entity.ChangeEvent, error) {
	key := day.Format(domain.PlanDateFormat)

	prev, err := d.dm.Snapshot().Get(key)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for %s: %w", key, err)
	}

	if prev == nil {
		if err := d.dm.Snapshot().Save(key, fresh); err != nil {
			return nil, fmt.Errorf("failed to save first snapshot for %s: %w", key, err)
		}
		return []entity.ChangeEvent{entity.NewPlan{Date: day, Count: len(fresh)}}, nil
	}

	var events []entity.ChangeEvent

	for _, n := range fresh {
		if n.IsCancelled() {
			continue
		}
		o, ok := matchPeriod(prev.Periods, n)
		if !ok {
			continue
		}
		if canonRoom(o.Room) != canonRoom(n.Room) {
			events = append(events, entity.RoomChange{
				Date:         day,
				PeriodNumber: n.PeriodNumber,
				Key:          n.MatchKey(),
				OldRoom:      o.Room,
				NewRoom:      n.Room,
			})
		}
	}

	for _, n := range fresh {
		if !n.IsCancelled() {
			continue
		}
		// Only a period that was regular in the snapshot counts as a
		// new cancellation; slots cancelled at first sight were part
		// of the new-plan message already.
		if !hadRegularPeriod(prev.Periods, n.PeriodNumber) {
			continue
		}
		ev := entity.Cancellation{
			Date:         day,
			PeriodNumber: n.PeriodNumber,
			Info:         n.Info,
			CourseCode:   n.CourseCode,
		}
		if seen != nil && seen(Fingerprint(ev)) {
			continue
		}
		events = append(events, ev)
	}

	if len(events) > 0 {
		if err := d.dm.Snapshot().Save(key, fresh); err != nil {
			return nil, fmt.Errorf("failed to update snapshot for %s: %w", key, err)
		}
	}

	return events, nil
}

// matchPeriod finds the snapshot record at the same period number with
// the same course-or-subject key.
func matchPeriod(prev []entity.Period, n entity.Period) (entity.Period, bool) {
	for _, o := range prev {
		if o.PeriodNumber == n.PeriodNumber && o.MatchKey() == n.MatchKey() {
			return o, true
		}
	}
	return entity.Period{}, false
}

func hadRegularPeriod(prev []entity.Period, periodNumber int) bool {
	for _, o := range prev {
		if o.PeriodNumber == periodNumber && !o.IsCancelled() {
			return true
		}
	}
	return false
}

func canonRoom(room string) string {
	return strings.ToUpper(strings.TrimSpace(room))
}
