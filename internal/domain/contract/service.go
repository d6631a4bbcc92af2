package contract

import "context"

// PlanLister serves the day listing commands.
type PlanLister interface {
	DayListing(ctx context.Context, offset int) (string, error)
}
