package service

import (
	"log/slog"
	"time"

	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/contract"
)

// Options carries the runtime settings the services need.
type Options struct {
	ChannelID   string
	ClassCode   string
	Interval    time.Duration
	Heartbeat   bool
	LogRawPlans bool
}

type Services struct {
	Poller *Poller
	Plans  *PlanService
}

func New(dm contract.DataManager, slackClient contract.SlackClient, fetcher contract.PlanFetcher,
	keep contract.PeriodFilter, clock contract.Clock, opts Options, logger *slog.Logger,
) *Services {
	return &Services{
		Poller: newPoller(dm, slackClient, fetcher, keep, clock, opts, logger),
		Plans:  newPlanService(fetcher, keep, opts.ClassCode, clock),
	}
}
