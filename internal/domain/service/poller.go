package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/planbot-dev/vertretungsplan-bot/internal/domain"
	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/contract"
	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/entity"
	"github.com/planbot-dev/vertretungsplan-bot/internal/vplan"
)

// Poller drives the periodic scan over the upcoming plan horizon. One
// goroutine runs ticks back to back, so a tick never overlaps the
// previous one.
type Poller struct {
	dm        contract.DataManager
	slack     contract.SlackClient
	fetcher   contract.PlanFetcher
	keep      contract.PeriodFilter
	detector  *Detector
	clock     contract.Clock
	logger    *slog.Logger
	channelID string
	classCode string
	interval  time.Duration
	heartbeat bool
	logRaw    bool

	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

func newPoller(dm contract.DataManager, slackClient contract.SlackClient, fetcher contract.PlanFetcher,
	keep contract.PeriodFilter, clock contract.Clock, opts Options, logger *slog.Logger,
) *Poller {
	return &Poller{
		dm:        dm,
		slack:     slackClient,
		fetcher:   fetcher,
		keep:      keep,
		detector:  NewDetector(dm),
		clock:     clock,
		logger:    logger,
		channelID: opts.ChannelID,
		classCode: opts.ClassCode,
		interval:  opts.Interval,
		heartbeat: opts.Heartbeat,
		logRaw:    opts.LogRawPlans,
	}
}

func (p *Poller) Start() {
	if p.running {
		return
	}
	p.running = true

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	p.logger.Info("poller starting", "interval", p.interval.String())
	go p.mainLoop(ctx)
}

// Stop cancels a tick in flight and waits for the loop to exit. State
// written by completed dates stays valid; an interrupted date is simply
// re-evaluated on the next start.
func (p *Poller) Stop() {
	if !p.running {
		return
	}
	p.logger.Info("poller stopping")
	p.cancel()
	<-p.done
	p.running = false
}

func (p *Poller) mainLoop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.RunTick(ctx); err != nil && !errors.Is(err, context.Canceled) {
			p.logger.Error("tick failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

type dayChanges struct {
	day    time.Time
	events []entity.ChangeEvent
}

// RunTick scans the horizon starting at today: fetch, parse, filter,
// detect, then prune old snapshots and deliver one aggregated message.
// A non-"not published" failure aborts the remainder of the scan; work
// already persisted for earlier dates is kept and the next tick retries.
func (p *Poller) RunTick(ctx context.Context) error {
	today := p.clock.Today()

	ledger, err := LoadLedger(p.dm, today)
	if err != nil {
		return err
	}

	var days []dayChanges
	misses := 0
	for offset := 0; misses < domain.MaxUnpublishedDays; {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		day := today.AddDate(0, 0, offset)
		offset++

		raw, err := p.fetcher.Fetch(ctx, day)
		if errors.Is(err, vplan.ErrNotPublished) {
			misses++
			continue
		}
		if err != nil {
			p.logger.Error("fetch failed, aborting scan", "day", day.Format(domain.PlanDateFormat), "error", err)
			break
		}
		misses = 0

		periods, err := vplan.Parse(raw, p.classCode)
		if err != nil {
			p.logger.Error("parse failed, aborting scan", "day", day.Format(domain.PlanDateFormat), "error", err)
			break
		}

		var mine []entity.Period
		for _, period := range periods {
			if p.keep(period) {
				mine = append(mine, period)
			}
		}
		if p.logRaw {
			p.logger.Debug("scanned plan", "day", day.Format(domain.PlanDateFormat),
				"periods", len(periods), "relevant", len(mine))
		}

		events, err := p.detector.Check(day, mine, ledger.Seen)
		if err != nil {
			p.logger.Error("detection failed, aborting scan", "day", day.Format(domain.PlanDateFormat), "error", err)
			break
		}
		if len(events) > 0 {
			days = append(days, dayChanges{day: day, events: events})
		}
	}

	if err := p.pruneSnapshots(today); err != nil {
		p.logger.Error("snapshot prune failed", "error", err)
	}

	return p.deliver(ctx, ledger, days)
}

// deliver runs the dedup pipeline in fixed order: ledger suppression,
// then the pure-cancellation collapse, then the payload digest check.
func (p *Poller) deliver(ctx context.Context, ledger *Ledger, days []dayChanges) error {
	head := fmt.Sprintf("🕒 Tick %s", p.clock.Now().Format("15:04:05"))

	type block struct {
		text              string
		events            []entity.ChangeEvent
		onlyCancellations bool
	}

	var blocks []block
	for _, d := range days {
		var deliverable []entity.ChangeEvent
		for _, ev := range d.events {
			if ledger.Seen(Fingerprint(ev)) {
				continue
			}
			deliverable = append(deliverable, ev)
		}
		if len(deliverable) == 0 {
			continue
		}
		blocks = append(blocks, block{
			text:              renderDayBlock(d.day, deliverable),
			events:            deliverable,
			onlyCancellations: allCancellations(deliverable),
		})
	}

	if len(blocks) == 0 {
		return p.maybeHeartbeat(head)
	}

	// A tick that carries nothing but cancellations collapses to its
	// first cancellation block.
	pure := true
	for _, b := range blocks {
		if !b.onlyCancellations {
			pure = false
			break
		}
	}
	if pure {
		blocks = blocks[:1]
	}

	var parts []string
	var sent []entity.ChangeEvent
	for _, b := range blocks {
		parts = append(parts, b.text)
		sent = append(sent, b.events...)
	}
	payload := strings.Join(parts, "\n")

	lastDigest, err := p.dm.Digest().Get()
	if err != nil {
		return err
	}
	digest := PayloadDigest(payload)
	if digest == lastDigest {
		return p.maybeHeartbeat(head)
	}

	var fingerprints []string
	for _, ev := range sent {
		if sameDay(ev.Day(), ledger.today) {
			fingerprints = append(fingerprints, Fingerprint(ev))
		}
	}

	// Digest and ledger entries land together or not at all, so a crash
	// cannot leave a delivery half-recorded.
	err = p.dm.WithTransaction(ctx, func(tx contract.DataManager) error {
		if err := tx.Digest().Set(digest); err != nil {
			return err
		}
		return ledger.Record(tx, fingerprints)
	})
	if err != nil {
		return fmt.Errorf("failed to record delivery: %w", err)
	}

	if _, _, err := p.slack.PostMessage(p.channelID, slack.MsgOptionText(head+"\n"+payload, false)); err != nil {
		return fmt.Errorf("failed to post notification: %w", err)
	}
	p.logger.Info("notification sent", "blocks", len(blocks), "events", len(sent))
	return nil
}

func (p *Poller) maybeHeartbeat(head string) error {
	if !p.heartbeat {
		return nil
	}
	if _, _, err := p.slack.PostMessage(p.channelID, slack.MsgOptionText(head, false)); err != nil {
		return fmt.Errorf("failed to post heartbeat: %w", err)
	}
	return nil
}

// pruneSnapshots drops snapshots that are both older than today and
// outside the last SnapshotKeepSchoolDays school days.
func (p *Poller) pruneSnapshots(today time.Time) error {
	return p.dm.Snapshot().Prune(today.Format(domain.PlanDateFormat), lastSchoolDays(today, domain.SnapshotKeepSchoolDays))
}

// lastSchoolDays lists the most recent n weekdays (today included when
// it is one) as plan date keys.
func lastSchoolDays(today time.Time, n int) []string {
	days := make([]string, 0, n)
	cur := today
	for len(days) < n {
		if cur.Weekday() != time.Saturday && cur.Weekday() != time.Sunday {
			days = append(days, cur.Format(domain.PlanDateFormat))
		}
		cur = cur.AddDate(0, 0, -1)
	}
	return days
}

func renderDayBlock(day time.Time, events []entity.ChangeEvent) string {
	date := day.Format(domain.DisplayDateFormat)

	if len(events) == 1 {
		if ev, ok := events[0].(entity.NewPlan); ok {
			return fmt.Sprintf("📅 %s – %s", date, ev.Render())
		}
	}

	lines := []string{"📅 " + date}
	for _, ev := range events {
		lines = append(lines, "• "+ev.Render())
	}
	return strings.Join(lines, "\n")
}

func allCancellations(events []entity.ChangeEvent) bool {
	for _, ev := range events {
		if _, ok := ev.(entity.Cancellation); !ok {
			return false
		}
	}
	return true
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
