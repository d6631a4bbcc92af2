package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/slack-go/slack"

	"github.com/planbot-dev/vertretungsplan-bot/internal/database"
	"github.com/planbot-dev/vertretungsplan-bot/internal/domain"
	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/contract"
	"github.com/planbot-dev/vertretungsplan-bot/internal/filter"
	"github.com/planbot-dev/vertretungsplan-bot/internal/vplan"
)

// testToday is the pinned "today" used across the service tests.
var testToday = time.Date(2025, 5, 21, 8, 30, 0, 0, time.Local)

// fakeFetcher serves canned documents per plan date and counts calls.
type fakeFetcher struct {
	plans map[string][]byte
	err   error
	calls int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{plans: make(map[string][]byte)}
}

func (f *fakeFetcher) set(day time.Time, raw string) {
	f.plans[day.Format(domain.PlanDateFormat)] = []byte(raw)
}

func (f *fakeFetcher) Fetch(_ context.Context, day time.Time) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	raw, ok := f.plans[day.Format(domain.PlanDateFormat)]
	if !ok {
		return nil, vplan.ErrNotPublished
	}
	return raw, nil
}

// fakeSlack records posted messages.
type fakeSlack struct {
	messages []string
}

func (f *fakeSlack) PostMessage(channelID string, options ...slack.MsgOption) (string, string, error) {
	// The rendered text is reconstructed by the poller before posting;
	// recording the option set is enough to count and inspect sends.
	_, values, err := slack.UnsafeApplyMsgOptions("token", channelID, "https://slack.test/api/", options...)
	if err != nil {
		return "", "", err
	}
	f.messages = append(f.messages, values.Get("text"))
	return channelID, "ts", nil
}

func newTestPoller(t *testing.T, fetcher contract.PlanFetcher, opts Options) (*Poller, *fakeSlack, contract.DataManager) {
	t.Helper()

	db := database.SetupTestDB(t)
	t.Cleanup(func() { database.CleanupTestDB(t, db) })

	dm := database.NewInstance(db)
	slackClient := &fakeSlack{}
	rules := filter.New(domain.MyCourses)

	if opts.ChannelID == "" {
		opts.ChannelID = "C123"
	}
	if opts.ClassCode == "" {
		opts.ClassCode = "10E"
	}
	if opts.Interval == 0 {
		opts.Interval = time.Minute
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	poller := newPoller(dm, slackClient, fetcher, rules.Keep, NewFixedClock(testToday), opts, logger)
	return poller, slackClient, dm
}
