package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/entity"
)

const pollerPlanXML = `<VpMobil><Kl><Kurz>10E</Kurz><Pl>
	<Std><St>1</St><Beginn>7:15</Beginn><Ende>08:00</Ende><Fa>MAT</Fa><Le>FELD</Le><Ra>114</Ra></Std>
	<Std><St>2</St><Fa>MUS</Fa><Le>HANS</Le><Ra>013</Ra></Std>
</Pl></Kl></VpMobil>`

const pollerPlanRoomChangedXML = `<VpMobil><Kl><Kurz>10E</Kurz><Pl>
	<Std><St>1</St><Beginn>7:15</Beginn><Ende>08:00</Ende><Fa>MAT</Fa><Le>FELD</Le><Ra>115</Ra></Std>
	<Std><St>2</St><Fa>MUS</Fa><Le>HANS</Le><Ra>013</Ra></Std>
</Pl></Kl></VpMobil>`

func TestPoller_HorizonTermination(t *testing.T) {
	fetcher := newFakeFetcher()
	poller, slackClient, _ := newTestPoller(t, fetcher, Options{})

	err := poller.RunTick(context.Background())
	require.NoError(t, err, "an unpublished horizon is not an error")

	assert.Equal(t, 16, fetcher.calls, "scan must stop after 16 consecutive misses")
	assert.Empty(t, slackClient.messages)
}

func TestPoller_FirstSightingSendsNewPlan(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.set(testToday, pollerPlanXML)
	poller, slackClient, dm := newTestPoller(t, fetcher, Options{})

	require.NoError(t, poller.RunTick(context.Background()))

	require.Len(t, slackClient.messages, 1)
	assert.Contains(t, slackClient.messages[0], "🕒 Tick")
	assert.Contains(t, slackClient.messages[0], "21.05.2025 – neuer Plan (1)")

	snapshot, err := dm.Snapshot().Get("20250521")
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	require.Len(t, snapshot.Periods, 1, "only relevant periods are persisted")
	assert.Equal(t, "MAT", snapshot.Periods[0].Subject)
}

func TestPoller_RoomChangeThenQuiet(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.set(testToday, pollerPlanXML)
	poller, slackClient, _ := newTestPoller(t, fetcher, Options{})

	require.NoError(t, poller.RunTick(context.Background()))
	require.Len(t, slackClient.messages, 1)

	fetcher.set(testToday, pollerPlanRoomChangedXML)
	require.NoError(t, poller.RunTick(context.Background()))
	require.Len(t, slackClient.messages, 2)
	assert.Contains(t, slackClient.messages[1], "Raumänderung: Stunde 1 MAT 114 → 115")

	// Unchanged remote state: nothing new to say.
	require.NoError(t, poller.RunTick(context.Background()))
	assert.Len(t, slackClient.messages, 2)
}

func TestPoller_FetchErrorAbortsScan(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.err = errors.New("connection refused")
	poller, slackClient, _ := newTestPoller(t, fetcher, Options{})

	err := poller.RunTick(context.Background())
	require.NoError(t, err, "a failed scan is logged, not fatal")

	assert.Equal(t, 1, fetcher.calls, "scan stops at the first hard failure")
	assert.Empty(t, slackClient.messages)
}

func TestPoller_CompletedDatesSurviveLaterFailure(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.set(testToday, pollerPlanXML)
	poller, _, dm := newTestPoller(t, fetcher, Options{})

	require.NoError(t, poller.RunTick(context.Background()))

	// Next tick dies on the very first fetch; yesterday's state stays.
	fetcher.err = errors.New("boom")
	require.NoError(t, poller.RunTick(context.Background()))

	snapshot, err := dm.Snapshot().Get("20250521")
	require.NoError(t, err)
	assert.NotNil(t, snapshot)
}

func TestPoller_StopCancelsTick(t *testing.T) {
	fetcher := newFakeFetcher()
	poller, _, _ := newTestPoller(t, fetcher, Options{Interval: time.Hour})

	poller.Start()
	poller.Stop()

	calls := fetcher.calls
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, calls, fetcher.calls, "no fetches after Stop returned")
}

func TestDeliver_HeartbeatWhenQuiet(t *testing.T) {
	fetcher := newFakeFetcher()
	poller, slackClient, dm := newTestPoller(t, fetcher, Options{Heartbeat: true})

	ledger, err := LoadLedger(dm, poller.clock.Today())
	require.NoError(t, err)

	require.NoError(t, poller.deliver(context.Background(), ledger, nil))

	require.Len(t, slackClient.messages, 1)
	assert.Contains(t, slackClient.messages[0], "🕒 Tick")
	assert.NotContains(t, slackClient.messages[0], "\n")
}

func TestDeliver_PureCancellationCollapse(t *testing.T) {
	fetcher := newFakeFetcher()
	poller, slackClient, dm := newTestPoller(t, fetcher, Options{})

	today := poller.clock.Today()
	ledger, err := LoadLedger(dm, today)
	require.NoError(t, err)

	days := []dayChanges{
		{day: today, events: []entity.ChangeEvent{
			entity.Cancellation{Date: today, PeriodNumber: 1, Info: "MAT entfällt"},
		}},
		{day: today.AddDate(0, 0, 1), events: []entity.ChangeEvent{
			entity.Cancellation{Date: today.AddDate(0, 0, 1), PeriodNumber: 4, Info: "GEO1 entfällt"},
		}},
	}

	require.NoError(t, poller.deliver(context.Background(), ledger, days))

	require.Len(t, slackClient.messages, 1)
	assert.Contains(t, slackClient.messages[0], "MAT entfällt")
	assert.NotContains(t, slackClient.messages[0], "GEO1 entfällt",
		"a pure cancellation tick collapses to its first block")
}

func TestDeliver_MixedTickKeepsAllBlocks(t *testing.T) {
	fetcher := newFakeFetcher()
	poller, slackClient, dm := newTestPoller(t, fetcher, Options{})

	today := poller.clock.Today()
	ledger, err := LoadLedger(dm, today)
	require.NoError(t, err)

	days := []dayChanges{
		{day: today, events: []entity.ChangeEvent{
			entity.Cancellation{Date: today, PeriodNumber: 1, Info: "MAT entfällt"},
		}},
		{day: today.AddDate(0, 0, 1), events: []entity.ChangeEvent{
			entity.RoomChange{Date: today.AddDate(0, 0, 1), PeriodNumber: 2, Key: "ENG", OldRoom: "201", NewRoom: "202"},
		}},
	}

	require.NoError(t, poller.deliver(context.Background(), ledger, days))

	require.Len(t, slackClient.messages, 1)
	assert.Contains(t, slackClient.messages[0], "MAT entfällt")
	assert.Contains(t, slackClient.messages[0], "Raumänderung: Stunde 2 ENG 201 → 202")
}

func TestDeliver_DigestSuppressesRepeatPayload(t *testing.T) {
	fetcher := newFakeFetcher()
	poller, slackClient, dm := newTestPoller(t, fetcher, Options{})

	today := poller.clock.Today()
	tomorrow := today.AddDate(0, 0, 1)

	// A future-day event is not ledger-tracked, so only the digest can
	// stop the repeat.
	days := []dayChanges{
		{day: tomorrow, events: []entity.ChangeEvent{
			entity.Cancellation{Date: tomorrow, PeriodNumber: 4, Info: "GEO1 entfällt"},
		}},
	}

	ledger, err := LoadLedger(dm, today)
	require.NoError(t, err)
	require.NoError(t, poller.deliver(context.Background(), ledger, days))
	require.Len(t, slackClient.messages, 1)

	ledger, err = LoadLedger(dm, today)
	require.NoError(t, err)
	require.NoError(t, poller.deliver(context.Background(), ledger, days))
	assert.Len(t, slackClient.messages, 1, "identical payload must not be sent twice")
}

func TestDeliver_LedgerSuppressesSameDayRepeat(t *testing.T) {
	fetcher := newFakeFetcher()
	poller, slackClient, dm := newTestPoller(t, fetcher, Options{})

	today := poller.clock.Today()
	ev := entity.Cancellation{Date: today, PeriodNumber: 1, Info: "MAT entfällt"}
	other := entity.RoomChange{Date: today, PeriodNumber: 3, Key: "ENG", OldRoom: "201", NewRoom: "202"}

	ledger, err := LoadLedger(dm, today)
	require.NoError(t, err)
	require.NoError(t, poller.deliver(context.Background(), ledger, []dayChanges{{day: today, events: []entity.ChangeEvent{ev, other}}}))
	require.Len(t, slackClient.messages, 1)

	// The same cancellation resurfacing next tick is filtered by the
	// ledger even though the payload would differ.
	ledger, err = LoadLedger(dm, today)
	require.NoError(t, err)
	require.NoError(t, poller.deliver(context.Background(), ledger, []dayChanges{{day: today, events: []entity.ChangeEvent{ev}}}))
	assert.Len(t, slackClient.messages, 1)
}
