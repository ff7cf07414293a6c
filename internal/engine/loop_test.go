package engine

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garrisonlabs/bugle/internal/config"
	"github.com/garrisonlabs/bugle/internal/model"
	"github.com/garrisonlabs/bugle/internal/schedule"
	"github.com/garrisonlabs/bugle/internal/state"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time { return f.t }

type fakePlayer struct {
	plays    []string
	failures int // fail the next N plays
}

func (p *fakePlayer) Play(path string, volume float64) error {
	if p.failures > 0 {
		p.failures--
		return errors.New("device busy")
	}
	p.plays = append(p.plays, path)
	return nil
}

func testSchedules() *schedule.Store {
	return schedule.NewStore(&config.Config{
		Weekdays: map[string]model.CallDefinition{
			"reveille": {Time: "06:00", AudioFile: "sounds/reveille.mp3"},
			"taps":     {Time: "21:00", AudioFile: "sounds/taps.mp3"},
		},
		Weekends: map[string]model.CallDefinition{
			"reveille": {Time: "08:00", AudioFile: "sounds/reveille.mp3"},
		},
	})
}

func newTestLoop(t *testing.T, clock *fakeClock, coldStart bool) (*Loop, *fakePlayer, *state.Store) {
	t.Helper()
	states := state.NewStore(filepath.Join(t.TempDir(), "play_state.json"))
	player := &fakePlayer{}
	loop := NewLoop(clock, testSchedules(), states, player, &sync.Mutex{}, time.Second, coldStart)
	return loop, player, states
}

// Monday 2024-01-01.
func monday(hour, minute int) time.Time {
	return time.Date(2024, 1, 1, hour, minute, 0, 0, time.UTC)
}

func TestNormalDay(t *testing.T) {
	clock := &fakeClock{t: monday(5, 59)}
	loop, player, states := newTestLoop(t, clock, false)

	loop.Tick()
	assert.Empty(t, player.plays, "nothing due at 05:59")

	clock.t = monday(6, 0)
	loop.Tick()
	assert.Equal(t, []string{"sounds/reveille.mp3"}, player.plays)

	st := states.Load(clock.t)
	assert.Equal(t, []string{"reveille"}, st.PlayedCalls)

	clock.t = monday(6, 1)
	loop.Tick()
	assert.Len(t, player.plays, 1, "reveille must not re-fire")

	clock.t = monday(21, 0)
	loop.Tick()
	assert.Equal(t, []string{"sounds/reveille.mp3", "sounds/taps.mp3"}, player.plays)
	assert.Empty(t, loop.Pending())
}

func TestPlaybackFailureRetriesNextTick(t *testing.T) {
	clock := &fakeClock{t: monday(6, 0)}
	loop, player, states := newTestLoop(t, clock, false)
	player.failures = 1

	loop.Tick()
	assert.Empty(t, player.plays)
	assert.Empty(t, states.Load(clock.t).PlayedCalls, "failed play must not be marked")
	require.Len(t, loop.Pending(), 2, "failed job stays pending")

	clock.t = monday(6, 1)
	loop.Tick()
	assert.Equal(t, []string{"sounds/reveille.mp3"}, player.plays)
	assert.Equal(t, []string{"reveille"}, states.Load(clock.t).PlayedCalls)
}

func TestLateStartWarmFiresMissedCalls(t *testing.T) {
	// Warm start at 14:00: the 06:00 call is late but still owed.
	clock := &fakeClock{t: monday(14, 0)}
	loop, player, _ := newTestLoop(t, clock, false)

	loop.Tick()
	assert.Equal(t, []string{"sounds/reveille.mp3"}, player.plays)
}

func TestColdStartSuppressesMissedCalls(t *testing.T) {
	clock := &fakeClock{t: monday(14, 0)}
	loop, player, _ := newTestLoop(t, clock, true)

	require.Len(t, loop.Pending(), 1)
	assert.Equal(t, "taps", loop.Pending()[0].Call.Name)

	loop.Tick()
	assert.Empty(t, player.plays)
}

func TestColdStartSkipIsEligibleAgainNextDay(t *testing.T) {
	clock := &fakeClock{t: monday(14, 0)}
	loop, player, _ := newTestLoop(t, clock, true)
	require.Len(t, loop.Pending(), 1, "reveille suppressed on cold start")

	// Tuesday: the per-day reset makes the suppressed call due again.
	clock.t = time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC)
	loop.Tick()
	assert.Equal(t, []string{"sounds/reveille.mp3"}, player.plays)
}

func TestDayRolloverResetsState(t *testing.T) {
	clock := &fakeClock{t: monday(21, 0)}
	loop, player, states := newTestLoop(t, clock, false)

	loop.Tick() // fires both late reveille and taps
	require.Len(t, player.plays, 2)

	clock.t = time.Date(2024, 1, 2, 0, 0, 30, 0, time.UTC)
	loop.Tick()

	st := states.Load(clock.t)
	assert.Equal(t, "2024-01-02", st.Date)
	assert.Empty(t, st.PlayedCalls)
	assert.Len(t, loop.Pending(), 2, "new day owes the full weekday profile")
}

func TestWeekendProfileAfterFridayRollover(t *testing.T) {
	friday := time.Date(2024, 1, 5, 23, 59, 0, 0, time.UTC)
	require.Equal(t, time.Friday, friday.Weekday())
	clock := &fakeClock{t: friday}
	loop, _, _ := newTestLoop(t, clock, true)

	clock.t = time.Date(2024, 1, 6, 0, 2, 0, 0, time.UTC)
	loop.Tick()

	pending := loop.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "08:00", pending[0].Call.Time)
}

func TestMidnightMaintenanceReResolves(t *testing.T) {
	clock := &fakeClock{t: monday(23, 59)}
	loop, _, states := newTestLoop(t, clock, true)
	require.Empty(t, loop.Pending(), "everything past on a cold start at 23:59")

	// Simulate the rollover observation having been missed: the engine
	// already carries the new date but never re-resolved for it. The
	// dedicated 00:01 maintenance still recomputes the full day.
	clock.t = time.Date(2024, 1, 2, 0, 1, 30, 0, time.UTC)
	loop.today = "2024-01-02"
	loop.Tick()

	assert.Equal(t, "2024-01-02", states.Load(clock.t).Date)
	assert.Len(t, loop.Pending(), 2, "full Tuesday schedule recomputed")
	assert.True(t, loop.nextMaintenance.After(clock.t), "next maintenance re-armed")
}

// blockingPlayer parks inside Play until released, to hold a firing
// in flight across a shutdown.
type blockingPlayer struct {
	started chan struct{}
	release chan struct{}
	plays   []string
}

func (p *blockingPlayer) Play(path string, volume float64) error {
	p.started <- struct{}{}
	<-p.release
	p.plays = append(p.plays, path)
	return nil
}

func TestRunCompletesInFlightFiringBeforeStopping(t *testing.T) {
	clock := &fakeClock{t: monday(6, 0)}
	states := state.NewStore(filepath.Join(t.TempDir(), "play_state.json"))
	player := &blockingPlayer{started: make(chan struct{}), release: make(chan struct{})}
	loop := NewLoop(clock, testSchedules(), states, player, &sync.Mutex{}, 5*time.Millisecond, false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	<-player.started // reveille is mid-clip
	cancel()
	player.release <- struct{}{}
	<-done

	assert.Equal(t, []string{"sounds/reveille.mp3"}, player.plays)
	assert.Equal(t, []string{"reveille"}, states.Load(clock.t).PlayedCalls,
		"the finished clip must be recorded before Run returns")
}

func TestSaveFailureDoesNotRollBackInMemoryMark(t *testing.T) {
	clock := &fakeClock{t: monday(6, 0)}
	states := state.NewStore(filepath.Join(t.TempDir(), "missing-dir", "play_state.json"))
	player := &fakePlayer{}
	loop := NewLoop(clock, testSchedules(), states, player, &sync.Mutex{}, time.Second, false)

	loop.Tick()
	require.Equal(t, []string{"sounds/reveille.mp3"}, player.plays)

	// Save failed (directory missing), yet the call does not re-fire.
	clock.t = monday(6, 1)
	loop.Tick()
	assert.Len(t, player.plays, 1)
}
