package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/garrisonlabs/bugle/internal/audio"
	"github.com/garrisonlabs/bugle/internal/model"
	"github.com/garrisonlabs/bugle/internal/schedule"
	"github.com/garrisonlabs/bugle/internal/state"
)

// maintenanceTime is the time-of-day of the daily maintenance pass that
// resets state and re-resolves the schedule for the new day.
const maintenanceTime = "00:01"

// Loop is the daily schedule execution engine. It owns the playback
// state exclusively; the control surface only observes it through the
// state store's atomic load/save.
type Loop struct {
	clock     Clock
	schedules *schedule.Store
	states    *state.Store
	player    audio.Player
	playMu    *sync.Mutex
	tick      time.Duration

	st              model.PlaybackState
	pending         []model.PendingJob
	today           string
	nextMaintenance time.Time
}

// NewLoop resolves the initial pending-job list for today. coldStart
// applies the startup catch-up suppression; it is decided once here,
// never per tick.
func NewLoop(clock Clock, schedules *schedule.Store, states *state.Store,
	player audio.Player, playMu *sync.Mutex, tick time.Duration, coldStart bool) *Loop {

	l := &Loop{
		clock:     clock,
		schedules: schedules,
		states:    states,
		player:    player,
		playMu:    playMu,
		tick:      tick,
	}

	now := clock.Now()
	l.today = now.Format(model.DateLayout)
	l.st = states.Load(now)
	profile := schedules.ActiveProfile(now)
	l.pending = schedule.Resolve(now, profile, l.st, coldStart)
	l.nextMaintenance = nextMaintenanceAfter(now)

	log.Info().Str("profile", profile.Name).Int("pending", len(l.pending)).
		Bool("cold_start", coldStart).Msg("engine resolved today's schedule")
	return l
}

// Run ticks until the context is cancelled. An in-flight firing always
// completes before shutdown is honored.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("engine stopped")
			return
		case <-ticker.C:
			l.Tick()
		}
	}
}

// Tick runs one scheduling pass: day-rollover check, midnight
// maintenance, then firing of every job now due.
func (l *Loop) Tick() {
	now := l.clock.Now()

	if today := now.Format(model.DateLayout); today != l.today {
		log.Info().Str("from", l.today).Str("to", today).Msg("day rolled over")
		l.startDay(now)
	}
	if !now.Before(l.nextMaintenance) {
		log.Info().Msg("midnight maintenance")
		l.startDay(now)
	}

	l.fireDue(now)
}

// Pending returns a copy of the jobs still owed for today.
func (l *Loop) Pending() []model.PendingJob {
	out := make([]model.PendingJob, len(l.pending))
	copy(out, l.pending)
	return out
}

// startDay resets state and re-resolves the full schedule for the day
// containing now. Rollover resolution is never a cold start.
func (l *Loop) startDay(now time.Time) {
	if err := l.states.Reset(now); err != nil {
		log.Error().Err(err).Msg("state reset failed")
	}
	l.today = now.Format(model.DateLayout)
	l.st = model.NewPlaybackState(now)
	profile := l.schedules.ActiveProfile(now)
	l.pending = schedule.Resolve(now, profile, l.st, false)
	l.nextMaintenance = nextMaintenanceAfter(now)
	log.Info().Str("profile", profile.Name).Int("pending", len(l.pending)).
		Msg("resolved schedule for new day")
}

// fireDue plays every job whose due time has arrived, in due-time order
// (the resolver already broke ties by name). A failed play stays
// pending and is retried on the next tick until the day rolls over.
func (l *Loop) fireDue(now time.Time) {
	remaining := l.pending[:0]
	for _, job := range l.pending {
		if job.Due.After(now) {
			remaining = append(remaining, job)
			continue
		}
		if err := l.play(job); err != nil {
			log.Error().Err(err).Str("call", job.Call.Name).
				Time("due", job.Due).Msg("playback failed, will retry")
			remaining = append(remaining, job)
			continue
		}
		l.st.MarkPlayed(job.Call.Name)
		if err := l.states.Save(l.st); err != nil {
			// The in-memory mark stands; the call will not replay today.
			log.Error().Err(err).Str("call", job.Call.Name).Msg("state save failed")
		}
	}
	l.pending = remaining
}

func (l *Loop) play(job model.PendingJob) error {
	l.playMu.Lock()
	defer l.playMu.Unlock()
	log.Info().Str("call", job.Call.Name).Str("file", job.Call.AudioFile).
		Time("at", l.clock.Now()).Msg("playing call")
	return l.player.Play(job.Call.AudioFile, 1.0)
}

// nextMaintenanceAfter returns the first maintenance instant strictly
// after now, on the following day.
func nextMaintenanceAfter(now time.Time) time.Time {
	tod, _ := time.Parse(model.TimeLayout, maintenanceTime)
	next := time.Date(now.Year(), now.Month(), now.Day(),
		tod.Hour(), tod.Minute(), 0, 0, now.Location())
	return next.AddDate(0, 0, 1)
}
