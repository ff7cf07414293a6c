package schedule

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/garrisonlabs/bugle/internal/model"
)

// Resolve produces the ordered list of calls still owed for the rest of
// the day: everything in the profile that has not already played today.
//
// When coldStart is true, calls whose time-of-day already passed are
// dropped as well, so a reboot in the afternoon does not replay the whole
// morning at once. When the engine is warm the lateness check belongs to
// the loop's due-check, not the resolver.
func Resolve(now time.Time, p Profile, st model.PlaybackState, coldStart bool) []model.PendingJob {
	jobs := make([]model.PendingJob, 0, len(p.Calls))
	for _, def := range p.Calls {
		due, err := def.DueTime(now)
		if err != nil {
			log.Warn().Str("call", def.Name).Str("time", def.Time).
				Msg("skipping call: invalid time")
			continue
		}
		if st.IsPlayed(def.Name) {
			continue
		}
		if coldStart && due.Before(now) {
			log.Info().Str("call", def.Name).Time("due", due).
				Msg("cold start: suppressing call already past")
			continue
		}
		jobs = append(jobs, model.PendingJob{Call: def, Due: due})
	}
	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].Due.Equal(jobs[j].Due) {
			return jobs[i].Due.Before(jobs[j].Due)
		}
		return jobs[i].Call.Name < jobs[j].Call.Name
	})
	return jobs
}
