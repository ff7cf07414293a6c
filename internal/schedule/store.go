package schedule

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/garrisonlabs/bugle/internal/config"
	"github.com/garrisonlabs/bugle/internal/model"
)

// Profile is the weekday or weekend set of calls. Immutable after load.
type Profile struct {
	Name  string
	Calls map[string]model.CallDefinition
}

// Store holds the two profiles loaded from the schedule document.
type Store struct {
	weekday Profile
	weekend Profile
}

// NewStore builds both profiles from the configuration document.
// Entries missing their time or audio file, or with an unparseable
// time-of-day, are skipped with a warning; partial schedules are valid.
func NewStore(cfg *config.Config) *Store {
	return &Store{
		weekday: loadProfile("weekday", cfg.Weekdays),
		weekend: loadProfile("weekend", cfg.Weekends),
	}
}

func loadProfile(name string, entries map[string]model.CallDefinition) Profile {
	p := Profile{Name: name, Calls: make(map[string]model.CallDefinition, len(entries))}
	for callName, def := range entries {
		def.Name = callName
		if def.Time == "" || def.AudioFile == "" {
			log.Warn().Str("profile", name).Str("call", callName).
				Msg("skipping call: missing time or audio_file")
			continue
		}
		if _, err := time.Parse(model.TimeLayout, def.Time); err != nil {
			log.Warn().Str("profile", name).Str("call", callName).
				Str("time", def.Time).Msg("skipping call: invalid time")
			continue
		}
		p.Calls[callName] = def
	}
	return p
}

// ActiveProfile selects the profile for the given date:
// Monday through Friday map to weekday, Saturday and Sunday to weekend.
func (s *Store) ActiveProfile(day time.Time) Profile {
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return s.weekend
	default:
		return s.weekday
	}
}

// SortedCalls returns the profile's calls ordered by time, ties by name.
func (p Profile) SortedCalls() []model.CallDefinition {
	out := make([]model.CallDefinition, 0, len(p.Calls))
	for _, def := range p.Calls {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].Name < out[j].Name
	})
	return out
}
