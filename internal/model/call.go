package model

import "time"

// TimeLayout is the time-of-day format used by schedule entries.
const TimeLayout = "15:04"

// CallDefinition is one named audio cue in a profile.
type CallDefinition struct {
	Name      string `yaml:"-" json:"name"`
	Time      string `yaml:"time" json:"time"`
	AudioFile string `yaml:"audio_file" json:"audio_file"`
}

// DueTime parses the entry's HH:MM time-of-day onto the given date.
func (c CallDefinition) DueTime(day time.Time) (time.Time, error) {
	tod, err := time.Parse(TimeLayout, c.Time)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		tod.Hour(), tod.Minute(), 0, 0, day.Location()), nil
}

// PendingJob is a call still owed for the remainder of the day.
// Derived by the resolver, never persisted.
type PendingJob struct {
	Call CallDefinition
	Due  time.Time
}
