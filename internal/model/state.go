package model

import "time"

// DateLayout is the calendar-date format used in the state file.
const DateLayout = "2006-01-02"

// PlaybackState records which calls have already fired on Date.
type PlaybackState struct {
	Date        string   `json:"date"`
	PlayedCalls []string `json:"played_calls"`
}

// NewPlaybackState returns an empty state for the given day.
func NewPlaybackState(day time.Time) PlaybackState {
	return PlaybackState{Date: day.Format(DateLayout), PlayedCalls: []string{}}
}

// IsPlayed reports whether the named call already fired today.
func (s PlaybackState) IsPlayed(name string) bool {
	for _, c := range s.PlayedCalls {
		if c == name {
			return true
		}
	}
	return false
}

// MarkPlayed adds the call name once; marking twice is a no-op.
func (s *PlaybackState) MarkPlayed(name string) {
	if s.IsPlayed(name) {
		return
	}
	s.PlayedCalls = append(s.PlayedCalls, name)
}

// QueuedRequest is an out-of-band play request written by the control
// surface and picked up by an independent consumer.
type QueuedRequest struct {
	Timestamp string `json:"timestamp"`
	Call      string `json:"call"`
	Filepath  string `json:"filepath"`
}
