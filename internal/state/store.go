package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/garrisonlabs/bugle/internal/model"
)

// Store persists today's playback state as a single JSON file.
// Writes are atomic (write-then-rename) so a concurrent status read
// never observes a partially written file.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the persisted state for today. A missing, corrupt, or
// stale-dated file yields a fresh empty state for today; callers never
// need their own date check.
func (s *Store) Load(now time.Time) model.PlaybackState {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", s.path).Msg("state file unreadable, starting fresh")
		}
		return model.NewPlaybackState(now)
	}

	var st model.PlaybackState
	if err := json.Unmarshal(raw, &st); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("state file corrupt, starting fresh")
		return model.NewPlaybackState(now)
	}
	if st.Date != now.Format(model.DateLayout) {
		return model.NewPlaybackState(now)
	}
	if st.PlayedCalls == nil {
		st.PlayedCalls = []string{}
	}
	return st
}

// Save writes the full state atomically.
func (s *Store) Save(st model.PlaybackState) error {
	return writeJSON(s.path, st)
}

// Reset unconditionally writes an empty state for the given day.
func (s *Store) Reset(day time.Time) error {
	return writeJSON(s.path, model.NewPlaybackState(day))
}

func writeJSON(path string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("writing %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming %q: %w", tmp, err)
	}
	return nil
}
