package state

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/garrisonlabs/bugle/internal/model"
)

// RequestFile is the cross-process handoff point for queued play
// requests: the control surface writes one, an out-of-band consumer
// takes it. At most one request is pending at a time; a newer request
// overwrites an unconsumed one.
type RequestFile struct {
	path string
}

func NewRequestFile(path string) *RequestFile {
	return &RequestFile{path: path}
}

// Put durably records a queued request, atomically.
func (r *RequestFile) Put(req model.QueuedRequest) error {
	return writeJSON(r.path, req)
}

// Take removes and returns the pending request, if any. The file is
// claimed by rename first, so a request written concurrently is never
// deleted unread: it lands on the main path while we consume the claim.
func (r *RequestFile) Take() (model.QueuedRequest, bool) {
	claim := r.path + ".claim"
	if err := os.Rename(r.path, claim); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", r.path).Msg("could not claim request file")
		}
		return model.QueuedRequest{}, false
	}

	raw, err := os.ReadFile(claim)
	if err != nil {
		log.Warn().Err(err).Str("path", claim).Msg("request file unreadable")
		return model.QueuedRequest{}, false
	}
	if err := os.Remove(claim); err != nil {
		log.Warn().Err(err).Str("path", claim).Msg("could not remove claimed request")
	}

	var req model.QueuedRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Warn().Err(err).Str("path", r.path).Msg("discarding corrupt request file")
		return model.QueuedRequest{}, false
	}
	return req, true
}
