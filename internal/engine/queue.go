package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/garrisonlabs/bugle/internal/audio"
	"github.com/garrisonlabs/bugle/internal/state"
)

// QueueConsumer picks up queued play requests written by the control
// surface and plays them out-of-band. It never touches the playback
// state: a queued play does not satisfy a scheduled call.
type QueueConsumer struct {
	requests *state.RequestFile
	player   audio.Player
	playMu   *sync.Mutex
	interval time.Duration
}

func NewQueueConsumer(requests *state.RequestFile, player audio.Player,
	playMu *sync.Mutex, interval time.Duration) *QueueConsumer {
	return &QueueConsumer{
		requests: requests,
		player:   player,
		playMu:   playMu,
		interval: interval,
	}
}

// Run polls the request file until the context is cancelled.
func (q *QueueConsumer) Run(ctx context.Context) {
	ticker := time.NewTicker(q.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			q.Poll()
		}
	}
}

// Poll consumes at most one pending request.
func (q *QueueConsumer) Poll() {
	req, ok := q.requests.Take()
	if !ok {
		return
	}
	log.Info().Str("call", req.Call).Str("file", req.Filepath).
		Str("queued_at", req.Timestamp).Msg("playing queued request")

	q.playMu.Lock()
	defer q.playMu.Unlock()
	if err := q.player.Play(req.Filepath, 1.0); err != nil {
		log.Error().Err(err).Str("call", req.Call).Msg("queued playback failed")
	}
}
