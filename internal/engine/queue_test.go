package engine

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garrisonlabs/bugle/internal/model"
	"github.com/garrisonlabs/bugle/internal/state"
)

func TestQueueConsumerPlaysPendingRequest(t *testing.T) {
	requests := state.NewRequestFile(filepath.Join(t.TempDir(), "play_request.json"))
	player := &fakePlayer{}
	consumer := NewQueueConsumer(requests, player, &sync.Mutex{}, time.Second)

	consumer.Poll()
	assert.Empty(t, player.plays, "no request, no play")

	require.NoError(t, requests.Put(model.QueuedRequest{
		Timestamp: "2024-01-01T06:00:00Z",
		Call:      "reveille",
		Filepath:  "sounds/reveille.mp3",
	}))

	consumer.Poll()
	assert.Equal(t, []string{"sounds/reveille.mp3"}, player.plays)

	consumer.Poll()
	assert.Len(t, player.plays, 1, "request consumed exactly once")
}
