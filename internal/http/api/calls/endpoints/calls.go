package endpoints

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/garrisonlabs/bugle/internal/engine"
	"github.com/garrisonlabs/bugle/internal/http/api"
	"github.com/garrisonlabs/bugle/internal/http/api/calls/packets"
	"github.com/garrisonlabs/bugle/internal/model"
	"github.com/garrisonlabs/bugle/internal/schedule"
	"github.com/garrisonlabs/bugle/internal/state"
)

type CallsController struct {
	clock     engine.Clock
	schedules *schedule.Store
	states    *state.Store
	requests  *state.RequestFile
}

func NewCallsController(clock engine.Clock, schedules *schedule.Store,
	states *state.Store, requests *state.RequestFile) *CallsController {
	return &CallsController{clock: clock, schedules: schedules, states: states, requests: requests}
}

// CallsModule mounts the control-surface endpoints.
func CallsModule(clock engine.Clock, schedules *schedule.Store,
	states *state.Store, requests *state.RequestFile) api.Module {
	ctl := NewCallsController(clock, schedules, states, requests)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/status", ctl.status)
		c.GET("/schedule", ctl.todaySchedule)
		c.POST("/play", ctl.play)
	})
}

// GET /status
// Reads through the state store each time; never holds a copy, so the
// response is at worst one tick stale.
func (cc *CallsController) status(ctx *gin.Context) (any, *api.Error) {
	return cc.states.Load(cc.clock.Now()), nil
}

// GET /schedule
func (cc *CallsController) todaySchedule(ctx *gin.Context) (any, *api.Error) {
	now := cc.clock.Now()
	profile := cc.schedules.ActiveProfile(now)

	response := packets.ScheduleResponse{
		Profile: profile.Name,
		Date:    now.Format(model.DateLayout),
		Calls:   make([]packets.CallResponse, 0, len(profile.Calls)),
	}
	for _, def := range profile.SortedCalls() {
		response.Calls = append(response.Calls, packets.CallResponse{
			Name:      def.Name,
			Time:      def.Time,
			AudioFile: def.AudioFile,
		})
	}
	return response, nil
}

// POST /play
// Validates the call against today's profile and its clip on disk, then
// records a queued request for the out-of-band consumer. Never plays
// inline and never touches played_calls.
func (cc *CallsController) play(ctx *gin.Context) (any, *api.Error) {
	var request packets.PlayRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: err.Error()}
	}

	now := cc.clock.Now()
	profile := cc.schedules.ActiveProfile(now)
	def, ok := profile.Calls[request.Call]
	if !ok {
		return nil, &api.Error{Code: http.StatusNotFound,
			Message: "'" + request.Call + "' is not in today's schedule"}
	}
	if _, err := os.Stat(def.AudioFile); err != nil {
		return nil, &api.Error{Code: http.StatusNotFound,
			Message: "file not found: " + def.AudioFile}
	}

	queued := model.QueuedRequest{
		Timestamp: now.Format(time.RFC3339),
		Call:      def.Name,
		Filepath:  def.AudioFile,
	}
	if err := cc.requests.Put(queued); err != nil {
		log.Error().Err(err).Str("call", def.Name).Msg("failed to write play request")
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "internal error"}
	}
	return packets.QueuedResponse{Status: "queued", Call: def.Name}, nil
}
