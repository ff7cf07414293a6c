package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/garrisonlabs/bugle/internal/config"
	"github.com/garrisonlabs/bugle/internal/engine"
	"github.com/garrisonlabs/bugle/internal/http/api"
	"github.com/garrisonlabs/bugle/internal/http/api/calls/endpoints"
	"github.com/garrisonlabs/bugle/internal/http/middleware"
	"github.com/garrisonlabs/bugle/internal/schedule"
	"github.com/garrisonlabs/bugle/internal/state"
)

// RegisterRoutes sets up the control-surface routes.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, clock engine.Clock,
	schedules *schedule.Store, states *state.Store, requests *state.RequestFile) {

	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			middleware.HeaderAPIToken,
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Auth:  true,
		Token: cfg.APIToken,
	},
		endpoints.CallsModule(clock, schedules, states, requests),
	)
}
