package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"

	"github.com/garrisonlabs/bugle/internal/audio"
	"github.com/garrisonlabs/bugle/internal/config"
	"github.com/garrisonlabs/bugle/internal/engine"
	"github.com/garrisonlabs/bugle/internal/schedule"
	"github.com/garrisonlabs/bugle/internal/state"
)

func main() {
	app := cli.NewApp()
	app.Name = "bugled"
	app.Usage = "plays bugle calls on a daily weekday/weekend schedule"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config, c",
			Value:  "schedule.yaml",
			Usage:  "path to the schedule document",
			EnvVar: "BUGLE_CONFIG",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "serve",
			Usage:  "run the scheduling engine and control API",
			Action: runServe,
		},
		{
			Name:      "play",
			Usage:     "play a single clip and exit, bypassing the scheduler",
			ArgsUsage: "<filepath>",
			Flags: []cli.Flag{
				cli.Float64Flag{
					Name:  "volume",
					Value: 1.0,
					Usage: "playback volume (0.0 to 1.0)",
				},
				cli.StringFlag{
					Name:  "player",
					Value: "mpg123",
					Usage: "audio player command",
				},
			},
			Action: runPlay,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("bugled exited")
	}
}

func runServe(ctx *cli.Context) error {
	env := LoadEnvironment()

	cfg, err := config.Load(ctx.GlobalString("config"))
	if err != nil {
		return err
	}
	env.Apply(cfg)
	initLogging(cfg.LogFile)

	if cfg.APIToken == "" {
		return errors.New("api_token is required (config or BUGLE_API_TOKEN)")
	}

	schedules := schedule.NewStore(cfg)
	states := state.NewStore(cfg.StateFile)
	requests := state.NewRequestFile(cfg.RequestFile)
	player := audio.NewExecPlayer(cfg.PlayerCommand)
	clock := engine.NewClock(cfg.Location())

	// The audio device is exclusive; the loop and the queue consumer
	// share one lock around playback.
	var playMu sync.Mutex

	coldStart := engine.IsColdStart(cfg.ColdStartWindow())
	loop := engine.NewLoop(clock, schedules, states, player, &playMu, cfg.Tick(), coldStart)
	consumer := engine.NewQueueConsumer(requests, player, &playMu, cfg.Tick())

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Shutdown must wait for both: an in-flight firing finishes its
	// clip and records the played mark before the process exits.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		loop.Run(runCtx)
	}()
	go func() {
		defer wg.Done()
		consumer.Run(runCtx)
	}()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	RegisterRoutes(router, cfg, clock, schedules, states, requests)

	srv := &http.Server{Addr: cfg.ListenAddress, Handler: router}
	go func() {
		log.Info().Str("address", cfg.ListenAddress).Msg("control surface listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("control surface stopped")
			stop()
		}
	}()

	<-runCtx.Done()
	log.Info().Msg("shutting down")
	err = srv.Shutdown(context.Background())
	wg.Wait()
	return err
}

func runPlay(ctx *cli.Context) error {
	initLogging("")

	clipPath := ctx.Args().First()
	if clipPath == "" {
		return errors.New("no file provided")
	}

	player := audio.NewExecPlayer(ctx.String("player"))
	volume := ctx.Float64("volume")
	log.Info().Str("file", clipPath).Float64("volume", volume).Msg("manual playback")
	return player.Play(clipPath, volume)
}

func initLogging(logFile string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if logFile == "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		return
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		log.Warn().Err(err).Str("path", logFile).Msg("cannot open log file, logging to stderr")
		return
	}
	log.Logger = log.Output(f)
}
