package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/paulmach/orb"

	"globed/internal/api"
	"globed/pkg/animator"
	"globed/pkg/audio"
	"globed/pkg/camera"
	"globed/pkg/config"
	"globed/pkg/engine"
	"globed/pkg/geo"
	"globed/pkg/geom"
	"globed/pkg/logging"
	"globed/pkg/picking"
	"globed/pkg/route"
	"globed/pkg/tracker"
	"globed/pkg/version"
)

var (
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
	configPath = flag.String("config", "configs/globed.yaml", "Path to config file")
)

func main() {
	flag.Parse()

	// Handle --init-config flag
	if *initConfig {
		if err := config.GenerateDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config file generated: %s\n", *configPath)
		return
	}

	if err := run(context.Background(), *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// .env is optional; it only exists to override the listen address in
	// development.
	_ = godotenv.Load()

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if addr := os.Getenv("GLOBED_ADDR"); addr != "" {
		appCfg.Server.Address = addr
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("Globed Started", "version", version.Version)

	table, err := buildTable(appCfg)
	if err != nil {
		return err
	}

	model := route.New(table, appCfg.Route.Tour, route.Params{
		LiftRatio:   appCfg.Globe.ArcLiftRatio,
		SampleCount: appCfg.Globe.ArcSampleCount,
		PhaseStep:   appCfg.Globe.PhaseStep,
		PinLift:     appCfg.Globe.PinLift,
	}, slog.With("component", "route"))

	scene := model.Build(appCfg.Globe.Radius)
	slog.Info("Scene built", "arcs", len(scene.Arcs), "pins", len(scene.Pins), "groundKm", int(scene.GroundKm))

	anim := animator.New(scene, animator.Params{
		DashRate:        appCfg.Animation.DashRate,
		CometSpeed:      appCfg.Animation.CometSpeed,
		CometSpacing:    appCfg.Animation.CometSpacing,
		TrailCount:      appCfg.Animation.CometTrail,
		WobbleAmplitude: appCfg.Animation.WobbleAmplitude,
		PulseAmplitude:  appCfg.Animation.PulseAmplitude,
		PulseRate:       appCfg.Animation.PulseRate,
	})

	picks := picking.New(scene)

	focusCtrl := camera.New(camera.Params{
		Distance:     appCfg.Camera.Distance,
		InwardFactor: appCfg.Camera.InwardFactor,
		DampingBase:  appCfg.Camera.DampingBase,
		Epsilon:      appCfg.Camera.Epsilon,
	}, camera.Pose{
		Position: geom.Vec3{Z: appCfg.Camera.Distance},
	})

	stats := tracker.New()

	interval := time.Second / time.Duration(appCfg.Server.TickRate)
	eng := engine.New(model, anim, picks, focusCtrl, stats, appCfg.Globe.Radius, interval, slog.With("component", "engine"))

	// Audio cues are a pure listener on the picking boundary; they never
	// feed anything back into the engine.
	cues := audio.NewCues(&appCfg.Audio)
	picks.OnHover(func(name string, _, _ float64) {
		if name != "" {
			cues.Hover()
		}
	})
	picks.OnSelect(func(picking.SelectEvent) {
		cues.Select()
	})

	stateH := api.NewStateHandler(focusCtrl.Pose())
	streamH := api.NewStreamHandler(stats)
	eng.AddSink(stateH)
	eng.AddSink(streamH)

	go eng.Run(ctx)

	return runServer(ctx, appCfg, model, picks, stateH, streamH, stats)
}

func buildTable(cfg *config.Config) (*geo.Table, error) {
	waypoints := make([]geo.Waypoint, 0, len(cfg.Route.Waypoints))
	for _, w := range cfg.Route.Waypoints {
		waypoints = append(waypoints, geo.Waypoint{
			Name:  w.Name,
			Coord: orb.Point{w.Lon, w.Lat},
		})
	}
	table, err := geo.NewTable(waypoints)
	if err != nil {
		return nil, fmt.Errorf("invalid waypoint table: %w", err)
	}
	return table, nil
}

func runServer(ctx context.Context, cfg *config.Config, model *route.Model, picks *picking.Controller, stateH *api.StateHandler, streamH *api.StreamHandler, stats *tracker.Tracker) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	shutdownFunc := func() { quit <- syscall.SIGTERM }

	srv := api.NewServer(cfg.Server.Address,
		api.NewSceneHandler(model, cfg.Globe.Radius),
		stateH,
		api.NewPickHandler(picks, stats),
		streamH,
		api.NewStatsHandler(stats),
		shutdownFunc,
	)

	srv.Handler = loggingMiddleware(srv.Handler)
	return runServerLifecycle(ctx, srv, quit)
}

func runServerLifecycle(ctx context.Context, srv *http.Server, quit chan os.Signal) error {
	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.RequestLogger.Info("Request Processed", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
