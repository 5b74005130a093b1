package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/msa3d/config"
	"github.com/pthm-cable/msa3d/game"
	"github.com/pthm-cable/msa3d/voice"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	serverURL := flag.String("server", "", "Shape server WebSocket URL (empty = use config)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and final snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stdinVoice := flag.Bool("stdin-voice", false, "Treat each stdin line as a spoken transcript")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := game.Options{
		Seed:           rngSeed,
		Headless:       *headless,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		ServerURL:      *serverURL,
		Logger:         logger,
	}
	if *stdinVoice {
		opts.Recognizer = voice.NewLineRecognizer(os.Stdin)
	}

	if *headless {
		// Headless mode: no raylib, ticks paced at the configured frame rate
		g := game.NewGameWithOptions(opts)
		defer g.Unload()
		g.Start(ctx)

		slog.Info("starting headless viewer",
			"seed", rngSeed,
			"max_ticks", *maxTicks,
		)

		ticker := time.NewTicker(time.Duration(cfg.Derived.DT * float64(time.Second)))
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("shutting down", "tick", g.Tick())
				return
			case <-ticker.C:
			}

			g.UpdateHeadless()

			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick())
				return
			}
		}
	}

	// Graphical mode
	if cfg.Screen.Resizable {
		rl.SetConfigFlags(rl.FlagWindowResizable)
	}
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "MSA3D")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGameWithOptions(opts)
	defer g.Unload()
	g.Start(ctx)

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}
