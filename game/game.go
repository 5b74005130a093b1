// Package game runs the viewer: it owns the particle field and connects it
// to the shape server, the voice listener, the clock and the UI.
package game

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/pthm-cable/msa3d/audio"
	"github.com/pthm-cable/msa3d/channel"
	"github.com/pthm-cable/msa3d/clock"
	"github.com/pthm-cable/msa3d/config"
	"github.com/pthm-cable/msa3d/field"
	"github.com/pthm-cable/msa3d/inspector"
	"github.com/pthm-cable/msa3d/protocol"
	"github.com/pthm-cable/msa3d/renderer"
	"github.com/pthm-cable/msa3d/telemetry"
	"github.com/pthm-cable/msa3d/ui"
	"github.com/pthm-cable/msa3d/voice"
)

// ShapeChannel is the game's connection to the shape server.
type ShapeChannel interface {
	Run(ctx context.Context) error
	Send(req protocol.Request) error
	Inbox() <-chan protocol.Response
	Status() channel.Status
}

// Options configures a game.
type Options struct {
	Config         *config.Config // nil uses config.Cfg()
	Seed           int64
	Headless       bool
	LogStats       bool
	StatsWindowSec float64 // 0 uses config
	OutputDir      string  // empty disables CSV output
	ServerURL      string  // empty uses config

	// Channel overrides the WebSocket client.
	Channel ShapeChannel
	// Recognizer enables wake phrase detection. nil disables voice.
	Recognizer voice.Recognizer
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Game holds the complete viewer state.
type Game struct {
	cfg    *config.Config
	rng    *rand.Rand
	seed   int64
	logger *slog.Logger

	field     *field.Field
	particles []field.Particle // Snapshot reused every frame

	channel  ShapeChannel
	listener *voice.Listener
	clock    *clock.Clock
	chime    *audio.Chime

	// Rendering (nil in headless mode)
	background *renderer.BackgroundRenderer
	dots       *renderer.ParticleRenderer
	hud        *ui.HUD
	perfPanel  *ui.PerfPanel
	inspector  *inspector.Inspector

	shapeBar *ui.ShapeBar
	legend   string

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	sample        telemetry.FieldSample
	logStats      bool

	// Last applied shape
	shape  string
	points int

	voiceLine string

	// State
	tick          int32
	headless      bool
	width, height float32

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewGameWithOptions creates a game. Call Start to connect it.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	g := &Game{
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(opts.Seed)),
		seed:     opts.Seed,
		logger:   logger,
		headless: opts.Headless,
		logStats: opts.LogStats,
		width:    cfg.Derived.ScreenW32,
		height:   cfg.Derived.ScreenH32,
		shapeBar: ui.NewShapeBar(cfg.Client.Shapes),
		legend:   ui.ControlsLegend(cfg.Client.Shapes),
		clock:    clock.New(cfg.Clock, nil),
	}

	g.field = field.New(cfg.Field, g.rng)
	g.field.Reset(g.width, g.height)

	g.channel = opts.Channel
	if g.channel == nil {
		chCfg := cfg.Channel
		if opts.ServerURL != "" {
			chCfg.URL = opts.ServerURL
		}
		g.channel = channel.New(chCfg, logger.With("component", "channel"))
	}

	if opts.Recognizer != nil && cfg.Voice.Enabled {
		g.listener = voice.NewListener(opts.Recognizer, cfg.Voice, cfg.Derived.WakePhrases, logger.With("component", "voice"))
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	g.collector = telemetry.NewCollector(statsWindow, float32(cfg.Derived.DT))
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		logger.Error("failed to create output manager", "error", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		logger.Error("failed to write config", "error", err)
	}

	if !g.headless {
		g.background = renderer.DefaultBackground()
		g.dots = renderer.NewParticleRenderer()
		g.hud = ui.NewHUD()
		g.perfPanel = ui.NewPerfPanel(10, 80)
		g.inspector = inspector.NewInspector(int32(g.width))
		g.chime = audio.NewChime(cfg.Audio, logger.With("component", "audio"))
		if err := g.chime.Initialize(); err != nil {
			logger.Warn("chime disabled", "error", err)
		}
	}

	return g
}

// Start launches the channel, voice and clock goroutines. They run until
// Unload or until ctx is cancelled.
func (g *Game) Start(ctx context.Context) {
	ctx, g.cancel = context.WithCancel(ctx)

	g.spawn(func() error { return g.channel.Run(ctx) })
	g.spawn(func() error { return g.clock.Run(ctx) })
	if g.listener != nil {
		g.spawn(func() error { return g.listener.Run(ctx) })
	}

	g.logger.Info("viewer started",
		"seed", g.seed,
		"particles", g.field.Len(),
		"width", g.width,
		"height", g.height,
		"voice", g.listener != nil,
	)
}

func (g *Game) spawn(run func() error) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		run()
	}()
}

// Unload stops background goroutines and releases resources.
func (g *Game) Unload() {
	if g.cancel != nil {
		g.cancel()
		g.wg.Wait()
	}
	if g.outputManager != nil {
		g.saveSnapshot()
		if err := g.outputManager.Close(); err != nil {
			g.logger.Error("failed to close output", "error", err)
		}
	}
	if g.chime != nil {
		g.chime.Close()
	}
}

// Tick returns the current tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Field returns the particle field.
func (g *Game) Field() *field.Field {
	return g.field
}

// Shape returns the name of the last shape applied to the field.
func (g *Game) Shape() string {
	return g.shape
}

// SelectedShape returns the shape sent with wake and shape requests.
func (g *Game) SelectedShape() string {
	if s := g.shapeBar.Selected(); s != "" {
		return s
	}
	return g.cfg.Shape.Default
}
