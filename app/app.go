// Package app wires the simulation engine, rendering sink, control
// panel, and telemetry into one per-frame update loop.
package app

import (
	"log/slog"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fieldsim/config"
	"github.com/pthm-cable/fieldsim/renderer"
	"github.com/pthm-cable/fieldsim/sim"
	"github.com/pthm-cable/fieldsim/telemetry"
	"github.com/pthm-cable/fieldsim/ui"
)

// nominalDT is the headless step size; graphical mode uses the real
// frame clock instead.
const nominalDT = 1.0 / 60.0

// Options configure app construction.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
	InitialMode    sim.Mode
	InitialRate    float64
}

// App holds the complete application state.
type App struct {
	cfg    *config.Config
	engine *sim.Engine
	params sim.Params

	scene *renderer.Scene
	panel *ui.Panel

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager

	logStats       bool
	paused         bool
	stepsPerUpdate int

	ageScratch []float64
}

// New creates the app. Graphics must already be initialized unless
// opts.Headless is set.
func New(opts Options) *App {
	cfg := config.Cfg()
	rng := rand.New(rand.NewSource(opts.Seed))

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}

	rate := opts.InitialRate
	if rate <= 0 {
		rate = cfg.Spawn.DefaultRate
	}

	a := &App{
		cfg:    cfg,
		engine: sim.NewEngine(cfg, rng),
		params: sim.Params{
			Mode:      opts.InitialMode,
			SpawnRate: rate,
			MinSpeed:  cfg.Spawn.MinSpeed,
			MaxSpeed:  cfg.Spawn.MaxSpeed,
			Theme:     sim.ThemeEmber,
		},
		collector:      telemetry.NewCollector(statsWindow),
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:       opts.LogStats,
		stepsPerUpdate: stepsPerUpdate,
		ageScratch:     make([]float64, 0, cfg.Pool.Capacity),
	}
	a.engine.SetPhaseTimer(a.perf)

	if !opts.Headless {
		a.scene = renderer.NewScene(cfg)
		a.panel = ui.NewPanel(float32(cfg.Screen.Width)-280, 20)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("output manager disabled", "error", err)
	} else if om != nil {
		a.output = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Warn("failed to snapshot config", "error", err)
		}
	}

	return a
}

// Params returns the current simulation parameters.
func (a *App) Params() sim.Params {
	return a.params
}

// Frame returns the number of completed simulation steps.
func (a *App) Frame() int64 {
	return a.engine.Frame()
}

// Update runs input handling and simulation steps for one rendered frame.
func (a *App) Update() {
	a.handleInput()

	if a.paused {
		return
	}

	dt := float64(rl.GetFrameTime())
	for i := 0; i < a.stepsPerUpdate; i++ {
		a.step(dt)
	}
}

// UpdateHeadless runs simulation steps at the nominal frame rate without
// any graphics dependency.
func (a *App) UpdateHeadless() {
	for i := 0; i < a.stepsPerUpdate; i++ {
		a.step(nominalDT)
	}
}

// step advances the engine one frame and feeds telemetry.
func (a *App) step(dt float64) {
	a.perf.StartFrame()

	stats := a.engine.Step(dt, a.params)

	a.perf.StartPhase(telemetry.PhaseTelemetry)
	a.collector.RecordStep(stats)
	if a.collector.ShouldFlush() {
		a.flushWindow(stats.Active)
	}

	a.perf.EndFrame()
}

// flushWindow emits one telemetry window to slog and CSV.
func (a *App) flushWindow(active int) {
	w := a.collector.Flush(a.engine.Frame(), active, a.particleAges(), a.params.Mode)

	if a.logStats {
		slog.Info("window", "stats", w)
		slog.Info("perf", "stats", a.perf.Stats())
	}
	if a.output != nil {
		if err := a.output.WriteTelemetry(w); err != nil {
			slog.Warn("telemetry write failed", "error", err)
		}
		if err := a.output.WritePerf(a.perf.Stats(), a.engine.Frame()); err != nil {
			slog.Warn("perf write failed", "error", err)
		}
	}
}

// particleAges collects the ages of live particles into a reused slice.
func (a *App) particleAges() []float64 {
	a.ageScratch = a.ageScratch[:0]
	pool := a.engine.Pool()
	for i := 0; i < pool.Capacity(); i++ {
		if p := pool.At(i); p.Active {
			a.ageScratch = append(a.ageScratch, p.Age)
		}
	}
	return a.ageScratch
}

// Unload releases resources.
func (a *App) Unload() {
	if a.scene != nil {
		a.scene.Unload()
	}
	if a.output != nil {
		if err := a.output.Close(); err != nil {
			slog.Warn("closing output", "error", err)
		}
	}
}
