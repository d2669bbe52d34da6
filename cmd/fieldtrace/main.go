// Fieldtrace runs a single particle through a chosen force mode and
// dumps its per-frame trajectory as CSV. Useful for tuning mode
// parameters without launching the full visualizer.
//
// Usage: go run ./cmd/fieldtrace -mode attract -frames 300 -out trace.csv
package main

import (
	"flag"
	"log/slog"
	"math"
	"math/rand"
	"os"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fieldsim/config"
	"github.com/pthm-cable/fieldsim/sim"
)

const dt = 1.0 / 60.0

// TraceRow is one frame of the traced particle's state.
type TraceRow struct {
	Frame    int     `csv:"frame"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	Z        float64 `csv:"z"`
	Distance float64 `csv:"distance"`
	Speed    float64 `csv:"speed"`
	Scale    float64 `csv:"scale"`
	Active   bool    `csv:"active"`
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	modeName := flag.String("mode", "attract", "Field mode: neutral, attract, repulse, hollow")
	frames := flag.Int("frames", 300, "Number of frames to trace")
	speed := flag.Float64("speed", 10, "Initial inward speed")
	seed := flag.Int64("seed", 42, "RNG seed")
	out := flag.String("out", "trace.csv", "Output CSV path")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	engine := sim.NewEngine(cfg, rand.New(rand.NewSource(*seed)))

	// Place one particle at the spawn shell moving straight inward;
	// spawn rate 0 keeps the pool otherwise empty.
	p := engine.Pool().At(0)
	p.Pos = r3.Vec{X: cfg.Spawn.Radius}
	p.Vel = r3.Vec{X: -*speed}
	p.Scale = 1.0
	p.Age = 0
	p.Color = sim.Color{R: 255, G: 255, B: 255, A: 255}
	p.Active = true

	params := sim.Params{
		Mode:      sim.ParseMode(*modeName),
		SpawnRate: 0,
		MinSpeed:  *speed,
		MaxSpeed:  *speed,
	}

	rows := trace(engine, p, params, *frames)

	file, err := os.Create(*out)
	if err != nil {
		slog.Error("creating output file", "error", err)
		os.Exit(1)
	}
	defer file.Close()

	if err := gocsv.Marshal(rows, file); err != nil {
		slog.Error("writing trace", "error", err)
		os.Exit(1)
	}

	attrs := []any{"mode", params.Mode.String(), "frames", len(rows)}
	if len(rows) > 0 {
		last := rows[len(rows)-1]
		attrs = append(attrs,
			"final_distance", round3(last.Distance),
			"final_scale", round3(last.Scale),
			"active", last.Active,
		)
	}
	slog.Info("trace complete", attrs...)
}

// trace steps the engine and records the particle's state after each
// frame, stopping early once the particle deactivates.
func trace(engine *sim.Engine, p *sim.Particle, params sim.Params, frames int) []TraceRow {
	if frames < 0 {
		frames = 0
	}
	rows := make([]TraceRow, 0, frames)
	for f := 0; f < frames; f++ {
		engine.Step(dt, params)
		rows = append(rows, TraceRow{
			Frame:    f + 1,
			X:        p.Pos.X,
			Y:        p.Pos.Y,
			Z:        p.Pos.Z,
			Distance: r3.Norm(p.Pos),
			Speed:    r3.Norm(p.Vel),
			Scale:    p.Scale,
			Active:   p.Active,
		})
		if !p.Active {
			break
		}
	}
	return rows
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
