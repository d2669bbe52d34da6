package sim

import (
	"math/rand"

	"github.com/pthm-cable/fieldsim/config"
)

// StepStats summarizes one frame for telemetry. Deactivations are
// bucketed by cause; spawns dropped on a full pool are policy, not
// errors. DT is the clamped step size, so consumers can accumulate
// simulated time without re-applying the clamp.
type StepStats struct {
	DT          float64
	Spawned     int
	Dropped     int
	Deactivated [5]int // indexed by DeactivationCause
	Active      int
}

// PhaseTimer receives phase boundary marks during a step. Implemented
// by telemetry's perf collector; nil disables instrumentation.
type PhaseTimer interface {
	StartPhase(name string)
}

// Engine owns the pool and runs one simulation step per rendered frame.
// All pool state is exclusively mutated here; the engine is
// single-threaded and frame-synchronous by design.
type Engine struct {
	cfg     *config.Config
	pool    *Pool
	spawner *Spawner
	rng     *rand.Rand

	buf   *InstanceBuffer
	trail *TrailBuffer

	timer PhaseTimer
	frame int64
}

// NewEngine creates an engine with a pool sized from the config.
func NewEngine(cfg *config.Config, rng *rand.Rand) *Engine {
	capacity := cfg.Pool.Capacity
	return &Engine{
		cfg:     cfg,
		pool:    NewPool(capacity),
		spawner: NewSpawner(cfg),
		rng:     rng,
		buf:     NewInstanceBuffer(capacity),
		trail:   NewTrailBuffer(cfg.Trail.Depth, capacity),
	}
}

// SetPhaseTimer installs a per-phase timing hook.
func (e *Engine) SetPhaseTimer(t PhaseTimer) {
	e.timer = t
}

// Pool exposes the particle pool for inspection and tests.
func (e *Engine) Pool() *Pool {
	return e.pool
}

// Buffer returns the current frame's instance buffer. Valid until the
// next Step call.
func (e *Engine) Buffer() *InstanceBuffer {
	return e.buf
}

// Trail returns the lagged ghost buffers.
func (e *Engine) Trail() *TrailBuffer {
	return e.trail
}

// Frame returns the number of completed steps.
func (e *Engine) Frame() int64 {
	return e.frame
}

// Step advances the simulation by dt seconds (clamped to the configured
// delta bound) and rewrites the instance buffer. The neighborhood scan
// runs once per frame, not per particle; the trapped count is only
// computed for Attract mode because no other law reads it.
func (e *Engine) Step(dt float64, params Params) StepStats {
	var stats StepStats

	if dt < 0 {
		dt = 0
	}
	if dt > e.cfg.Bounds.DeltaClamp {
		dt = e.cfg.Bounds.DeltaClamp
	}
	stats.DT = dt

	e.markPhase("buffer")
	// Record the previous frame before overwriting it.
	e.trail.push(e.buf)

	e.markPhase("spawn")
	stats.Spawned, stats.Dropped = e.spawner.Update(dt, params, e.pool, e.rng)

	e.markPhase("neighborhood")
	nb := Neighborhood{ActiveCount: e.pool.ActiveCount()}
	if params.Mode == ModeAttract {
		nb.TrappedCount = e.pool.CountActiveWithin(e.cfg.Derived.TrappedRadiusSq)
	}

	e.markPhase("forces")
	for i := 0; i < e.pool.Capacity(); i++ {
		p := e.pool.At(i)
		if !p.Active {
			e.buf.hide(i)
			continue
		}

		alive := stepMode(e.cfg, params.Mode, p, nb, dt, e.rng)

		cause := CauseNone
		if !alive {
			cause = CauseModeTerminal
		} else {
			cause = checkBounds(e.cfg, p)
		}

		if cause != CauseNone {
			p.Active = false
			stats.Deactivated[cause]++
			e.buf.hide(i)
			continue
		}

		p.Age += dt
		e.buf.set(i, p)
		stats.Active++
	}

	e.frame++
	return stats
}

func (e *Engine) markPhase(name string) {
	if e.timer != nil {
		e.timer.StartPhase(name)
	}
}
