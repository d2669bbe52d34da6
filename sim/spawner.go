package sim

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fieldsim/config"
)

// Spawner is a timer-driven admission controller. It accumulates frame
// time and places one particle into a free slot each time the scheduled
// interval elapses. A full pool silently drops the spawn; the timer
// resets either way.
type Spawner struct {
	cfg      *config.Config
	accum    float64
	interval float64 // seconds until the next spawn; 0 = not yet scheduled
}

// NewSpawner creates a spawner using the config's spawn parameters.
func NewSpawner(cfg *config.Config) *Spawner {
	return &Spawner{cfg: cfg}
}

// Interval returns the currently scheduled spawn interval in seconds.
func (s *Spawner) Interval() float64 {
	return s.interval
}

// Update advances the spawn timer by dt and admits at most one particle.
// Returns (spawned, dropped) counts for telemetry. A non-positive spawn
// rate disables spawning entirely; no state advances.
func (s *Spawner) Update(dt float64, params Params, pool *Pool, rng *rand.Rand) (spawned, dropped int) {
	if params.SpawnRate <= 0 {
		return 0, 0
	}

	if s.interval <= 0 {
		s.interval = s.schedule(params.SpawnRate, rng)
	}

	s.accum += dt
	if s.accum < s.interval {
		return 0, 0
	}

	// Timer fires: reset and reschedule regardless of pool state.
	s.accum = 0
	s.interval = s.schedule(params.SpawnRate, rng)

	idx, ok := pool.FindFreeSlot()
	if !ok {
		return 0, 1
	}
	s.spawnInto(pool.At(idx), params, rng)
	return 1, 0
}

// schedule returns 1/rate with uniform fractional jitter applied.
func (s *Spawner) schedule(rate float64, rng *rand.Rand) float64 {
	base := 1 / rate
	j := s.cfg.Spawn.IntervalJitter
	return base * (1 + (rng.Float64()*2-1)*j)
}

// spawnInto overwrites every field of the slot before activating it.
// Slots are reused without clearing, so nothing stale may survive.
func (s *Spawner) spawnInto(p *Particle, params Params, rng *rand.Rand) {
	sc := &s.cfg.Spawn

	theta := rng.Float64() * 2 * math.Pi
	pos := r3.Vec{
		X: math.Cos(theta) * sc.Radius,
		Y: (rng.Float64()*2 - 1) * sc.HeightJitter,
		Z: math.Sin(theta) * sc.Radius,
	}
	if !finiteVec(pos) {
		pos = r3.Vec{X: sc.Radius}
	}

	dir := r3.Vec{X: -1}
	if n := r3.Norm(pos); n > 0 {
		dir = r3.Scale(-1/n, pos)
	}
	minSpeed, maxSpeed := params.MinSpeed, params.MaxSpeed
	if maxSpeed < minSpeed {
		maxSpeed = minSpeed
	}
	speed := minSpeed + rng.Float64()*(maxSpeed-minSpeed)

	p.Pos = pos
	p.Vel = r3.Scale(speed, dir)
	p.Scale = 1.0
	p.Age = 0
	p.Color = SpawnColor(params.Theme, rng)
	p.Active = true
}
