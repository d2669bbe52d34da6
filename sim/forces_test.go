package sim

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fieldsim/config"
)

const testDT = 1.0 / 60.0

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading default config: %v", err)
	}
	return cfg
}

func testParticle(pos, vel r3.Vec) *Particle {
	return &Particle{
		Active: true,
		Pos:    pos,
		Vel:    vel,
		Scale:  1.0,
	}
}

func TestNeutralOutsideFieldIsPlainIntegration(t *testing.T) {
	cfg := testConfig(t)
	rng := rand.New(rand.NewSource(1))

	p := testParticle(r3.Vec{X: 10}, r3.Vec{X: -6})
	stepNeutral(cfg, p, Neighborhood{}, testDT, rng)

	want := 10 - 6*testDT
	if math.Abs(p.Pos.X-want) > 1e-12 {
		t.Errorf("Pos.X = %v, want %v", p.Pos.X, want)
	}
	if p.Pos.Y != 0 || p.Pos.Z != 0 {
		t.Errorf("Pos drifted off-axis: %+v", p.Pos)
	}
}

func TestNeutralHaltsAtStoppingRadius(t *testing.T) {
	cfg := testConfig(t)
	rng := rand.New(rand.NewSource(1))

	// At exactly the stopping radius the speed factor bottoms out at
	// the minimum, so displacement is vanishingly small but nonzero.
	speed := 10.0
	p := testParticle(r3.Vec{X: cfg.Neutral.StoppingRadius}, r3.Vec{X: -speed})
	stepNeutral(cfg, p, Neighborhood{}, testDT, rng)

	moved := math.Abs(p.Pos.X - cfg.Neutral.StoppingRadius)
	want := speed * testDT * cfg.Neutral.MinSpeedFactor
	if math.Abs(moved-want) > 1e-9 {
		t.Errorf("displacement = %v, want %v (min speed factor)", moved, want)
	}
}

func TestNeutralInsideStoppingRadiusNeverReverses(t *testing.T) {
	cfg := testConfig(t)
	rng := rand.New(rand.NewSource(7))

	// Below the stopping radius the ratio is clamped to zero, so the
	// cubic cannot go negative and push the particle outward faster.
	p := testParticle(r3.Vec{X: cfg.Neutral.StoppingRadius * 0.5}, r3.Vec{X: -20})
	before := p.Pos.X
	stepNeutral(cfg, p, Neighborhood{}, testDT, rng)

	moved := math.Abs(p.Pos.X - before)
	if moved > 20*testDT*cfg.Neutral.MinSpeedFactor+1e-9 {
		t.Errorf("moved %v inside stopping radius, want at most min-factor crawl", moved)
	}
}

func TestNeutralCrowdShrink(t *testing.T) {
	cfg := testConfig(t)
	rng := rand.New(rand.NewSource(1))

	// Deep in the field with a crowded pool, scale shrinks fast.
	dist := cfg.Neutral.StoppingRadius + 0.05*(cfg.Neutral.InteractionRadius-cfg.Neutral.StoppingRadius)
	p := testParticle(r3.Vec{X: dist}, r3.Vec{})
	nb := Neighborhood{ActiveCount: cfg.Neutral.CrowdCount + 1}

	stepNeutral(cfg, p, nb, testDT, rng)
	if math.Abs(p.Scale-cfg.Neutral.CrowdShrink) > 1e-12 {
		t.Errorf("Scale = %v, want crowd shrink %v", p.Scale, cfg.Neutral.CrowdShrink)
	}

	// Same spot without the crowd: the slower idle shrink applies.
	p2 := testParticle(r3.Vec{X: dist}, r3.Vec{})
	stepNeutral(cfg, p2, Neighborhood{ActiveCount: 1}, testDT, rng)
	if math.Abs(p2.Scale-cfg.Neutral.IdleShrink) > 1e-12 {
		t.Errorf("Scale = %v, want idle shrink %v", p2.Scale, cfg.Neutral.IdleShrink)
	}
}

func TestAttractPullsInward(t *testing.T) {
	cfg := testConfig(t)
	rng := rand.New(rand.NewSource(1))

	p := testParticle(r3.Vec{X: cfg.Attract.Radius - 1}, r3.Vec{})
	alive := stepAttract(cfg, p, Neighborhood{}, testDT, rng)

	if !alive {
		t.Fatal("particle should survive a single attract step")
	}
	if p.Vel.X >= 0 {
		t.Errorf("Vel.X = %v, want inward (negative)", p.Vel.X)
	}
}

func TestAttractDampingNearCore(t *testing.T) {
	cfg := testConfig(t)
	rng := rand.New(rand.NewSource(1))

	speed := 12.0
	p := testParticle(r3.Vec{X: cfg.Attract.CoreRadius + 0.5}, r3.Vec{Y: speed})

	stepAttract(cfg, p, Neighborhood{}, testDT, rng)

	// Tangential velocity must be damped; the inward pull only adds an
	// X component.
	want := speed * cfg.Attract.Damping
	if math.Abs(p.Vel.Y-want) > 1e-9 {
		t.Errorf("Vel.Y = %v, want damped %v", p.Vel.Y, want)
	}
}

func TestAttractCrowdShrinkSteepens(t *testing.T) {
	cfg := testConfig(t)
	rng := rand.New(rand.NewSource(1))
	pos := r3.Vec{X: cfg.Attract.CoreRadius * 0.5}

	cases := []struct {
		name    string
		trapped int
		want    float64
	}{
		{"at limit, no shrink", cfg.Attract.TrappedLimit, 1.0},
		{"one over", cfg.Attract.TrappedLimit + 1, 1 - cfg.Attract.ShrinkPerOver},
		{"five over", cfg.Attract.TrappedLimit + 5, 1 - 5*cfg.Attract.ShrinkPerOver},
		{"far over clamps at floor", cfg.Attract.TrappedLimit + 1000, cfg.Attract.ShrinkFloor},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := testParticle(pos, r3.Vec{})
			stepAttract(cfg, p, Neighborhood{TrappedCount: tc.trapped}, testDT, rng)
			if math.Abs(p.Scale-tc.want) > 1e-9 {
				t.Errorf("Scale = %v, want %v", p.Scale, tc.want)
			}
		})
	}
}

func TestAttractDeactivatesBelowScaleThreshold(t *testing.T) {
	cfg := testConfig(t)
	rng := rand.New(rand.NewSource(1))

	p := testParticle(r3.Vec{X: 1}, r3.Vec{})
	p.Scale = cfg.Attract.DeactivateScale * 0.5

	if alive := stepAttract(cfg, p, Neighborhood{}, testDT, rng); alive {
		t.Error("particle below the attract scale threshold should report terminal")
	}
}

func TestRepulseWallBounce(t *testing.T) {
	cfg := testConfig(t)
	rng := rand.New(rand.NewSource(1))
	wall := cfg.Repulse.CoreRadius + cfg.Repulse.WallOffset

	speed := 10.0
	p := testParticle(r3.Vec{X: wall}, r3.Vec{X: -speed})

	stepRepulse(cfg, p, Neighborhood{}, testDT, rng)

	if math.Abs(p.Pos.X-wall) > 1e-9 {
		t.Errorf("Pos.X = %v, want clamped to wall %v", p.Pos.X, wall)
	}
	wantVel := cfg.Repulse.BounceRetain * speed
	if math.Abs(p.Vel.X-wantVel) > 1e-9 {
		t.Errorf("Vel.X = %v, want reflected %v", p.Vel.X, wantVel)
	}
	if p.Vel.Y != 0 || p.Vel.Z != 0 {
		t.Errorf("reflection left off-axis velocity: %+v", p.Vel)
	}
}

func TestRepulseWallNoBounceWhenReceding(t *testing.T) {
	cfg := testConfig(t)
	rng := rand.New(rand.NewSource(1))
	wall := cfg.Repulse.CoreRadius + cfg.Repulse.WallOffset

	// Already moving outward: clamp position but leave velocity alone.
	p := testParticle(r3.Vec{X: wall * 0.9}, r3.Vec{X: 3})
	stepRepulse(cfg, p, Neighborhood{}, testDT, rng)

	if math.Abs(p.Pos.X-wall) > 1e-9 {
		t.Errorf("Pos.X = %v, want clamped to wall %v", p.Pos.X, wall)
	}
	if math.Abs(p.Vel.X-3) > 1e-12 {
		t.Errorf("Vel.X = %v, want unchanged 3", p.Vel.X)
	}
}

func TestRepulseBounceEscapesWall(t *testing.T) {
	cfg := testConfig(t)
	rng := rand.New(rand.NewSource(1))
	wall := cfg.Repulse.CoreRadius + cfg.Repulse.WallOffset

	// After an inelastic bounce the particle keeps 80% of its speed
	// pointing outward; subsequent frames must carry it away from the
	// wall, not re-capture it there.
	p := testParticle(r3.Vec{X: wall}, r3.Vec{X: -10})
	stepRepulse(cfg, p, Neighborhood{}, testDT, rng)

	for i := 0; i < 5; i++ {
		stepRepulse(cfg, p, Neighborhood{}, testDT, rng)
	}

	if d := r3.Norm(p.Pos); d <= wall+1e-9 {
		t.Fatalf("distance %v after bounce, particle still held at wall %v", d, wall)
	}
	if p.Vel.X <= 0 {
		t.Errorf("Vel.X = %v, want outward after bounce", p.Vel.X)
	}

	// Given enough frames the static force pushes it clear of the field.
	for i := 0; i < 300; i++ {
		stepRepulse(cfg, p, Neighborhood{}, testDT, rng)
	}
	if d := r3.Norm(p.Pos); d < cfg.Repulse.Radius {
		t.Errorf("distance %v after 5s, want clear of the field radius %v", d, cfg.Repulse.Radius)
	}
}

func TestRepulseOutwardForceInsideField(t *testing.T) {
	cfg := testConfig(t)
	rng := rand.New(rand.NewSource(1))

	mid := (cfg.Repulse.CoreRadius + cfg.Repulse.Radius) / 2
	p := testParticle(r3.Vec{X: mid}, r3.Vec{X: -5})
	stepRepulse(cfg, p, Neighborhood{}, testDT, rng)

	if p.Vel.X <= -5 {
		t.Errorf("Vel.X = %v, want outward push above -5", p.Vel.X)
	}
}

func TestRepulseOutsideFieldIsInert(t *testing.T) {
	cfg := testConfig(t)
	rng := rand.New(rand.NewSource(1))

	p := testParticle(r3.Vec{X: cfg.Repulse.Radius + 2}, r3.Vec{X: -4})
	stepRepulse(cfg, p, Neighborhood{}, testDT, rng)

	if math.Abs(p.Vel.X+4) > 1e-12 {
		t.Errorf("Vel.X = %v, want unchanged -4", p.Vel.X)
	}
}

func TestHollowSetsBlendedVelocity(t *testing.T) {
	cfg := testConfig(t)
	rng := rand.New(rand.NewSource(1))

	p := testParticle(r3.Vec{X: 8}, r3.Vec{Y: 99}) // stale velocity must be discarded
	stepHollow(cfg, p, Neighborhood{}, testDT, rng)

	speed := r3.Norm(p.Vel)
	wantSpeed := cfg.Hollow.BaseSpeed + cfg.Hollow.SpeedGain*math.Max(1, cfg.Hollow.BaseSpeed-8)
	if math.Abs(speed-wantSpeed) > 1e-9 {
		t.Errorf("speed = %v, want %v", speed, wantSpeed)
	}
	if p.Vel.X >= 0 {
		t.Errorf("Vel.X = %v, want an inward component", p.Vel.X)
	}
	// Tangent for +X position under a +Y axis points along -Z.
	if p.Vel.Z >= 0 {
		t.Errorf("Vel.Z = %v, want a tangential component", p.Vel.Z)
	}
}

func TestHollowPoleUsesFallbackTangent(t *testing.T) {
	cfg := testConfig(t)
	rng := rand.New(rand.NewSource(1))

	// Directly on the swirl axis the cross product vanishes; the law
	// must still produce a finite, nonzero velocity.
	p := testParticle(r3.Vec{Y: 8}, r3.Vec{})
	stepHollow(cfg, p, Neighborhood{}, testDT, rng)

	if !finiteVec(p.Vel) || !finiteVec(p.Pos) {
		t.Fatalf("non-finite state at pole: vel=%+v pos=%+v", p.Vel, p.Pos)
	}
	if r3.Norm(p.Vel) == 0 {
		t.Error("velocity collapsed to zero at the pole")
	}
}

func TestHollowTerminalConditions(t *testing.T) {
	cfg := testConfig(t)
	rng := rand.New(rand.NewSource(1))

	t.Run("consumed at center", func(t *testing.T) {
		p := testParticle(r3.Vec{X: cfg.Hollow.DeactivateDist * 0.5}, r3.Vec{})
		if alive := stepHollow(cfg, p, Neighborhood{}, testDT, rng); alive {
			t.Error("particle inside the consume distance should report terminal")
		}
	})

	t.Run("shrunk away", func(t *testing.T) {
		p := testParticle(r3.Vec{X: 6}, r3.Vec{})
		p.Scale = cfg.Hollow.DeactivateScale * 0.5
		if alive := stepHollow(cfg, p, Neighborhood{}, testDT, rng); alive {
			t.Error("particle below the hollow scale threshold should report terminal")
		}
	})
}

// Every mode must keep a freshly spawned particle finite and move it a
// bounded distance in one frame.
func TestStepModeSanityBound(t *testing.T) {
	cfg := testConfig(t)

	for mode := Mode(0); mode < NumModes; mode++ {
		t.Run(mode.String(), func(t *testing.T) {
			rng := rand.New(rand.NewSource(3))
			p := testParticle(r3.Vec{X: cfg.Spawn.Radius}, r3.Vec{X: -cfg.Spawn.MaxSpeed})
			before := p.Pos

			stepMode(cfg, mode, p, Neighborhood{ActiveCount: 1}, testDT, rng)

			if !finiteVec(p.Pos) || !finiteVec(p.Vel) || !finite(p.Scale) {
				t.Fatalf("non-finite state after one step: %+v", p)
			}
			moved := r3.Norm(r3.Sub(p.Pos, before))
			// Generous bound: hollow tops out around baseSpeed+speedGain.
			limit := (cfg.Hollow.BaseSpeed + cfg.Hollow.SpeedGain*cfg.Hollow.BaseSpeed) * testDT
			if moved > limit {
				t.Errorf("moved %v in one frame, limit %v", moved, limit)
			}
		})
	}
}

func TestJitterVecBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 100; i++ {
		v := jitterVec(rng, 0.5)
		if math.Abs(v.X) > 0.5 || math.Abs(v.Y) > 0.5 || math.Abs(v.Z) > 0.5 {
			t.Fatalf("jitter component out of range: %+v", v)
		}
	}
}
