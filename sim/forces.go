package sim

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fieldsim/config"
)

// Neighborhood holds per-frame aggregate statistics, computed once per
// step and shared by every particle. TrappedCount is only populated in
// Attract mode; other modes never read it.
type Neighborhood struct {
	ActiveCount  int
	TrappedCount int // active particles near the origin (Attract only)
}

// up is the fixed axis used for tangent computation in Hollow mode.
var up = r3.Vec{Y: 1}

// fallbackAxis resolves degenerate direction vectors. Deterministic so
// that a particle parked exactly at the origin behaves repeatably.
var fallbackAxis = r3.Vec{X: 1}

// stepNeutral applies the asymptotic-halt law: movement speed collapses
// cubically between the interaction radius and the stopping radius, with
// a small floor so particles never freeze permanently. Shrink here is a
// visual-cleanup heuristic, not physics.
func stepNeutral(cfg *config.Config, p *Particle, nb Neighborhood, dt float64, rng *rand.Rand) bool {
	nc := &cfg.Neutral
	dist := r3.Norm(p.Pos)

	if dist >= nc.InteractionRadius {
		p.Pos = r3.Add(p.Pos, r3.Scale(dt, p.Vel))
		return true
	}

	ratio := (dist - nc.StoppingRadius) / (nc.InteractionRadius - nc.StoppingRadius)
	if ratio < 0 {
		ratio = 0
	}
	factor := ratio * ratio * ratio
	if factor < nc.MinSpeedFactor {
		factor = nc.MinSpeedFactor
	}
	p.Pos = r3.Add(p.Pos, r3.Scale(dt*factor, p.Vel))

	if ratio > 0 && ratio < nc.JitterThreshold {
		amp := nc.JitterStrength * (1 - ratio/nc.JitterThreshold)
		p.Pos = r3.Add(p.Pos, jitterVec(rng, amp*dt))
	}

	switch {
	case nb.ActiveCount > nc.CrowdCount && ratio < nc.CrowdShrinkRatio:
		p.Scale *= nc.CrowdShrink
	case ratio < nc.IdleShrinkRatio:
		p.Scale *= nc.IdleShrink
	}
	return true
}

// stepAttract applies the implosive-trapping law: an inward pull inside
// the attraction radius, heavy damping plus shimmer near the core, and
// density-driven shrink once too many particles are trapped together.
func stepAttract(cfg *config.Config, p *Particle, nb Neighborhood, dt float64, rng *rand.Rand) bool {
	ac := &cfg.Attract
	dist := r3.Norm(p.Pos)

	if dist > 0 && dist < ac.Radius {
		inward := r3.Scale(-1/dist, p.Pos)
		p.Vel = r3.Add(p.Vel, r3.Scale(ac.PullStrength*dt, inward))
	}

	innerRadius := ac.CoreRadius + 1.0
	if dist < innerRadius {
		p.Vel = r3.Scale(ac.Damping, p.Vel)

		closeness := 1 - dist/innerRadius
		if closeness < 0 {
			closeness = 0
		}
		amp := ac.JitterBase + closeness*closeness*closeness*closeness*ac.JitterClose
		p.Pos = r3.Add(p.Pos, jitterVec(rng, amp*dt))
	}

	if nb.TrappedCount > ac.TrappedLimit && dist < ac.CoreRadius+0.5 {
		over := float64(nb.TrappedCount - ac.TrappedLimit)
		factor := 1 - ac.ShrinkPerOver*over
		if factor < ac.ShrinkFloor {
			factor = ac.ShrinkFloor
		}
		p.Scale *= factor
	}

	p.Pos = r3.Add(p.Pos, r3.Scale(dt, p.Vel))

	return p.Scale >= ac.DeactivateScale
}

// stepRepulse applies the elastic-wall law: a cubed-intensity outward
// force plus a reflection term when approaching, then integration, then
// a hard clamp at the wall boundary with an inelastic bounce for
// particles that ended the frame inside it. The clamp runs after
// integration so a bounced particle departs on the following frames
// instead of being re-captured at the wall.
func stepRepulse(cfg *config.Config, p *Particle, _ Neighborhood, dt float64, _ *rand.Rand) bool {
	rc := &cfg.Repulse
	wall := rc.CoreRadius + rc.WallOffset
	dist := r3.Norm(p.Pos)

	if dist > wall && dist < rc.Radius {
		out := r3.Scale(1/dist, p.Pos)
		approach := -r3.Dot(p.Vel, out)

		depth := 1 - clamp((dist-rc.CoreRadius)/(rc.Radius-rc.CoreRadius), 0, 1)
		intensity := depth * depth * depth
		force := rc.StaticForce * intensity
		if approach > 0 {
			force += approach * (1 + rc.ReflectGain*intensity)
		}
		dv := r3.Scale(force*dt, out)
		if finiteVec(dv) {
			p.Vel = r3.Add(p.Vel, dv)
		}
	}

	p.Pos = r3.Add(p.Pos, r3.Scale(dt, p.Vel))

	if newDist := r3.Norm(p.Pos); newDist <= wall {
		out := fallbackAxis
		if newDist > 0 {
			out = r3.Scale(1/newDist, p.Pos)
		}
		p.Pos = r3.Scale(wall, out)
		if approach := -r3.Dot(p.Vel, out); approach > 0 {
			p.Vel = r3.Scale(rc.BounceRetain*r3.Norm(p.Vel), out)
		}
	}
	return true
}

// stepHollow applies the curved-suction law: velocity is replaced each
// frame by a blend of inward pull and tangential swirl whose speed grows
// as the particle closes on the origin.
func stepHollow(cfg *config.Config, p *Particle, _ Neighborhood, dt float64, rng *rand.Rand) bool {
	hc := &cfg.Hollow
	dist := r3.Norm(p.Pos)

	inward := r3.Scale(-1, fallbackAxis)
	if dist > 0 {
		inward = r3.Scale(-1/dist, p.Pos)
	}

	tangent := r3.Cross(up, p.Pos)
	if n := r3.Norm(tangent); n > 1e-9 {
		tangent = r3.Scale(1/n, tangent)
	} else {
		// Position nearly parallel to the up axis.
		tangent = fallbackAxis
	}

	dir := r3.Add(r3.Scale(hc.InwardWeight, inward), r3.Scale(hc.TangentWeight, tangent))
	if n := r3.Norm(dir); n > 1e-9 {
		dir = r3.Scale(1/n, dir)
	} else {
		dir = fallbackAxis
	}

	speed := hc.BaseSpeed + hc.SpeedGain*math.Max(1, hc.BaseSpeed-dist)
	p.Vel = r3.Scale(speed, dir)
	p.Pos = r3.Add(p.Pos, r3.Scale(dt, p.Vel))

	amp := hc.JitterBase + (hc.JitterRadius-dist)*hc.JitterGain
	if amp > 0 {
		p.Pos = r3.Add(p.Pos, jitterVec(rng, amp*dt))
	}

	if dist < hc.ShrinkRadius {
		p.Scale *= hc.Shrink
	}

	if p.Scale < hc.DeactivateScale || dist < hc.DeactivateDist {
		return false
	}
	return true
}

// stepMode dispatches to the active force law. Returns false when the
// mode's terminal condition fired.
func stepMode(cfg *config.Config, mode Mode, p *Particle, nb Neighborhood, dt float64, rng *rand.Rand) bool {
	switch mode {
	case ModeAttract:
		return stepAttract(cfg, p, nb, dt, rng)
	case ModeRepulse:
		return stepRepulse(cfg, p, nb, dt, rng)
	case ModeHollow:
		return stepHollow(cfg, p, nb, dt, rng)
	default:
		return stepNeutral(cfg, p, nb, dt, rng)
	}
}

// jitterVec returns an isotropic random offset with components in
// [-amp, amp]. Amplitudes are per-second displacement rates; callers
// pre-multiply by dt.
func jitterVec(rng *rand.Rand, amp float64) r3.Vec {
	return r3.Vec{
		X: (rng.Float64()*2 - 1) * amp,
		Y: (rng.Float64()*2 - 1) * amp,
		Z: (rng.Float64()*2 - 1) * amp,
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func finiteVec(v r3.Vec) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}
