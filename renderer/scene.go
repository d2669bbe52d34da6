// Package renderer is the rendering sink: it consumes the slot-indexed
// instance buffer produced by the simulation each frame and draws it
// with instanced geometry around the central barrier.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fieldsim/camera"
	"github.com/pthm-cable/fieldsim/config"
	"github.com/pthm-cable/fieldsim/sim"
)

// Scene owns the 3D camera, the barrier geometry, and the instanced
// particle renderer.
type Scene struct {
	orbit     *camera.Orbit
	camera    rl.Camera3D
	particles *InstancedParticles

	barrierRadius float32
}

// NewScene creates the scene. Graphics must be initialized first.
func NewScene(cfg *config.Config) *Scene {
	orbit := camera.New(float32(cfg.Camera.Distance))
	x, y, z := orbit.Position()
	cam := rl.NewCamera3D(
		rl.NewVector3(x, y, z),
		rl.NewVector3(0, 0, 0),
		rl.NewVector3(0, 1, 0),
		float32(cfg.Camera.FOV),
		rl.CameraPerspective,
	)

	return &Scene{
		orbit:         orbit,
		camera:        cam,
		particles:     NewInstancedParticles(cfg.Pool.Capacity),
		barrierRadius: float32(cfg.Repulse.CoreRadius),
	}
}

// UpdateCamera advances the orbit and applies mouse control: right-drag
// rotates, the wheel zooms.
func (s *Scene) UpdateCamera(dt float32) {
	s.orbit.Update(dt)

	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		s.orbit.Rotate(d.X*0.005, -d.Y*0.005)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		s.orbit.ZoomBy(1 - wheel*0.1)
	}

	x, y, z := s.orbit.Position()
	s.camera.Position = rl.NewVector3(x, y, z)
}

// Draw renders one frame: barrier, trail ghosts oldest-first, then the
// live instances.
func (s *Scene) Draw(buf *sim.InstanceBuffer, trail *sim.TrailBuffer, mode sim.Mode) {
	rl.BeginMode3D(s.camera)

	s.drawBarrier(mode)

	// Ghosts are drawn back to front so the live pass lands on top.
	for i := trail.Depth() - 1; i >= 0; i-- {
		alpha := float32(0.25) / float32(i+1)
		s.particles.Draw(s.camera, trail.Frame(i), alpha)
	}
	s.particles.Draw(s.camera, buf, 1.0)

	rl.EndMode3D()
}

// drawBarrier renders the central sphere, tinted by the active mode.
func (s *Scene) drawBarrier(mode sim.Mode) {
	var tint rl.Color
	switch mode {
	case sim.ModeAttract:
		tint = rl.NewColor(120, 60, 200, 90)
	case sim.ModeRepulse:
		tint = rl.NewColor(200, 70, 50, 90)
	case sim.ModeHollow:
		tint = rl.NewColor(60, 180, 160, 90)
	default:
		tint = rl.NewColor(90, 90, 110, 90)
	}

	center := rl.NewVector3(0, 0, 0)
	rl.DrawSphere(center, s.barrierRadius, tint)
	rl.DrawSphereWires(center, s.barrierRadius, 12, 12, rl.Fade(rl.White, 0.15))
}

// Unload releases GPU resources.
func (s *Scene) Unload() {
	s.particles.Unload()
}
