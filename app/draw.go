package app

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fieldsim/sim"
	"github.com/pthm-cable/fieldsim/telemetry"
)

// Draw renders the scene, control panel, and HUD.
func (a *App) Draw() {
	a.perf.StartPhase(telemetry.PhaseRender)

	a.scene.UpdateCamera(rl.GetFrameTime())

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(8, 8, 14, 255))

	a.scene.Draw(a.engine.Buffer(), a.engine.Trail(), a.params.Mode)

	active := a.engine.Pool().ActiveCount()
	a.panel.Draw(&a.params, active, a.engine.Pool().Capacity())

	rl.DrawText(fmt.Sprintf("Frame: %d", a.engine.Frame()), 10, 10, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Mode: %s  Active: %d", a.params.Mode, active), 10, 35, 20, rl.White)
	if a.stepsPerUpdate > 1 {
		rl.DrawText(fmt.Sprintf("Speed: %dx  [</>]", a.stepsPerUpdate), 10, 60, 20, rl.White)
	}
	if a.paused {
		rl.DrawText("PAUSED", 10, 85, 20, rl.Yellow)
	}

	rl.EndDrawing()
}

// handleInput processes keyboard shortcuts.
func (a *App) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.paused = !a.paused
	}

	// Direct mode keys mirror the panel buttons.
	switch {
	case rl.IsKeyPressed(rl.KeyOne):
		a.params.Mode = sim.ModeNeutral
	case rl.IsKeyPressed(rl.KeyTwo):
		a.params.Mode = sim.ModeAttract
	case rl.IsKeyPressed(rl.KeyThree):
		a.params.Mode = sim.ModeRepulse
	case rl.IsKeyPressed(rl.KeyFour):
		a.params.Mode = sim.ModeHollow
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		a.panel.Toggle()
	}

	// Simulation speed with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && a.stepsPerUpdate > 1 {
		a.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && a.stepsPerUpdate < 10 {
		a.stepsPerUpdate++
	}
}
