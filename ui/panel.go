// Package ui renders the in-window control panel: mode selection, spawn
// parameters, and theme. It is a source of three scalar/enumeration
// parameters for the simulation and carries no simulation logic.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fieldsim/sim"
)

const (
	panelWidth = 260
	padding    = 12
	rowHeight  = 24
	rowGap     = 34
)

// Panel holds the control panel state. The simulation parameters it
// edits live in a sim.Params owned by the caller.
type Panel struct {
	x, y    float32
	visible bool
}

// NewPanel creates a panel anchored at the given position.
func NewPanel(x, y float32) *Panel {
	return &Panel{x: x, y: y, visible: true}
}

// Toggle switches panel visibility and returns the new state.
func (p *Panel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// Draw renders the panel and applies any edits to params in place.
// Returns true if any parameter changed this frame.
func (p *Panel) Draw(params *sim.Params, active int, capacity int) bool {
	if !p.visible {
		return false
	}

	changed := false
	x := p.x + padding
	y := p.y + padding

	rl.DrawRectangle(int32(p.x), int32(p.y), panelWidth, 330, rl.Fade(rl.Black, 0.6))
	rl.DrawRectangleLines(int32(p.x), int32(p.y), panelWidth, 330, rl.Fade(rl.White, 0.2))

	rl.DrawText("Field Mode", int32(x), int32(y), 16, rl.White)
	y += rowHeight

	// One toggle button per mode, two per row.
	modes := []sim.Mode{sim.ModeNeutral, sim.ModeAttract, sim.ModeRepulse, sim.ModeHollow}
	bw := float32((panelWidth - padding*3) / 2)
	for i, m := range modes {
		bx := x + float32(i%2)*(bw+padding/2)
		by := y + float32(i/2)*(rowHeight+6)
		label := m.String()
		if m == params.Mode {
			label = "> " + label
		}
		if gui.Button(rl.Rectangle{X: bx, Y: by, Width: bw, Height: rowHeight}, label) {
			if params.Mode != m {
				params.Mode = m
				changed = true
			}
		}
	}
	y += 2*(rowHeight+6) + 8

	// Spawn rate slider
	rl.DrawText(fmt.Sprintf("Spawn rate: %.1f/s", params.SpawnRate), int32(x), int32(y), 14, rl.LightGray)
	y += 18
	newRate := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: panelWidth - padding*2, Height: 18},
		"0", "8",
		float32(params.SpawnRate), 0, 8,
	)
	if float64(newRate) != params.SpawnRate {
		params.SpawnRate = float64(newRate)
		changed = true
	}
	y += rowGap

	// Speed range sliders; min is clamped to max and vice versa so the
	// pair always satisfies min <= max.
	rl.DrawText(fmt.Sprintf("Min speed: %.1f", params.MinSpeed), int32(x), int32(y), 14, rl.LightGray)
	y += 18
	newMin := float64(gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: panelWidth - padding*2, Height: 18},
		"1", "30",
		float32(params.MinSpeed), 1, 30,
	))
	if newMin != params.MinSpeed {
		if newMin > params.MaxSpeed {
			newMin = params.MaxSpeed
		}
		params.MinSpeed = newMin
		changed = true
	}
	y += rowGap

	rl.DrawText(fmt.Sprintf("Max speed: %.1f", params.MaxSpeed), int32(x), int32(y), 14, rl.LightGray)
	y += 18
	newMax := float64(gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: panelWidth - padding*2, Height: 18},
		"1", "30",
		float32(params.MaxSpeed), 1, 30,
	))
	if newMax != params.MaxSpeed {
		if newMax < params.MinSpeed {
			newMax = params.MinSpeed
		}
		params.MaxSpeed = newMax
		changed = true
	}
	y += rowGap

	// Theme toggle
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: panelWidth - padding*2, Height: rowHeight},
		fmt.Sprintf("Theme: %s", params.Theme)) {
		if params.Theme == sim.ThemeEmber {
			params.Theme = sim.ThemeIce
		} else {
			params.Theme = sim.ThemeEmber
		}
		changed = true
	}
	y += rowGap

	rl.DrawText(fmt.Sprintf("Active: %d / %d", active, capacity), int32(x), int32(y), 14, rl.Gray)

	return changed
}
