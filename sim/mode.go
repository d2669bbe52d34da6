// Package sim implements the per-frame projectile simulation: a
// fixed-capacity particle pool, four mode-dependent force laws around a
// central barrier, and the slot-indexed instance buffer handed to the
// rendering sink each frame.
package sim

import "strings"

// Mode selects the active force law.
type Mode uint8

const (
	ModeNeutral Mode = iota
	ModeAttract
	ModeRepulse
	ModeHollow
)

// NumModes is the number of force modes.
const NumModes = 4

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeNeutral:
		return "neutral"
	case ModeAttract:
		return "attract"
	case ModeRepulse:
		return "repulse"
	case ModeHollow:
		return "hollow"
	}
	return "unknown"
}

// ParseMode returns the mode named by s (case-insensitive), defaulting
// to ModeNeutral.
func ParseMode(s string) Mode {
	switch strings.ToLower(s) {
	case "attract":
		return ModeAttract
	case "repulse":
		return ModeRepulse
	case "hollow":
		return ModeHollow
	}
	return ModeNeutral
}

// Theme selects the spawn color palette. It affects nothing else.
type Theme uint8

const (
	ThemeEmber Theme = iota
	ThemeIce
)

// String returns the theme name.
func (t Theme) String() string {
	if t == ThemeIce {
		return "ice"
	}
	return "ember"
}

// Params are the externally-controlled simulation parameters, read once
// per frame. MinSpeed must not exceed MaxSpeed; SpawnRate <= 0 disables
// spawning.
type Params struct {
	Mode      Mode
	SpawnRate float64 // particles per second
	MinSpeed  float64
	MaxSpeed  float64
	Theme     Theme
}
