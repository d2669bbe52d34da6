// Package telemetry accumulates per-frame simulation events into
// windowed statistics and exports them as structured logs and CSV.
package telemetry

import "github.com/pthm-cable/fieldsim/sim"

// Collector accumulates events within time windows and produces WindowStats.
// Windows are measured in simulated seconds (the clamped dt each step
// advanced), not frame counts, so the cadence holds under variable
// frame times.
type Collector struct {
	windowDurationSec float64

	// Simulated seconds accumulated in the current window.
	elapsed float64

	// Event counters for the current window
	spawned     int
	dropped     int
	deactivated [5]int // indexed by sim.DeactivationCause
}

// NewCollector creates a stats collector that flushes every
// windowDurationSec simulated seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 1
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// RecordStep folds one frame's StepStats into the current window,
// advancing the window clock by the step's clamped dt.
func (c *Collector) RecordStep(s sim.StepStats) {
	c.elapsed += s.DT
	c.spawned += s.Spawned
	c.dropped += s.Dropped
	for i, n := range s.Deactivated {
		c.deactivated[i] += n
	}
}

// ShouldFlush reports whether the current window has run its course.
func (c *Collector) ShouldFlush() bool {
	return c.elapsed >= c.windowDurationSec
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller provides the current frame, active particle count, the ages
// of the live particles, and the active mode. Rates divide by the
// window's actual simulated length, which may overshoot the configured
// duration by up to one frame.
func (c *Collector) Flush(currentFrame int64, active int, ages []float64, mode sim.Mode) WindowStats {
	dur := c.elapsed
	if dur <= 0 {
		dur = c.windowDurationSec
	}

	w := WindowStats{
		WindowEnd:  currentFrame,
		Mode:       mode.String(),
		Active:     active,
		SpawnRate:  float64(c.spawned) / dur,
		DropRate:   float64(c.dropped) / dur,
		OutOfRange: c.deactivated[sim.CauseOutOfRange],
		ScaleFloor: c.deactivated[sim.CauseScaleFloor],
		NonFinite:  c.deactivated[sim.CauseNonFinite],
		Terminal:   c.deactivated[sim.CauseModeTerminal],
	}
	w.MeanAge, w.P50Age, w.P90Age = ComputeAgeStats(ages)

	c.elapsed = 0
	c.spawned = 0
	c.dropped = 0
	c.deactivated = [5]int{}

	return w
}
