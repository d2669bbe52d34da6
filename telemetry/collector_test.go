package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/fieldsim/sim"
)

func TestCollectorWindowCadence(t *testing.T) {
	c := NewCollector(1.0)

	for i := 0; i < 3; i++ {
		c.RecordStep(sim.StepStats{DT: 0.25})
		if c.ShouldFlush() {
			t.Fatalf("flushed after %v simulated seconds, window is 1.0", float64(i+1)*0.25)
		}
	}
	c.RecordStep(sim.StepStats{DT: 0.25})
	if !c.ShouldFlush() {
		t.Error("window elapsed but ShouldFlush() = false")
	}

	c.Flush(4, 0, nil, sim.ModeNeutral)
	if c.ShouldFlush() {
		t.Error("ShouldFlush() = true immediately after a flush")
	}
}

func TestCollectorTracksSimulatedTime(t *testing.T) {
	// The window clock follows the dt each step actually advanced, not a
	// nominal frame count: slow frames cover the window in fewer steps.
	c := NewCollector(1.0)

	c.RecordStep(sim.StepStats{DT: 0.5})
	if c.ShouldFlush() {
		t.Error("half the window flushed early")
	}
	c.RecordStep(sim.StepStats{DT: 0.5})
	if !c.ShouldFlush() {
		t.Error("one simulated second must flush regardless of step count")
	}

	// And fast frames take more of them.
	c.Flush(2, 0, nil, sim.ModeNeutral)
	for i := 0; i < 9; i++ {
		c.RecordStep(sim.StepStats{DT: 0.1})
	}
	if c.ShouldFlush() {
		t.Error("0.9 simulated seconds flushed early")
	}
}

func TestCollectorRatesAndReset(t *testing.T) {
	c := NewCollector(2.0)

	var deact [5]int
	deact[sim.CauseOutOfRange] = 1
	deact[sim.CauseModeTerminal] = 2

	for i := 0; i < 4; i++ {
		c.RecordStep(sim.StepStats{DT: 0.5, Spawned: 2, Dropped: 1, Deactivated: deact})
	}

	w := c.Flush(120, 42, []float64{1, 2, 3}, sim.ModeAttract)

	if w.WindowEnd != 120 || w.Mode != "attract" || w.Active != 42 {
		t.Errorf("header fields wrong: %+v", w)
	}
	if math.Abs(w.SpawnRate-4.0) > 1e-12 { // 8 spawns over 2 simulated seconds
		t.Errorf("SpawnRate = %v, want 4", w.SpawnRate)
	}
	if math.Abs(w.DropRate-2.0) > 1e-12 {
		t.Errorf("DropRate = %v, want 2", w.DropRate)
	}
	if w.OutOfRange != 4 || w.Terminal != 8 || w.ScaleFloor != 0 || w.NonFinite != 0 {
		t.Errorf("deactivation buckets wrong: %+v", w)
	}
	if math.Abs(w.MeanAge-2.0) > 1e-12 {
		t.Errorf("MeanAge = %v, want 2", w.MeanAge)
	}

	// Counters reset: the next window starts from zero.
	w2 := c.Flush(240, 0, nil, sim.ModeAttract)
	if w2.SpawnRate != 0 || w2.DropRate != 0 || w2.OutOfRange != 0 || w2.Terminal != 0 {
		t.Errorf("counters survived a flush: %+v", w2)
	}
}

func TestCollectorSubFrameWindow(t *testing.T) {
	// A window shorter than one frame still flushes every frame.
	c := NewCollector(0.001)
	c.RecordStep(sim.StepStats{DT: 1.0 / 60})
	if !c.ShouldFlush() {
		t.Error("sub-frame window should flush on the first frame")
	}
}

func TestComputeAgeStats(t *testing.T) {
	cases := []struct {
		name string
		ages []float64
		mean float64
		p50  float64
	}{
		{"empty", nil, 0, 0},
		{"single", []float64{4}, 4, 4},
		{"uniform", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 5.5, 5},
		{"unsorted input", []float64{9, 1, 5}, 5, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mean, p50, p90 := ComputeAgeStats(tc.ages)
			if math.Abs(mean-tc.mean) > 1e-12 {
				t.Errorf("mean = %v, want %v", mean, tc.mean)
			}
			if math.Abs(p50-tc.p50) > 1e-12 {
				t.Errorf("p50 = %v, want %v", p50, tc.p50)
			}
			if len(tc.ages) > 0 {
				lo, hi := tc.ages[0], tc.ages[0]
				for _, a := range tc.ages {
					lo, hi = math.Min(lo, a), math.Max(hi, a)
				}
				if p90 < lo || p90 > hi {
					t.Errorf("p90 = %v outside data range [%v, %v]", p90, lo, hi)
				}
				if p90 < p50 {
					t.Errorf("p90 = %v below p50 = %v", p90, p50)
				}
			}
		})
	}

	// The input slice must not be reordered; the app reuses it.
	ages := []float64{3, 1, 2}
	ComputeAgeStats(ages)
	if ages[0] != 3 || ages[1] != 1 || ages[2] != 2 {
		t.Errorf("input mutated: %v", ages)
	}
}
