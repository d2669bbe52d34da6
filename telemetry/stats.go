package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one telemetry window.
// The csv tags drive gocsv export in OutputManager.
type WindowStats struct {
	WindowEnd  int64   `csv:"window_end"`
	Mode       string  `csv:"mode"`
	Active     int     `csv:"active"`
	SpawnRate  float64 `csv:"spawned_per_sec"`
	DropRate   float64 `csv:"dropped_per_sec"`
	OutOfRange int     `csv:"deact_out_of_range"`
	ScaleFloor int     `csv:"deact_scale_floor"`
	NonFinite  int     `csv:"deact_non_finite"`
	Terminal   int     `csv:"deact_mode_terminal"`
	MeanAge    float64 `csv:"mean_age"`
	P50Age     float64 `csv:"p50_age"`
	P90Age     float64 `csv:"p90_age"`
}

// LogValue implements slog.LogValuer for structured logging.
func (w WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_end", w.WindowEnd),
		slog.String("mode", w.Mode),
		slog.Int("active", w.Active),
		slog.Float64("spawned_per_sec", w.SpawnRate),
		slog.Float64("dropped_per_sec", w.DropRate),
		slog.Int("deact_out_of_range", w.OutOfRange),
		slog.Int("deact_scale_floor", w.ScaleFloor),
		slog.Int("deact_non_finite", w.NonFinite),
		slog.Int("deact_mode_terminal", w.Terminal),
		slog.Float64("mean_age", w.MeanAge),
		slog.Float64("p50_age", w.P50Age),
		slog.Float64("p90_age", w.P90Age),
	)
}

// ComputeAgeStats returns mean, p50 and p90 of the given particle ages.
// Empty input returns all zeros.
func ComputeAgeStats(ages []float64) (mean, p50, p90 float64) {
	if len(ages) == 0 {
		return 0, 0, 0
	}
	sorted := make([]float64, len(ages))
	copy(sorted, ages)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return mean, p50, p90
}
