package sim

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fieldsim/config"
)

// DeactivationCause classifies why a particle left the pool.
type DeactivationCause uint8

const (
	CauseNone DeactivationCause = iota
	CauseOutOfRange
	CauseScaleFloor
	CauseNonFinite
	CauseModeTerminal
)

// String returns the cause name.
func (c DeactivationCause) String() string {
	switch c {
	case CauseOutOfRange:
		return "out_of_range"
	case CauseScaleFloor:
		return "scale_floor"
	case CauseNonFinite:
		return "non_finite"
	case CauseModeTerminal:
		return "mode_terminal"
	}
	return "none"
}

// checkBounds applies the shared deactivation rules after any force
// model, unconditionally. Non-finite state is the correctness contract:
// it must never reach the output buffer.
func checkBounds(cfg *config.Config, p *Particle) DeactivationCause {
	if !finiteVec(p.Pos) || !finite(p.Scale) {
		return CauseNonFinite
	}
	if r3.Norm2(p.Pos) > cfg.Derived.MaxDistanceSq {
		return CauseOutOfRange
	}
	if p.Scale < cfg.Bounds.MinScale {
		return CauseScaleFloor
	}
	return CauseNone
}
