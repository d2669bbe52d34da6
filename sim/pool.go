package sim

import "gonum.org/v1/gonum/spatial/r3"

// Particle is one pooled projectile. Slots are reused without clearing:
// a spawn must overwrite every field before setting Active. While
// Active is false the other fields are stale and must not be read.
type Particle struct {
	Active bool
	Pos    r3.Vec
	Vel    r3.Vec
	Scale  float64 // starts at 1.0, shrinks under most modes
	Age    float64 // seconds since spawn; informational only
	Color  Color
}

// Pool is a fixed-capacity store of particle slots. The capacity is set
// at construction and never changes; there is no allocation in
// steady-state operation. All scans are O(capacity) per frame, which is
// deliberate at the supported capacities (~1000).
type Pool struct {
	slots []Particle
}

// NewPool creates a pool with the given fixed capacity.
func NewPool(capacity int) *Pool {
	if capacity <= 0 {
		capacity = 1
	}
	return &Pool{slots: make([]Particle, capacity)}
}

// Capacity returns the fixed slot count.
func (p *Pool) Capacity() int {
	return len(p.slots)
}

// At returns the particle in slot i. The pointer stays valid for the
// pool's lifetime; slot index doubles as the render instance index.
func (p *Pool) At(i int) *Particle {
	return &p.slots[i]
}

// FindFreeSlot returns the first inactive slot index, or false if the
// pool is full.
func (p *Pool) FindFreeSlot() (int, bool) {
	for i := range p.slots {
		if !p.slots[i].Active {
			return i, true
		}
	}
	return 0, false
}

// ActiveCount returns the number of live particles.
func (p *Pool) ActiveCount() int {
	n := 0
	for i := range p.slots {
		if p.slots[i].Active {
			n++
		}
	}
	return n
}

// CountActiveWithin counts active particles whose squared distance from
// the origin is below radiusSq.
func (p *Pool) CountActiveWithin(radiusSq float64) int {
	n := 0
	for i := range p.slots {
		s := &p.slots[i]
		if s.Active && r3.Norm2(s.Pos) < radiusSq {
			n++
		}
	}
	return n
}
