package sim

// Instance is one entry of the per-frame render buffer: a world
// position, a uniform scale, and a color. Inactive slots carry zero
// scale so the sink renders nothing without the layout changing.
type Instance struct {
	X, Y, Z float32
	Scale   float32
	Color   Color
}

// InstanceBuffer is the dense, slot-indexed output consumed by the
// rendering sink via instanced draw. Its length always equals the pool
// capacity; entries are never omitted or reordered.
type InstanceBuffer struct {
	Instances []Instance
}

// NewInstanceBuffer creates a buffer sized to the pool capacity.
func NewInstanceBuffer(capacity int) *InstanceBuffer {
	return &InstanceBuffer{Instances: make([]Instance, capacity)}
}

// Len returns the fixed instance count.
func (b *InstanceBuffer) Len() int {
	return len(b.Instances)
}

// hide zeroes the scale of slot i, keeping the slot's lane in the
// instanced draw but making it invisible.
func (b *InstanceBuffer) hide(i int) {
	b.Instances[i].Scale = 0
}

// set writes slot i from a live particle.
func (b *InstanceBuffer) set(i int, p *Particle) {
	b.Instances[i] = Instance{
		X:     float32(p.Pos.X),
		Y:     float32(p.Pos.Y),
		Z:     float32(p.Pos.Z),
		Scale: float32(p.Scale),
		Color: p.Color,
	}
}

// copyFrom overwrites this buffer with src. Both must be same length.
func (b *InstanceBuffer) copyFrom(src *InstanceBuffer) {
	copy(b.Instances, src.Instances)
}

// TrailBuffer keeps lagged copies of previous frames' instance buffers
// for motion-trail ghosting. Pure visual delay, no physics semantics.
type TrailBuffer struct {
	frames []*InstanceBuffer // frames[0] = last frame, frames[1] = two ago
}

// NewTrailBuffer creates a trail of the given depth (0 disables).
func NewTrailBuffer(depth, capacity int) *TrailBuffer {
	t := &TrailBuffer{frames: make([]*InstanceBuffer, depth)}
	for i := range t.frames {
		t.frames[i] = NewInstanceBuffer(capacity)
	}
	return t
}

// Depth returns the number of lagged frames kept.
func (t *TrailBuffer) Depth() int {
	return len(t.frames)
}

// Frame returns the buffer lagged by i+1 frames.
func (t *TrailBuffer) Frame(i int) *InstanceBuffer {
	return t.frames[i]
}

// push shifts the history back one frame and records cur as the newest.
func (t *TrailBuffer) push(cur *InstanceBuffer) {
	if len(t.frames) == 0 {
		return
	}
	for i := len(t.frames) - 1; i > 0; i-- {
		t.frames[i].copyFrom(t.frames[i-1])
	}
	t.frames[0].copyFrom(cur)
}
