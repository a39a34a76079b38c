package queen

// Tick is the world's wrap-aware logical clock. Zero means "never
// changed" and is never produced by a running world; current_tick starts
// at 1.
type Tick uint32

// IsNewerThan compares t to other using wrap-aware arithmetic: the
// difference is interpreted as a signed 32-bit value, so the relation
// stays stable across the ~4 billion tick wraparound point.
func (t Tick) IsNewerThan(other Tick) bool {
	return int32(t-other) > 0
}

// ComponentTicks records when a component instance was last inserted and
// last written to. Both default to zero.
type ComponentTicks struct {
	Added   Tick
	Changed Tick
}

// WasAdded reports whether the component was added after since.
func (c ComponentTicks) WasAdded(since Tick) bool {
	return c.Added.IsNewerThan(since)
}

// WasChanged reports whether the component was written after since.
func (c ComponentTicks) WasChanged(since Tick) bool {
	return c.Changed.IsNewerThan(since)
}
