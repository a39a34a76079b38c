package comb

// LinearAllocator is a bump-pointer allocator: Allocate is O(1), and
// individual Deallocate is a no-op — only Reset (or discarding the whole
// allocator) reclaims memory.
type LinearAllocator struct {
	arena  arena
	offset uintptr
	used   uintptr
	name   string
}

var _ Allocator = (*LinearAllocator)(nil)

// NewLinearAllocator creates a LinearAllocator over a freshly allocated
// capacity-byte arena.
func NewLinearAllocator(capacity uintptr, name string) *LinearAllocator {
	return &LinearAllocator{
		arena: arena{buf: make([]byte, capacity)},
		name:  name,
	}
}

// Allocate bumps the offset forward by size (aligned), or returns false if
// the arena is exhausted.
func (l *LinearAllocator) Allocate(size, align uintptr, tag string) (Address, bool) {
	if align == 0 {
		align = 1
	}
	if !isPowerOfTwo(align) {
		return Address{}, false
	}
	start := alignUp(l.offset, align)
	end := start + size
	if end > uintptr(len(l.arena.buf)) {
		return Address{}, false
	}
	l.offset = end
	l.used += size
	return Address{arena: &l.arena, offset: start, size: size}, true
}

// Deallocate is a no-op; LinearAllocator only reclaims via Reset.
func (l *LinearAllocator) Deallocate(Address) {}

// Reset rewinds the bump pointer, reclaiming all outstanding allocations
// at once.
func (l *LinearAllocator) Reset() {
	l.offset = 0
	l.used = 0
}

// UsedMemory returns bytes allocated since construction or the last Reset,
// excluding any debug guard overhead.
func (l *LinearAllocator) UsedMemory() uintptr { return l.used }

// TotalMemory returns the arena's fixed capacity.
func (l *LinearAllocator) TotalMemory() uintptr { return uintptr(len(l.arena.buf)) }

// Name returns the allocator's diagnostic name.
func (l *LinearAllocator) Name() string { return l.name }
