package comb

import "sync"

// ThreadSafeAllocator wraps any Allocator with a mutex. A plain allocator
// in this package is not safe for concurrent use; wrap it with this type
// before sharing it across goroutines.
type ThreadSafeAllocator struct {
	mu    sync.Mutex
	inner Allocator
}

var _ Allocator = (*ThreadSafeAllocator)(nil)

// NewThreadSafeAllocator wraps inner with a mutex.
func NewThreadSafeAllocator(inner Allocator) *ThreadSafeAllocator {
	return &ThreadSafeAllocator{inner: inner}
}

// Allocate serializes access to inner.Allocate.
func (t *ThreadSafeAllocator) Allocate(size, align uintptr, tag string) (Address, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inner.Allocate(size, align, tag)
}

// Deallocate serializes access to inner.Deallocate.
func (t *ThreadSafeAllocator) Deallocate(a Address) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inner.Deallocate(a)
}

// UsedMemory serializes access to inner.UsedMemory.
func (t *ThreadSafeAllocator) UsedMemory() uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inner.UsedMemory()
}

// TotalMemory serializes access to inner.TotalMemory.
func (t *ThreadSafeAllocator) TotalMemory() uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inner.TotalMemory()
}

// Name returns the wrapped allocator's diagnostic name.
func (t *ThreadSafeAllocator) Name() string {
	return t.inner.Name()
}
