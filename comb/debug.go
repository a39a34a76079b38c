package comb

import (
	"fmt"
	"runtime"
	"sync"
	"time"
)

const guardMagicFront = uint32(0xCAFEF00D)
const guardMagicBack = uint32(0xDEADC0DE)
const guardSize = 4

// Logger receives leak reports and guard-corruption diagnostics from debug
// tracking. It defaults to a no-op so the package stays silent unless a
// host wires one in, matching warehouse.Config's mutable package-level
// configuration style.
type Logger func(format string, args ...any)

func noopLogger(string, ...any) {}

// allocationRecord is one entry in a DebugAllocator's live-allocation
// registry.
type allocationRecord struct {
	tag       string
	size      uintptr
	timestamp time.Time
	goroutine string
}

// DebugAllocator wraps another Allocator with guard bytes around every
// user region and a live-allocation registry, at the cost of 2*guardSize
// bytes of overhead per allocation. UsedMemory sums the requested
// (guard-excluded) sizes of live allocations and TotalMemory is the wrapped
// allocator's, keeping used-memory accounting free of guard overhead.
type DebugAllocator struct {
	mu       sync.Mutex
	inner    Allocator
	log      Logger
	registry map[uintptr]allocationRecord // keyed by Address.offset of the user region
}

var _ Allocator = (*DebugAllocator)(nil)

// WithDebugTracking wraps inner with guard-byte validation and leak
// tracking. Pass a nil logger to use a no-op logger.
func WithDebugTracking(inner Allocator, log Logger) *DebugAllocator {
	if log == nil {
		log = noopLogger
	}
	return &DebugAllocator{inner: inner, log: log, registry: make(map[uintptr]allocationRecord)}
}

// Allocate reserves size + 2*guardSize from inner, writes guard magic
// values around the user region, and records the allocation.
func (d *DebugAllocator) Allocate(size, align uintptr, tag string) (Address, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	full, ok := d.inner.Allocate(size+2*guardSize, align, tag)
	if !ok {
		return Address{}, false
	}
	raw := full.Bytes()
	writeGuard(raw[:guardSize], guardMagicFront)
	writeGuard(raw[guardSize+size:], guardMagicBack)

	user := Address{arena: full.arena, offset: full.offset + guardSize, size: size}
	d.registry[user.offset] = allocationRecord{
		tag:       tag,
		size:      size,
		timestamp: time.Now(),
		goroutine: currentGoroutineTag(),
	}
	return user, true
}

// Deallocate validates both guards before releasing the region; guard
// corruption is fatal (heap invariants are already broken) and is both
// logged and asserted via panic.
func (d *DebugAllocator) Deallocate(a Address) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec, tracked := d.registry[a.offset]
	if !tracked {
		return
	}
	delete(d.registry, a.offset)

	full := Address{arena: a.arena, offset: a.offset - guardSize, size: a.size + 2*guardSize}
	raw := full.Bytes()
	if readGuard(raw[:guardSize]) != guardMagicFront || readGuard(raw[guardSize+a.size:]) != guardMagicBack {
		d.log("comb: guard corruption detected for allocation tagged %q (%d bytes)", rec.tag, rec.size)
		panic("comb: allocator guard byte corruption")
	}
	fillPattern(raw[guardSize:guardSize+a.size], 0xDD)
	d.inner.Deallocate(full)
}

// ReportLeaks logs every allocation still outstanding. Intended to be
// called at allocator teardown.
func (d *DebugAllocator) ReportLeaks() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for offset, rec := range d.registry {
		d.log("comb: leak at offset %d tag=%q size=%d goroutine=%s allocated=%s",
			offset, rec.tag, rec.size, rec.goroutine, rec.timestamp)
	}
}

// UsedMemory returns the sum of semantic (guard-excluded) allocation
// sizes still outstanding.
func (d *DebugAllocator) UsedMemory() uintptr {
	d.mu.Lock()
	defer d.mu.Unlock()
	var total uintptr
	for _, rec := range d.registry {
		total += rec.size
	}
	return total
}

// TotalMemory defers to the wrapped allocator.
func (d *DebugAllocator) TotalMemory() uintptr { return d.inner.TotalMemory() }

// Name defers to the wrapped allocator.
func (d *DebugAllocator) Name() string { return d.inner.Name() }

func writeGuard(dst []byte, magic uint32) {
	dst[0] = byte(magic)
	dst[1] = byte(magic >> 8)
	dst[2] = byte(magic >> 16)
	dst[3] = byte(magic >> 24)
}

func readGuard(src []byte) uint32 {
	return uint32(src[0]) | uint32(src[1])<<8 | uint32(src[2])<<16 | uint32(src[3])<<24
}

func fillPattern(dst []byte, b byte) {
	for i := range dst {
		dst[i] = b
	}
}

func currentGoroutineTag() string {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	return fmt.Sprintf("%.32s", buf[:n])
}
