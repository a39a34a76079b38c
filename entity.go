package queen

import "github.com/TheBitDrifter/queen/wax"

// Entity is a lightweight handle: an index into the entity location table
// packed with a generation counter that invalidates stale handles after
// recycling, plus a small flags byte. The zero Entity (index 0) is a
// perfectly ordinary handle — the null sentinel is NullEntity, whose index
// is the reserved value 0xFFFFFFFF, never handed out by Allocate.
type Entity uint64

const (
	entityIndexBits      = 32
	entityGenerationBits = 24
	entityFlagsBits      = 8

	entityIndexMask      = uint64(1)<<entityIndexBits - 1
	entityGenerationMask = uint64(1)<<entityGenerationBits - 1
	entityFlagsMask      = uint64(1)<<entityFlagsBits - 1

	nullEntityIndex = uint32(entityIndexMask)
)

// NullEntity is the sentinel handle returned where no entity applies (no
// parent, nothing swap-relocated, an unresolved command-buffer slot). Its
// index is the reserved value 0xFFFFFFFF, per the null-entity convention;
// entityAllocator never allocates that index.
var NullEntity = NewEntity(nullEntityIndex, 0, 0)

// NewEntity packs an index, generation and flags byte into an Entity handle.
func NewEntity(index uint32, generation uint32, flags uint8) Entity {
	return Entity(uint64(index) |
		uint64(generation&uint32(entityGenerationMask))<<entityIndexBits |
		uint64(flags)<<(entityIndexBits+entityGenerationBits))
}

// Index returns the packed index component of the handle.
func (e Entity) Index() uint32 {
	return uint32(uint64(e) & entityIndexMask)
}

// Generation returns the packed generation component of the handle.
func (e Entity) Generation() uint32 {
	return uint32((uint64(e) >> entityIndexBits) & entityGenerationMask)
}

// Flags returns the packed flags byte of the handle.
func (e Entity) Flags() uint8 {
	return uint8((uint64(e) >> (entityIndexBits + entityGenerationBits)) & entityFlagsMask)
}

// IsNull reports whether e is the NullEntity sentinel, never produced by
// Spawn.
func (e Entity) IsNull() bool {
	return e.Index() == nullEntityIndex
}

// relationships tracks an entity's parent link. Mirrors the handle's
// generation at the time the link was formed so a recycled parent index is
// detected rather than silently followed.
type relationships struct {
	parent           Entity
	parentGeneration uint32
	hasParent        bool
}

// entityAllocator hands out Entity handles with free-list recycling: a
// despawned index is returned to the free list with its generation bumped,
// so any handle still referencing that index compares stale.
type entityAllocator struct {
	generations *wax.Vector[uint32]
	freeList    []uint32
	liveCount   int
}

func newEntityAllocator() *entityAllocator {
	return &entityAllocator{
		generations: wax.NewVector[uint32](64),
	}
}

// Allocate returns a fresh Entity handle, reusing a recycled index when the
// free list is non-empty.
func (a *entityAllocator) Allocate() Entity {
	a.liveCount++
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		gen := *a.generations.At(int(idx))
		return NewEntity(idx, gen, 0)
	}
	idx := uint32(a.generations.Len())
	a.generations.PushBack(0)
	return NewEntity(idx, 0, 0)
}

// Free returns e's index to the free list and bumps its generation so any
// other handle holding that index is now stale. Returns false if e was
// already stale (double free).
func (a *entityAllocator) Free(e Entity) bool {
	if !a.IsAlive(e) {
		return false
	}
	idx := e.Index()
	*a.generations.At(int(idx)) = e.Generation() + 1
	a.freeList = append(a.freeList, idx)
	a.liveCount--
	return true
}

// IsAlive reports whether e's generation still matches the allocator's
// record for its index.
func (a *entityAllocator) IsAlive(e Entity) bool {
	idx := e.Index()
	if int(idx) >= a.generations.Len() {
		return false
	}
	return *a.generations.At(int(idx)) == e.Generation()
}

// LiveCount returns the number of currently allocated, non-freed entities.
func (a *entityAllocator) LiveCount() int {
	return a.liveCount
}
