package queen

import (
	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/queen/wax"
)

// entityRecord is the location map's value: which archetype an entity lives
// in and at what row, so component access never has to search.
type entityRecord struct {
	archetype ArchetypeId
	row       int
}

// World owns every entity, archetype, resource, observer and system in a
// single simulation. A World is not safe for concurrent use; systems run
// single-threaded within one World per spec's concurrency model.
type World struct {
	registry  *ComponentRegistry
	graph     *ArchetypeGraph
	allocator *entityAllocator
	locations *wax.HashMap[Entity, entityRecord]
	relations map[Entity]relationships

	resources *resourceTable
	observers *observerTable
	systems   []*systemHandle

	currentTick Tick
	locks       mask.Mask256

	structuralQueue []func(*World)
}

// NewWorld constructs an empty World with its own component registry, ready
// to register components and spawn entities. current_tick starts at 1 so
// ComponentTicks{} (the zero value) never compares equal to "just changed".
func NewWorld() *World {
	registry := NewComponentRegistry()
	w := &World{
		registry:  registry,
		allocator: newEntityAllocator(),
		locations: wax.NewHashMap[Entity, entityRecord](),
		relations: make(map[Entity]relationships),
		resources: newResourceTable(),
		observers: newObserverTable(),
		currentTick: 1,
	}
	w.graph = newArchetypeGraph(registry)
	return w
}

// Registry exposes the world's component registry so RegisterComponent[T]
// can be called against it before spawning any entity carrying T.
func (w *World) Registry() *ComponentRegistry {
	return w.registry
}

// CurrentTick returns the world's current logical tick.
func (w *World) CurrentTick() Tick {
	return w.currentTick
}

const structuralLockBit = 0

// locked reports whether a query/system iteration currently holds the
// structural lock, mirroring storage.Locked() in the teacher.
func (w *World) locked() bool {
	return !w.locks.IsEmpty()
}

// lock marks the world as mid-iteration; structural operations performed
// while locked are deferred rather than applied immediately.
func (w *World) lock() {
	w.locks.AddLock(structuralLockBit)
}

// unlock releases the structural lock and, once fully unlocked, drains any
// operations that were deferred while it was held.
func (w *World) unlock() {
	w.locks.RemoveLock(structuralLockBit)
	if w.locks.IsEmpty() {
		w.drainStructuralQueue()
	}
}

func (w *World) drainStructuralQueue() {
	for len(w.structuralQueue) > 0 {
		queued := w.structuralQueue
		w.structuralQueue = nil
		for _, op := range queued {
			op(w)
		}
	}
}

// deferOrRun runs fn immediately unless the world is locked, in which case
// fn is queued to run once the last lock is released.
func (w *World) deferOrRun(fn func(*World)) {
	if w.locked() {
		w.structuralQueue = append(w.structuralQueue, fn)
		return
	}
	fn(w)
}

// Spawn creates a new entity with no components, placed in the empty root
// archetype.
func (w *World) Spawn() Entity {
	e := w.allocator.Allocate()
	root := w.graph.Empty()
	row := root.AllocateRow(e, w.currentTick)
	w.locations.Set(e, entityRecord{archetype: root.id, row: row})
	return e
}

// EntityBuilder accumulates components onto a freshly spawned entity,
// applying each immediately rather than deferring to a Flush. It's the
// World-level counterpart to CommandBuffer's chained Spawn/With builder,
// for callers that aren't batching structural changes.
type EntityBuilder struct {
	w *World
	e Entity
}

// SpawnBuilder starts an EntityBuilder around a freshly spawned entity.
func (w *World) SpawnBuilder() *EntityBuilder {
	return &EntityBuilder{w: w, e: w.Spawn()}
}

// WithComponent attaches and sets value on b's entity, returning b for
// chaining.
func WithComponent[T any](b *EntityBuilder, value T) *EntityBuilder {
	Add[T](b.w, b.e)
	Set(b.w, b.e, value)
	return b
}

// Build returns the entity under construction.
func (b *EntityBuilder) Build() Entity {
	return b.e
}

// IsAlive reports whether e refers to a currently-live entity.
func (w *World) IsAlive(e Entity) bool {
	return w.allocator.IsAlive(e)
}

// EntityCount returns the number of live entities in the world.
func (w *World) EntityCount() int {
	return w.allocator.LiveCount()
}

// ArchetypeCount returns the number of distinct archetypes the world has
// ever created.
func (w *World) ArchetypeCount() int {
	return len(w.graph.All())
}

// Despawn destroys e, removing it from its archetype and recycling its
// index. Despawning a dead or already-despawned entity is a no-op.
func (w *World) Despawn(e Entity) {
	if !w.IsAlive(e) {
		return
	}
	if w.locked() {
		w.deferOrRun(func(w *World) { w.Despawn(e) })
		return
	}

	rec, _ := w.locations.Get(e)
	arch := w.graph.Get(rec.archetype)
	for _, t := range arch.types {
		w.observers.trigger(ObserverOnRemove, t, w, e)
	}

	moved := arch.FreeRow(rec.row)
	if !moved.IsNull() {
		w.locations.Set(moved, entityRecord{archetype: rec.archetype, row: rec.row})
	}
	w.locations.Remove(e)
	delete(w.relations, e)
	w.allocator.Free(e)
}

func mustRegister[T any](w *World) TypeId {
	return RegisterComponent[T](w.registry)
}

// Has reports whether entity e currently carries a component of type T.
func Has[T any](w *World, e Entity) bool {
	id, ok := Lookup[T](w.registry)
	if !ok {
		return false
	}
	rec, ok := w.locations.Get(e)
	if !ok {
		return false
	}
	return w.graph.Get(rec.archetype).HasComponent(id)
}

// Get returns a read-only pointer to e's component of type T and whether it
// was present. The pointer must not outlive the next structural change.
func Get[T any](w *World, e Entity) (*T, bool) {
	id, ok := Lookup[T](w.registry)
	if !ok {
		return nil, false
	}
	rec, ok := w.locations.Get(e)
	if !ok {
		return nil, false
	}
	arch := w.graph.Get(rec.archetype)
	col, ok := arch.columns[id]
	if !ok {
		return nil, false
	}
	typed := col.(*column[T])
	return typed.Get(rec.row), true
}

// GetMut returns a writable pointer to e's component of type T, stamping its
// Changed tick to the current tick. Returns false if absent.
func GetMut[T any](w *World, e Entity) (*T, bool) {
	id, ok := Lookup[T](w.registry)
	if !ok {
		return nil, false
	}
	rec, ok := w.locations.Get(e)
	if !ok {
		return nil, false
	}
	arch := w.graph.Get(rec.archetype)
	col, ok := arch.columns[id]
	if !ok {
		return nil, false
	}
	typed := col.(*column[T])
	return typed.GetMut(rec.row, w.currentTick), true
}

// Set overwrites e's component of type T with value, adding the component
// first (migrating e to a new archetype) if it wasn't already present.
func Set[T any](w *World, e Entity, value T) {
	id := mustRegister[T](w)
	if !w.IsAlive(e) {
		return
	}
	if w.locked() {
		w.deferOrRun(func(w *World) { Set(w, e, value) })
		return
	}
	if !Has[T](w, e) {
		Add[T](w, e)
	}
	rec, _ := w.locations.Get(e)
	arch := w.graph.Get(rec.archetype)
	typed := arch.columns[id].(*column[T])
	wasSet := typed.Get(rec.row)
	*wasSet = value
	typed.MarkChanged(rec.row, w.currentTick)
	w.observers.trigger(ObserverOnSet, id, w, e)
}

// Add attaches a zero-valued component of type T to e, migrating it to the
// archetype reached by the graph's cached Add edge for T. A no-op if e
// already carries T.
func Add[T any](w *World, e Entity) {
	id := mustRegister[T](w)
	if !w.IsAlive(e) {
		return
	}
	if w.locked() {
		w.deferOrRun(func(w *World) { Add[T](w, e) })
		return
	}
	if Has[T](w, e) {
		return
	}

	rec, _ := w.locations.Get(e)
	src := w.graph.Get(rec.archetype)
	dest := w.graph.GetOrCreateAddTarget(src, id)
	if dest == src {
		return
	}

	destRow, moved := src.moveRowTo(dest, rec.row, e, w.currentTick)
	if !moved.IsNull() {
		w.locations.Set(moved, entityRecord{archetype: src.id, row: rec.row})
	}
	w.locations.Set(e, entityRecord{archetype: dest.id, row: destRow})
	w.observers.trigger(ObserverOnAdd, id, w, e)
}

// Remove detaches e's component of type T, migrating it to the archetype
// reached by the graph's cached Remove edge. A no-op if e didn't carry T.
func Remove[T any](w *World, e Entity) {
	id, ok := Lookup[T](w.registry)
	if !ok || !w.IsAlive(e) {
		return
	}
	if w.locked() {
		w.deferOrRun(func(w *World) { Remove[T](w, e) })
		return
	}
	if !Has[T](w, e) {
		return
	}

	rec, _ := w.locations.Get(e)
	src := w.graph.Get(rec.archetype)
	w.observers.trigger(ObserverOnRemove, id, w, e)
	dest := w.graph.GetOrCreateRemoveTarget(src, id)
	if dest == src {
		return
	}

	destRow, moved := src.moveRowTo(dest, rec.row, e, w.currentTick)
	if !moved.IsNull() {
		w.locations.Set(moved, entityRecord{archetype: src.id, row: rec.row})
	}
	w.locations.Set(e, entityRecord{archetype: dest.id, row: destRow})
}

// SetParent establishes a parent-child link from child to parent. Returns
// an error if child already has a parent.
func (w *World) SetParent(child, parent Entity) error {
	if rel, ok := w.relations[child]; ok && rel.hasParent {
		return EntityRelationError{Child: child, Parent: parent}
	}
	w.relations[child] = relationships{
		parent:           parent,
		parentGeneration: parent.Generation(),
		hasParent:        true,
	}
	return nil
}

// ParentOf returns child's parent, or NullEntity if child has none or its
// recorded parent is no longer alive (despawned, or its index recycled).
func (w *World) ParentOf(child Entity) Entity {
	rel, ok := w.relations[child]
	if !ok || !rel.hasParent {
		return NullEntity
	}
	if !w.IsAlive(rel.parent) {
		return NullEntity
	}
	return rel.parent
}

// HasParent reports whether child currently has a live parent link.
func (w *World) HasParent(child Entity) bool {
	return !w.ParentOf(child).IsNull()
}

// panicIfDebug panics with a traced error when Debug mode is enabled,
// mirroring the teacher's bark.AddTrace-wrapped panics on invariant
// violations; in release builds the caller's normal error path applies
// instead.
func panicIfDebug(err error) {
	if Debug {
		panic(bark.AddTrace(err))
	}
}
