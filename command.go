package queen

// commandOp is one deferred mutation, applied in enqueue order when the
// buffer is flushed. Spawned entities are referenced by their spawn slot
// number, resolved through the resolve callback at apply time, the same
// chained-remap trick used to let later commands in the same buffer target
// an entity a still-pending Spawn hasn't created yet.
type commandOp func(w *World, resolve func(placeholder int) Entity)

// CommandBuffer defers structural operations (spawn, despawn, add, remove,
// set) for batch application via Flush, so code running inside a query's
// Each callback can queue structural changes without corrupting the
// iteration it's currently inside.
type CommandBuffer struct {
	ops      []commandOp
	spawned  []Entity
	nextSlot int
}

// NewCommandBuffer returns an empty CommandBuffer.
func NewCommandBuffer() *CommandBuffer {
	return &CommandBuffer{}
}

// SpawnHandle is a placeholder returned by CommandBuffer.Spawn, resolvable
// to a real Entity only after Flush runs.
type SpawnHandle struct {
	slot int
}

// Spawn queues a new entity's creation. The returned handle can be chained
// into With calls and resolved via GetSpawnedEntity after Flush.
func (b *CommandBuffer) Spawn() SpawnHandle {
	slot := b.nextSlot
	b.nextSlot++
	b.ops = append(b.ops, func(w *World, resolve func(int) Entity) {
		e := w.Spawn()
		for len(b.spawned) <= slot {
			b.spawned = append(b.spawned, NullEntity)
		}
		b.spawned[slot] = e
	})
	return SpawnHandle{slot: slot}
}

// With queues adding and setting component T on the entity h refers to.
func With[T any](b *CommandBuffer, h SpawnHandle, value T) SpawnHandle {
	b.ops = append(b.ops, func(w *World, resolve func(int) Entity) {
		e := resolve(h.slot)
		Add[T](w, e)
		Set(w, e, value)
	})
	return h
}

// GetSpawnedEntity resolves h to the entity it created, valid only after
// Flush has run.
func (b *CommandBuffer) GetSpawnedEntity(h SpawnHandle) Entity {
	return b.spawned[h.slot]
}

// Despawn queues e's destruction.
func (b *CommandBuffer) Despawn(e Entity) {
	recycled := e.Generation()
	b.ops = append(b.ops, func(w *World, resolve func(int) Entity) {
		if e.Generation() == recycled {
			w.Despawn(e)
		}
	})
}

// CommandAdd queues adding a zero-valued component of type T to e.
func CommandAdd[T any](b *CommandBuffer, e Entity) {
	b.ops = append(b.ops, func(w *World, resolve func(int) Entity) {
		Add[T](w, e)
	})
}

// CommandRemove queues removing component T from e.
func CommandRemove[T any](b *CommandBuffer, e Entity) {
	b.ops = append(b.ops, func(w *World, resolve func(int) Entity) {
		Remove[T](w, e)
	})
}

// CommandSet queues overwriting e's component of type T with value.
func CommandSet[T any](b *CommandBuffer, e Entity, value T) {
	b.ops = append(b.ops, func(w *World, resolve func(int) Entity) {
		if w.IsAlive(e) {
			Set(w, e, value)
		}
	})
}

// Flush applies every queued operation to w, in enqueue order, then clears
// the buffer so it can be reused.
func (b *CommandBuffer) Flush(w *World) {
	resolve := func(slot int) Entity {
		if slot < len(b.spawned) {
			return b.spawned[slot]
		}
		return NullEntity
	}
	for _, op := range b.ops {
		op(w, resolve)
	}
	b.ops = nil
}
