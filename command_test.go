package queen

import "testing"

func TestCommandBufferSpawnWithComponents(t *testing.T) {
	w := NewWorld()
	buf := NewCommandBuffer()

	h := buf.Spawn()
	With(buf, h, Position{X: 1, Y: 2})
	With(buf, h, Velocity{X: 3, Y: 4})

	if w.EntityCount() != 0 {
		t.Fatalf("entity created before Flush")
	}

	buf.Flush(w)

	e := buf.GetSpawnedEntity(h)
	if e.IsNull() || !w.IsAlive(e) {
		t.Fatalf("Flush did not produce a live entity")
	}
	pos, ok := Get[Position](w, e)
	if !ok || pos.X != 1 || pos.Y != 2 {
		t.Fatalf("Position after flush = %+v, ok=%v, want {1 2}", pos, ok)
	}
	vel, ok := Get[Velocity](w, e)
	if !ok || vel.X != 3 || vel.Y != 4 {
		t.Fatalf("Velocity after flush = %+v, ok=%v, want {3 4}", vel, ok)
	}
}

func TestCommandBufferAddRemoveSet(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()

	buf := NewCommandBuffer()
	CommandAdd[Position](buf, e)
	CommandSet(buf, e, Position{X: 9, Y: 9})
	CommandAdd[Velocity](buf, e)
	CommandRemove[Velocity](buf, e)

	buf.Flush(w)

	if !Has[Position](w, e) {
		t.Fatalf("queued Add[Position] never applied")
	}
	pos, _ := Get[Position](w, e)
	if pos.X != 9 || pos.Y != 9 {
		t.Fatalf("queued Set never applied: %+v", *pos)
	}
	if Has[Velocity](w, e) {
		t.Fatalf("Velocity still present after queued Add followed by queued Remove")
	}
}

func TestCommandBufferDespawnIgnoresStaleHandle(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()

	buf := NewCommandBuffer()
	buf.Despawn(e)

	// the entity is despawned by other means before the buffer flushes
	w.Despawn(e)
	recycled := w.Spawn() // same index, new generation

	buf.Flush(w)

	if !w.IsAlive(recycled) {
		t.Fatalf("flushing a stale Despawn command killed the wrong (recycled) entity")
	}
}

func TestCommandBufferOpsRunInEnqueueOrder(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	Add[Health](w, e)

	buf := NewCommandBuffer()
	CommandSet(buf, e, Health{Current: 1, Max: 10})
	CommandSet(buf, e, Health{Current: 2, Max: 10})
	CommandSet(buf, e, Health{Current: 3, Max: 10})
	buf.Flush(w)

	h, _ := Get[Health](w, e)
	if h.Current != 3 {
		t.Fatalf("Health.Current = %d after flush, want 3 (last queued Set should win)", h.Current)
	}
}

func TestCommandBufferSpawnHandleChainedIntoAnotherSpawn(t *testing.T) {
	w := NewWorld()
	buf := NewCommandBuffer()

	parent := buf.Spawn()
	With(buf, parent, Position{X: 0, Y: 0})
	child := buf.Spawn()
	With(buf, child, Position{X: 1, Y: 1})

	buf.Flush(w)

	parentEntity := buf.GetSpawnedEntity(parent)
	childEntity := buf.GetSpawnedEntity(child)
	if parentEntity == childEntity {
		t.Fatalf("two distinct Spawn() handles resolved to the same entity")
	}
	if !w.IsAlive(parentEntity) || !w.IsAlive(childEntity) {
		t.Fatalf("both spawned entities should be alive after flush")
	}
}
