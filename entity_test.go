package queen

import "testing"

type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

type Health struct {
	Current, Max int
}

func TestSpawnAssignsLiveEntities(t *testing.T) {
	w := NewWorld()

	entities := make([]Entity, 10)
	for i := range entities {
		entities[i] = w.Spawn()
	}

	for i, e := range entities {
		if e.IsNull() {
			t.Fatalf("entity %d: spawned a null handle", i)
		}
		if !w.IsAlive(e) {
			t.Fatalf("entity %d: not alive right after spawn", i)
		}
	}
	if w.EntityCount() != len(entities) {
		t.Fatalf("EntityCount() = %d, want %d", w.EntityCount(), len(entities))
	}
}

func TestFirstSpawnedEntityIsNotNull(t *testing.T) {
	w := NewWorld()
	first := w.Spawn()
	if first.Index() != 0 {
		t.Fatalf("first spawned entity has index %d, want 0", first.Index())
	}
	if first.IsNull() {
		t.Fatalf("Entity with index 0 reported IsNull(); only index 0xFFFFFFFF (NullEntity) should")
	}
	if !NullEntity.IsNull() {
		t.Fatalf("NullEntity.IsNull() = false")
	}
}

func TestDespawnRecyclesIndexWithNewGeneration(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	idx := e.Index()

	w.Despawn(e)
	if w.IsAlive(e) {
		t.Fatalf("entity still alive after despawn")
	}

	next := w.Spawn()
	if next.Index() != idx {
		t.Fatalf("expected recycled index %d, got %d", idx, next.Index())
	}
	if next.Generation() == e.Generation() {
		t.Fatalf("recycled handle did not bump generation")
	}
	if w.IsAlive(e) {
		t.Fatalf("stale handle reports alive after its index was recycled")
	}
}

func TestDespawnIsNoOpForDeadEntity(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	w.Despawn(e)

	before := w.EntityCount()
	w.Despawn(e)
	if w.EntityCount() != before {
		t.Fatalf("double despawn changed entity count")
	}
}

func TestAddSetGetRoundTrip(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()

	Add[Position](w, e)
	if !Has[Position](w, e) {
		t.Fatalf("entity missing Position after Add")
	}

	Set(w, e, Position{X: 1, Y: 2})
	pos, ok := Get[Position](w, e)
	if !ok {
		t.Fatalf("Get returned not-found for present component")
	}
	if pos.X != 1 || pos.Y != 2 {
		t.Fatalf("Position = %+v, want {1 2}", *pos)
	}
}

func TestSetAddsComponentWhenAbsent(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()

	Set(w, e, Velocity{X: 3, Y: 4})
	if !Has[Velocity](w, e) {
		t.Fatalf("Set on an absent component did not add it")
	}
	vel, _ := Get[Velocity](w, e)
	if vel.X != 3 || vel.Y != 4 {
		t.Fatalf("Velocity = %+v, want {3 4}", *vel)
	}
}

func TestRemoveComponent(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	Add[Position](w, e)
	Add[Velocity](w, e)

	Remove[Position](w, e)
	if Has[Position](w, e) {
		t.Fatalf("Position still present after Remove")
	}
	if !Has[Velocity](w, e) {
		t.Fatalf("unrelated component Velocity was dropped by Remove")
	}
}

func TestGetMutStampsChangedTick(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	Add[Health](w, e)

	before := w.CurrentTick()
	w.Update()

	ptr, ok := GetMut[Health](w, e)
	if !ok {
		t.Fatalf("GetMut returned not-found")
	}
	ptr.Current = 50

	rec, _ := w.locations.Get(e)
	col := w.graph.Get(rec.archetype).columns[mustRegister[Health](w)]
	ticks := col.Ticks(rec.row)
	if !ticks.WasChanged(before) {
		t.Fatalf("GetMut did not stamp the Changed tick")
	}
}

func TestParentChildRelation(t *testing.T) {
	w := NewWorld()
	parent := w.Spawn()
	child := w.Spawn()

	if err := w.SetParent(child, parent); err != nil {
		t.Fatalf("SetParent failed: %v", err)
	}
	if got := w.ParentOf(child); got != parent {
		t.Fatalf("ParentOf(child) = %v, want %v", got, parent)
	}
	if !w.HasParent(child) {
		t.Fatalf("HasParent(child) = false, want true")
	}

	if err := w.SetParent(child, parent); err == nil {
		t.Fatalf("SetParent on an already-parented child should fail")
	}
}

func TestParentOfDetectsRecycledParentHandle(t *testing.T) {
	w := NewWorld()
	parent := w.Spawn()
	child := w.Spawn()
	_ = w.SetParent(child, parent)

	w.Despawn(parent)
	w.Spawn() // recycle parent's index under a new generation

	if got := w.ParentOf(child); !got.IsNull() {
		t.Fatalf("ParentOf(child) = %v after parent recycled, want null", got)
	}
}

func TestEntityBuilderChainsComponentsImmediately(t *testing.T) {
	w := NewWorld()

	b := w.SpawnBuilder()
	WithComponent(b, Position{X: 1, Y: 2})
	WithComponent(b, Velocity{X: 3, Y: 4})
	e := b.Build()

	if !w.IsAlive(e) {
		t.Fatalf("entity built via EntityBuilder is not alive")
	}
	pos, ok := Get[Position](w, e)
	if !ok || pos.X != 1 || pos.Y != 2 {
		t.Fatalf("Position after build = %+v, ok=%v, want {1 2}", pos, ok)
	}
	vel, ok := Get[Velocity](w, e)
	if !ok || vel.X != 3 || vel.Y != 4 {
		t.Fatalf("Velocity after build = %+v, ok=%v, want {3 4}", vel, ok)
	}
}
