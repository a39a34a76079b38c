package queen

import "testing"

func TestArchetypeGraphReusesIdenticalComponentSets(t *testing.T) {
	w := NewWorld()

	a := w.Spawn()
	Add[Position](w, a)
	Add[Velocity](w, a)

	b := w.Spawn()
	// added in the opposite order; the archetype is keyed by set, not order
	Add[Velocity](w, b)
	Add[Position](w, b)

	recA, _ := w.locations.Get(a)
	recB, _ := w.locations.Get(b)
	if recA.archetype != recB.archetype {
		t.Fatalf("entities with the same component set landed in different archetypes: %v vs %v",
			recA.archetype, recB.archetype)
	}
}

func TestArchetypeGraphDistinguishesDifferentSets(t *testing.T) {
	w := NewWorld()

	posOnly := w.Spawn()
	Add[Position](w, posOnly)

	posVel := w.Spawn()
	Add[Position](w, posVel)
	Add[Velocity](w, posVel)

	recA, _ := w.locations.Get(posOnly)
	recB, _ := w.locations.Get(posVel)
	if recA.archetype == recB.archetype {
		t.Fatalf("Position-only and Position+Velocity entities share an archetype")
	}
}

func TestAddEdgeIsCachedAfterFirstUse(t *testing.T) {
	w := NewWorld()
	posId := mustRegister[Position](w)

	a := w.Spawn()
	Add[Position](w, a)
	recA, _ := w.locations.Get(a)
	root := w.graph.Get(0)

	edgeTarget, ok := root.addEdges[posId]
	if !ok {
		t.Fatalf("root archetype has no cached add-edge for Position after Add")
	}
	if edgeTarget != recA.archetype {
		t.Fatalf("cached add-edge points at %v, entity actually landed in %v", edgeTarget, recA.archetype)
	}

	b := w.Spawn()
	Add[Position](w, b)
	recB, _ := w.locations.Get(b)
	if recB.archetype != recA.archetype {
		t.Fatalf("second Add[Position] did not reuse the cached edge's destination archetype")
	}
}

func TestRemoveThenAddReturnsToOriginalArchetype(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	Add[Position](w, e)
	Add[Velocity](w, e)
	recBefore, _ := w.locations.Get(e)

	Remove[Velocity](w, e)
	Add[Velocity](w, e)
	recAfter, _ := w.locations.Get(e)

	if recBefore.archetype != recAfter.archetype {
		t.Fatalf("round-tripping Remove+Add landed in a different archetype: %v vs %v",
			recBefore.archetype, recAfter.archetype)
	}
}

func TestDespawnRelocatesSwappedRow(t *testing.T) {
	w := NewWorld()
	first := w.Spawn()
	Add[Position](w, first)
	second := w.Spawn()
	Add[Position](w, second)
	third := w.Spawn()
	Add[Position](w, third)

	w.Despawn(first)

	if !w.IsAlive(second) || !w.IsAlive(third) {
		t.Fatalf("despawning one entity affected liveness of siblings")
	}

	Set(w, second, Position{X: 7, Y: 8})
	pos, ok := Get[Position](w, second)
	if !ok || pos.X != 7 || pos.Y != 8 {
		t.Fatalf("component access broken after swap-remove relocation: %+v, ok=%v", pos, ok)
	}
}

func TestColumnReportsItsOwnTypeId(t *testing.T) {
	w := NewWorld()
	posId := mustRegister[Position](w)
	velId := mustRegister[Velocity](w)

	e := w.Spawn()
	Add[Position](w, e)
	Add[Velocity](w, e)

	rec, _ := w.locations.Get(e)
	arch := w.graph.Get(rec.archetype)

	if got := arch.columns[posId].TypeId(); got != posId {
		t.Fatalf("Position column.TypeId() = %v, want %v", got, posId)
	}
	if got := arch.columns[velId].TypeId(); got != velId {
		t.Fatalf("Velocity column.TypeId() = %v, want %v", got, velId)
	}
}

func TestStructuralChangeDuringIterationIsDeferred(t *testing.T) {
	w := NewWorld()
	e1 := w.Spawn()
	Add[Position](w, e1)
	e2 := w.Spawn()
	Add[Position](w, e2)

	q := NewQuery1[Position](w, Read[Position](w))
	visited := 0
	q.Each(func(Mut[Position]) {
		visited++
		Add[Velocity](w, e1)
	})

	if visited != 2 {
		t.Fatalf("iteration visited %d entities, want 2 (structural change mid-iteration must not skip rows)", visited)
	}
	if !Has[Velocity](w, e1) {
		t.Fatalf("deferred Add[Velocity] never applied after iteration finished")
	}
}

func TestSetDuringIterationIsDeferredNotPanic(t *testing.T) {
	w := NewWorld()
	e1 := w.Spawn()
	Add[Position](w, e1)
	e2 := w.Spawn()
	Add[Position](w, e2)

	q := NewQuery1[Position](w, Read[Position](w))
	visited := 0
	// e2 has no Health yet: Set must defer the Add it implies rather than
	// fall through to a column that was never installed.
	q.Each(func(Mut[Position]) {
		visited++
		Set(w, e2, Health{Current: 3, Max: 10})
	})

	if visited != 2 {
		t.Fatalf("iteration visited %d entities, want 2", visited)
	}
	h, ok := Get[Health](w, e2)
	if !ok || h.Current != 3 || h.Max != 10 {
		t.Fatalf("deferred Set never applied after iteration finished: %+v, ok=%v", h, ok)
	}
}
