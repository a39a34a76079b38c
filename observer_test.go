package queen

import "testing"

func TestOnAddFiresWhenComponentAttached(t *testing.T) {
	w := NewWorld()
	fired := []Entity{}
	OnAdd[Position](w, func(w *World, e Entity) { fired = append(fired, e) })

	e := w.Spawn()
	Add[Position](w, e)

	if len(fired) != 1 || fired[0] != e {
		t.Fatalf("OnAdd fired for %v, want exactly [%v]", fired, e)
	}
}

func TestOnAddDoesNotFireOnBareSpawn(t *testing.T) {
	w := NewWorld()
	fired := 0
	OnAdd[Position](w, func(w *World, e Entity) { fired++ })

	w.Spawn()

	if fired != 0 {
		t.Fatalf("OnAdd fired %d times on Spawn with no components, want 0", fired)
	}
}

func TestOnRemoveFiresBeforeComponentGone(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	Add[Position](w, e)
	Set(w, e, Position{X: 5, Y: 6})

	var sawValue Position
	var sawPresence bool
	OnRemove[Position](w, func(w *World, e Entity) {
		p, ok := Get[Position](w, e)
		sawPresence = ok
		if ok {
			sawValue = *p
		}
	})

	Remove[Position](w, e)

	if !sawPresence {
		t.Fatalf("OnRemove observer could not read the component that's being removed")
	}
	if sawValue.X != 5 || sawValue.Y != 6 {
		t.Fatalf("OnRemove observer saw stale value %+v, want {5 6}", sawValue)
	}
	if Has[Position](w, e) {
		t.Fatalf("Position still present after Remove returned")
	}
}

func TestOnSetFiresOnOverwrite(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	Add[Health](w, e)

	fired := 0
	OnSet[Health](w, func(w *World, e Entity) { fired++ })

	Set(w, e, Health{Current: 10, Max: 10})
	Set(w, e, Health{Current: 5, Max: 10})

	if fired != 2 {
		t.Fatalf("OnSet fired %d times, want 2", fired)
	}
}

func TestOnAddWithExposesTypedValue(t *testing.T) {
	w := NewWorld()
	var seenCurrent, seenMax int
	OnAddWith[Health](w, func(w *World, e Entity, value *Health) {
		seenCurrent, seenMax = value.Current, value.Max
	})

	e := w.Spawn()
	Add[Health](w, e)
	Set(w, e, Health{Current: 7, Max: 10})

	// OnAdd fires at attach time, before Set — the zero-valued component.
	if seenCurrent != 0 || seenMax != 0 {
		t.Fatalf("OnAddWith saw %+v, want the zero value at attach time", Health{Current: seenCurrent, Max: seenMax})
	}
}

func TestOnSetWithExposesTypedValue(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	Add[Health](w, e)

	var seen Health
	OnSetWith[Health](w, func(w *World, e Entity, value *Health) {
		seen = *value
	})
	Set(w, e, Health{Current: 7, Max: 10})

	if seen.Current != 7 || seen.Max != 10 {
		t.Fatalf("OnSetWith saw %+v, want {7 10}", seen)
	}
}

func TestOnRemoveWithExposesValueBeforeRemoval(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	Add[Position](w, e)
	Set(w, e, Position{X: 5, Y: 6})

	var seen Position
	OnRemoveWith[Position](w, func(w *World, e Entity, value *Position) {
		seen = *value
	})
	Remove[Position](w, e)

	if seen.X != 5 || seen.Y != 6 {
		t.Fatalf("OnRemoveWith saw %+v, want {5 6}", seen)
	}
	if Has[Position](w, e) {
		t.Fatalf("Position still present after Remove returned")
	}
}

func TestObserverReentrancyGuardPreventsRecursion(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	Add[Health](w, e)

	calls := 0
	OnSet[Health](w, func(w *World, e Entity) {
		calls++
		if calls < 5 {
			// would recurse forever without the guard
			Set(w, e, Health{Current: calls, Max: 10})
		}
	})

	Set(w, e, Health{Current: 0, Max: 10})

	if calls != 1 {
		t.Fatalf("OnSet re-entered during its own firing: calls = %d, want 1", calls)
	}
}
