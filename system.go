package queen

// systemHandle is the type-erased record a World keeps per registered
// system: a name, an enabled flag, the tick it last ran at (for Since-style
// change filtering inside the system's own query), and the closure that
// actually runs it.
type systemHandle struct {
	name        string
	enabled     bool
	lastRunTick Tick
	run         func(w *World, lastRunTick Tick)
}

// System1 registers a system built around a Query1[T1], constructed fresh
// (with Since(lastRunTick) applied) on every Update so Added/Changed
// filters are evaluated against the tick the system last actually ran at.
func System1[T1 any](w *World, name string, terms []Term, fn func(*Query1[T1])) {
	w.systems = append(w.systems, &systemHandle{
		name:    name,
		enabled: true,
		run: func(w *World, since Tick) {
			fn(NewQuery1[T1](w, terms...).Since(since))
		},
	})
}

// System2 registers a system built around a Query2[T1,T2].
func System2[T1, T2 any](w *World, name string, terms []Term, fn func(*Query2[T1, T2])) {
	w.systems = append(w.systems, &systemHandle{
		name:    name,
		enabled: true,
		run: func(w *World, since Tick) {
			fn(NewQuery2[T1, T2](w, terms...).Since(since))
		},
	})
}

// System3 registers a system built around a Query3[T1,T2,T3].
func System3[T1, T2, T3 any](w *World, name string, terms []Term, fn func(*Query3[T1, T2, T3])) {
	w.systems = append(w.systems, &systemHandle{
		name:    name,
		enabled: true,
		run: func(w *World, since Tick) {
			fn(NewQuery3[T1, T2, T3](w, terms...).Since(since))
		},
	})
}

// System4 registers a system built around a Query4[T1,T2,T3,T4].
func System4[T1, T2, T3, T4 any](w *World, name string, terms []Term, fn func(*Query4[T1, T2, T3, T4])) {
	w.systems = append(w.systems, &systemHandle{
		name:    name,
		enabled: true,
		run: func(w *World, since Tick) {
			fn(NewQuery4[T1, T2, T3, T4](w, terms...).Since(since))
		},
	})
}

// SetSystemEnabled toggles whether a named system runs on Update.
func (w *World) SetSystemEnabled(name string, enabled bool) {
	for _, s := range w.systems {
		if s.name == name {
			s.enabled = enabled
			return
		}
	}
}

// Update advances the world's tick, then runs every enabled system once, in
// registration order, with each system's own last_run_tick from its
// previous invocation. The tick increments before any system runs, so every
// write made during this Update carries the new tick: a system's
// Added/Changed filters see writes made earlier within the same Update by
// systems registered before it, while its own writes from its previous run
// carry its last_run_tick and are not reported again.
func (w *World) Update() {
	w.currentTick++
	now := w.currentTick
	for _, s := range w.systems {
		if !s.enabled {
			continue
		}
		s.run(w, s.lastRunTick)
		s.lastRunTick = now
	}
}
