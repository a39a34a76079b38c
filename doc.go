/*
Package queen is an archetype-based Entity-Component-System runtime.

Queen keeps entities that share the same component types packed together in
column-major storage, so iterating a query touches dense, cache-friendly
memory rather than chasing pointers through per-entity objects.

Core Concepts:

  - Entity: a lightweight handle (index + generation) identifying a game
    object.
  - Component: a plain Go struct type attached to entities via Add/Set.
  - Archetype: the set of entities sharing an exact component type set,
    connected to neighboring archetypes by cached Add/Remove edges.
  - Query: a fixed-arity, generically-typed view (Query1..Query4) over
    entities matching a set of Read/Write/Added/Changed terms.

Basic usage:

	w := queen.NewWorld()
	e := w.Spawn()
	queen.Add[Position](w, e)
	queen.Set(w, e, Position{X: 1, Y: 2})

	q := queen.NewQuery1[Position](w, queen.Write[Position](w))
	q.Each(func(pos queen.Mut[Position]) {
		p := pos.Get()
		p.X += 1
	})
*/
package queen
