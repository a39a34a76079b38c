package queen

import (
	"fmt"

	"github.com/TheBitDrifter/mask"
)

type termKind uint8

const (
	termRead termKind = iota
	termWrite
	termAdded
	termChanged
	termAddedOrChanged
)

// Term is one clause of a query: a component type plus how the query
// relates to it. Read/Write terms additionally appear, in declaration
// order, as the typed Mut[T] arguments a Query's Each callback receives;
// Added/Changed/AddedOrChanged are pure row filters and never appear in
// the callback signature.
type Term struct {
	kind   termKind
	typeId TypeId
}

// Read declares that a query requires component T and exposes it to Each
// as a read-oriented Mut[T] (GetReadOnly never stamps Changed; Get still
// can, since Mut doesn't forbid it, it just isn't the intended use).
func Read[T any](w *World) Term {
	return Term{kind: termRead, typeId: mustRegister[T](w)}
}

// Write declares that a query requires component T and exposes it to Each
// as a write-oriented Mut[T]: calling Get() stamps the component's Changed
// tick to the query's current tick.
func Write[T any](w *World) Term {
	return Term{kind: termWrite, typeId: mustRegister[T](w)}
}

// Added filters rows to those whose component T was added after the
// query's since-tick (see Query*.Since). Does not appear in Each.
func Added[T any](w *World) Term {
	return Term{kind: termAdded, typeId: mustRegister[T](w)}
}

// Changed filters rows to those whose component T was written after the
// query's since-tick. Does not appear in Each.
func Changed[T any](w *World) Term {
	return Term{kind: termChanged, typeId: mustRegister[T](w)}
}

// AddedOrChanged filters rows to those whose component T was added or
// written after the query's since-tick. Does not appear in Each.
func AddedOrChanged[T any](w *World) Term {
	return Term{kind: termAddedOrChanged, typeId: mustRegister[T](w)}
}

// Mut is the uniform accessor every Read/Write term exposes to Each: Get
// marks the component changed this tick (a no-op for a Read term, which
// never stamps), GetReadOnly never does.
type Mut[T any] struct {
	col      *column[T]
	row      int
	tick     Tick
	writable bool
}

// Get returns a pointer to the component, stamping its Changed tick to the
// query's current tick if this term was declared with Write.
func (m Mut[T]) Get() *T {
	if m.writable {
		return m.col.GetMut(m.row, m.tick)
	}
	return m.col.Get(m.row)
}

// GetReadOnly returns a pointer to the component without affecting change
// detection, regardless of how the term was declared.
func (m Mut[T]) GetReadOnly() *T {
	return m.col.Get(m.row)
}

func rowMatchesFilters(arch *Archetype, row int, terms []Term, since Tick) bool {
	for _, t := range terms {
		switch t.kind {
		case termAdded:
			if !arch.columns[t.typeId].Ticks(row).WasAdded(since) {
				return false
			}
		case termChanged:
			if !arch.columns[t.typeId].Ticks(row).WasChanged(since) {
				return false
			}
		case termAddedOrChanged:
			ticks := arch.columns[t.typeId].Ticks(row)
			if !ticks.WasAdded(since) && !ticks.WasChanged(since) {
				return false
			}
		}
	}
	return true
}

func findPrimary(terms []Term, typeId TypeId) (writable bool, ok bool) {
	for _, t := range terms {
		if t.typeId == typeId && (t.kind == termRead || t.kind == termWrite) {
			return t.kind == termWrite, true
		}
	}
	return false, false
}

func newIncludeMask(terms []Term) mask.Mask {
	var m mask.Mask
	for _, t := range terms {
		m.Mark(uint32(t.typeId))
	}
	return m
}

func requirePrimary[T any](w *World, terms []Term, slot int) (TypeId, bool) {
	id := mustRegister[T](w)
	writable, ok := findPrimary(terms, id)
	if !ok {
		panicIfDebug(fmt.Errorf("query slot %d: missing Read[T]/Write[T] term for its type", slot))
	}
	return id, writable
}

// Query1 iterates every entity carrying component T1 (plus whatever
// additional filter terms were supplied), exposing T1 to Each as Mut[T1].
type Query1[T1 any] struct {
	world       *World
	terms       []Term
	id1         TypeId
	write1      bool
	includeMask mask.Mask
	since       Tick
}

// NewQuery1 builds a Query1 requiring a Read[T1] or Write[T1] term among
// terms, plus any number of additional filter terms.
func NewQuery1[T1 any](w *World, terms ...Term) *Query1[T1] {
	id1, write1 := requirePrimary[T1](w, terms, 1)
	q := &Query1[T1]{world: w, terms: terms, id1: id1, write1: write1}
	q.includeMask = newIncludeMask(terms)
	return q
}

// Since narrows Added/Changed/AddedOrChanged filters to ticks newer than
// tick, mirroring a system's last_run_tick.
func (q *Query1[T1]) Since(tick Tick) *Query1[T1] {
	q.since = tick
	return q
}

// Each invokes fn once per matching row.
func (q *Query1[T1]) Each(fn func(Mut[T1])) {
	q.EachWithEntity(func(_ Entity, v Mut[T1]) { fn(v) })
}

// EachWithEntity invokes fn once per matching row, also passing the row's
// owning entity.
func (q *Query1[T1]) EachWithEntity(fn func(Entity, Mut[T1])) {
	q.world.lock()
	defer q.world.unlock()
	tick := q.world.currentTick
	for _, arch := range q.world.graph.All() {
		if !arch.typeMask.ContainsAll(q.includeMask) {
			continue
		}
		col1 := arch.columns[q.id1].(*column[T1])
		for row := 0; row < arch.EntityCount(); row++ {
			if !rowMatchesFilters(arch, row, q.terms, q.since) {
				continue
			}
			fn(arch.GetEntity(row), Mut[T1]{col: col1, row: row, tick: tick, writable: q.write1})
		}
	}
}

// Query2 iterates every entity carrying T1 and T2.
type Query2[T1, T2 any] struct {
	world               *World
	terms               []Term
	id1, id2            TypeId
	write1, write2      bool
	includeMask         mask.Mask
	since               Tick
}

func NewQuery2[T1, T2 any](w *World, terms ...Term) *Query2[T1, T2] {
	id1, write1 := requirePrimary[T1](w, terms, 1)
	id2, write2 := requirePrimary[T2](w, terms, 2)
	q := &Query2[T1, T2]{world: w, terms: terms, id1: id1, id2: id2, write1: write1, write2: write2}
	q.includeMask = newIncludeMask(terms)
	return q
}

func (q *Query2[T1, T2]) Since(tick Tick) *Query2[T1, T2] {
	q.since = tick
	return q
}

func (q *Query2[T1, T2]) Each(fn func(Mut[T1], Mut[T2])) {
	q.EachWithEntity(func(_ Entity, a Mut[T1], b Mut[T2]) { fn(a, b) })
}

func (q *Query2[T1, T2]) EachWithEntity(fn func(Entity, Mut[T1], Mut[T2])) {
	q.world.lock()
	defer q.world.unlock()
	tick := q.world.currentTick
	for _, arch := range q.world.graph.All() {
		if !arch.typeMask.ContainsAll(q.includeMask) {
			continue
		}
		col1 := arch.columns[q.id1].(*column[T1])
		col2 := arch.columns[q.id2].(*column[T2])
		for row := 0; row < arch.EntityCount(); row++ {
			if !rowMatchesFilters(arch, row, q.terms, q.since) {
				continue
			}
			fn(arch.GetEntity(row),
				Mut[T1]{col: col1, row: row, tick: tick, writable: q.write1},
				Mut[T2]{col: col2, row: row, tick: tick, writable: q.write2})
		}
	}
}

// Query3 iterates every entity carrying T1, T2 and T3.
type Query3[T1, T2, T3 any] struct {
	world                       *World
	terms                       []Term
	id1, id2, id3               TypeId
	write1, write2, write3      bool
	includeMask                 mask.Mask
	since                       Tick
}

func NewQuery3[T1, T2, T3 any](w *World, terms ...Term) *Query3[T1, T2, T3] {
	id1, write1 := requirePrimary[T1](w, terms, 1)
	id2, write2 := requirePrimary[T2](w, terms, 2)
	id3, write3 := requirePrimary[T3](w, terms, 3)
	q := &Query3[T1, T2, T3]{world: w, terms: terms, id1: id1, id2: id2, id3: id3, write1: write1, write2: write2, write3: write3}
	q.includeMask = newIncludeMask(terms)
	return q
}

func (q *Query3[T1, T2, T3]) Since(tick Tick) *Query3[T1, T2, T3] {
	q.since = tick
	return q
}

func (q *Query3[T1, T2, T3]) Each(fn func(Mut[T1], Mut[T2], Mut[T3])) {
	q.EachWithEntity(func(_ Entity, a Mut[T1], b Mut[T2], c Mut[T3]) { fn(a, b, c) })
}

func (q *Query3[T1, T2, T3]) EachWithEntity(fn func(Entity, Mut[T1], Mut[T2], Mut[T3])) {
	q.world.lock()
	defer q.world.unlock()
	tick := q.world.currentTick
	for _, arch := range q.world.graph.All() {
		if !arch.typeMask.ContainsAll(q.includeMask) {
			continue
		}
		col1 := arch.columns[q.id1].(*column[T1])
		col2 := arch.columns[q.id2].(*column[T2])
		col3 := arch.columns[q.id3].(*column[T3])
		for row := 0; row < arch.EntityCount(); row++ {
			if !rowMatchesFilters(arch, row, q.terms, q.since) {
				continue
			}
			fn(arch.GetEntity(row),
				Mut[T1]{col: col1, row: row, tick: tick, writable: q.write1},
				Mut[T2]{col: col2, row: row, tick: tick, writable: q.write2},
				Mut[T3]{col: col3, row: row, tick: tick, writable: q.write3})
		}
	}
}

// Query4 iterates every entity carrying T1, T2, T3 and T4.
type Query4[T1, T2, T3, T4 any] struct {
	world                              *World
	terms                              []Term
	id1, id2, id3, id4                 TypeId
	write1, write2, write3, write4     bool
	includeMask                        mask.Mask
	since                              Tick
}

func NewQuery4[T1, T2, T3, T4 any](w *World, terms ...Term) *Query4[T1, T2, T3, T4] {
	id1, write1 := requirePrimary[T1](w, terms, 1)
	id2, write2 := requirePrimary[T2](w, terms, 2)
	id3, write3 := requirePrimary[T3](w, terms, 3)
	id4, write4 := requirePrimary[T4](w, terms, 4)
	q := &Query4[T1, T2, T3, T4]{
		world: w, terms: terms,
		id1: id1, id2: id2, id3: id3, id4: id4,
		write1: write1, write2: write2, write3: write3, write4: write4,
	}
	q.includeMask = newIncludeMask(terms)
	return q
}

func (q *Query4[T1, T2, T3, T4]) Since(tick Tick) *Query4[T1, T2, T3, T4] {
	q.since = tick
	return q
}

func (q *Query4[T1, T2, T3, T4]) Each(fn func(Mut[T1], Mut[T2], Mut[T3], Mut[T4])) {
	q.EachWithEntity(func(_ Entity, a Mut[T1], b Mut[T2], c Mut[T3], d Mut[T4]) { fn(a, b, c, d) })
}

func (q *Query4[T1, T2, T3, T4]) EachWithEntity(fn func(Entity, Mut[T1], Mut[T2], Mut[T3], Mut[T4])) {
	q.world.lock()
	defer q.world.unlock()
	tick := q.world.currentTick
	for _, arch := range q.world.graph.All() {
		if !arch.typeMask.ContainsAll(q.includeMask) {
			continue
		}
		col1 := arch.columns[q.id1].(*column[T1])
		col2 := arch.columns[q.id2].(*column[T2])
		col3 := arch.columns[q.id3].(*column[T3])
		col4 := arch.columns[q.id4].(*column[T4])
		for row := 0; row < arch.EntityCount(); row++ {
			if !rowMatchesFilters(arch, row, q.terms, q.since) {
				continue
			}
			fn(arch.GetEntity(row),
				Mut[T1]{col: col1, row: row, tick: tick, writable: q.write1},
				Mut[T2]{col: col2, row: row, tick: tick, writable: q.write2},
				Mut[T3]{col: col3, row: row, tick: tick, writable: q.write3},
				Mut[T4]{col: col4, row: row, tick: tick, writable: q.write4})
		}
	}
}
