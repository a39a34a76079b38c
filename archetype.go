package queen

import (
	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/queen/wax"
)

// ArchetypeId uniquely identifies an archetype for the lifetime of a World.
type ArchetypeId uint32

// Archetype groups every entity that shares the exact same component set in
// dense, column-major storage. Rows are index-aligned across entities and
// columns: row i of every column belongs to entities.At(i).
type Archetype struct {
	id       ArchetypeId
	typeMask mask.Mask
	types    []TypeId

	entities *wax.Vector[Entity]
	columns  map[TypeId]Column

	addEdges    map[TypeId]ArchetypeId
	removeEdges map[TypeId]ArchetypeId
}

func newArchetype(id ArchetypeId, types []TypeId, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:          id,
		types:       types,
		entities:    wax.NewVector[Entity](8),
		columns:     make(map[TypeId]Column, len(types)),
		addEdges:    make(map[TypeId]ArchetypeId),
		removeEdges: make(map[TypeId]ArchetypeId),
	}
	for _, t := range types {
		a.typeMask.Mark(uint32(t))
		a.columns[t] = registry.MetaFor(t).NewColumn(8)
	}
	return a
}

func (a *Archetype) ID() ArchetypeId {
	return a.id
}

// Mask implements mask.Maskable so query evaluation can test archetype
// membership the same way the teacher's table does via ContainsAll/Any/None.
func (a *Archetype) Mask() mask.Mask {
	return a.typeMask
}

// EntityCount returns the number of entities currently stored in this
// archetype.
func (a *Archetype) EntityCount() int {
	return a.entities.Len()
}

// ComponentCount returns the number of distinct component types on this
// archetype.
func (a *Archetype) ComponentCount() int {
	return len(a.types)
}

// ComponentTypes returns the archetype's component type set.
func (a *Archetype) ComponentTypes() []TypeId {
	return a.types
}

// HasComponent reports whether this archetype carries component t.
func (a *Archetype) HasComponent(t TypeId) bool {
	_, ok := a.columns[t]
	return ok
}

// GetEntity returns the entity stored at row.
func (a *Archetype) GetEntity(row int) Entity {
	return *a.entities.At(row)
}

// column returns the typed column for t, or nil if not present.
func (a *Archetype) column(t TypeId) Column {
	return a.columns[t]
}

// AllocateRow appends e as a new row, default-constructing every column's
// slot and stamping Added/Changed to now. Returns the new row index.
func (a *Archetype) AllocateRow(e Entity, now Tick) int {
	row := a.entities.Len()
	a.entities.PushBack(e)
	for _, col := range a.columns {
		col.PushDefault(now)
	}
	return row
}

// FreeRow removes row via swap-remove, returning the entity that was moved
// into row's old slot (or NullEntity if row was the last row, meaning
// nothing moved and the caller's location map needs no correction).
func (a *Archetype) FreeRow(row int) Entity {
	moved := a.entities.SwapRemove(row)
	for _, col := range a.columns {
		col.SwapRemove(row)
	}
	if moved < 0 {
		return NullEntity
	}
	return *a.entities.At(row)
}

// moveRowTo migrates srcRow's shared columns into dest, appends e to dest's
// entity vector, then frees srcRow from a. Returns dest's new row index and
// the entity (if any) that swap-removal relocated within a.
func (a *Archetype) moveRowTo(dest *Archetype, srcRow int, e Entity, now Tick) (destRow int, moved Entity) {
	destRow = dest.entities.Len()
	dest.entities.PushBack(e)
	for t, destCol := range dest.columns {
		if srcCol, ok := a.columns[t]; ok {
			destCol.MoveRowFrom(srcCol, srcRow, now)
		} else {
			destCol.PushDefault(now)
		}
	}
	moved = a.FreeRow(srcRow)
	return destRow, moved
}
