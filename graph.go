package queen

import "github.com/TheBitDrifter/mask"

// ArchetypeGraph owns every archetype in a World and memoizes the Add/Remove
// transition edges between them, so repeated component add/remove cycles on
// entities of the same shape resolve in O(1) after the first time they're
// seen, rather than re-walking a canonical map on every structural change.
type ArchetypeGraph struct {
	registry   *ComponentRegistry
	archetypes []*Archetype
	byMask     map[mask.Mask]ArchetypeId
	index      ComponentIndex
	nextID     ArchetypeId
}

func newArchetypeGraph(registry *ComponentRegistry) *ArchetypeGraph {
	g := &ArchetypeGraph{
		registry: registry,
		byMask:   make(map[mask.Mask]ArchetypeId),
		index:    newComponentIndex(),
	}
	g.empty()
	return g
}

// empty returns (creating if necessary) the archetype with no components,
// the root every entity starts at before its first component is added.
func (g *ArchetypeGraph) empty() *Archetype {
	var zero mask.Mask
	if id, ok := g.byMask[zero]; ok {
		return g.archetypes[id]
	}
	return g.create(nil)
}

// Empty exposes the zero-component root archetype.
func (g *ArchetypeGraph) Empty() *Archetype {
	return g.empty()
}

// Get returns the archetype for id.
func (g *ArchetypeGraph) Get(id ArchetypeId) *Archetype {
	return g.archetypes[id]
}

// All returns every archetype currently registered, in creation order.
func (g *ArchetypeGraph) All() []*Archetype {
	return g.archetypes
}

// create builds a brand new archetype for the given sorted, deduplicated
// type set and registers it in the canonical mask map and component index.
func (g *ArchetypeGraph) create(types []TypeId) *Archetype {
	id := g.nextID
	g.nextID++
	a := newArchetype(id, types, g.registry)
	g.archetypes = append(g.archetypes, a)
	g.byMask[a.typeMask] = id
	for _, t := range types {
		g.index.Add(t, a)
	}
	return a
}

// GetOrCreateAddTarget returns the archetype reached by adding component t
// to from, creating and caching the edge (and the destination archetype, if
// it didn't already exist under a different path) on first use.
func (g *ArchetypeGraph) GetOrCreateAddTarget(from *Archetype, t TypeId) *Archetype {
	if dest, ok := from.addEdges[t]; ok {
		return g.archetypes[dest]
	}
	if from.HasComponent(t) {
		from.addEdges[t] = from.id
		return from
	}

	destTypes := make([]TypeId, len(from.types)+1)
	copy(destTypes, from.types)
	destTypes[len(from.types)] = t
	sortTypeIds(destTypes)

	destMask := from.typeMask
	destMask.Mark(uint32(t))

	var dest *Archetype
	if id, ok := g.byMask[destMask]; ok {
		dest = g.archetypes[id]
	} else {
		dest = g.create(destTypes)
	}

	from.addEdges[t] = dest.id
	dest.removeEdges[t] = from.id
	return dest
}

// GetOrCreateRemoveTarget returns the archetype reached by removing
// component t from from, mirroring GetOrCreateAddTarget.
func (g *ArchetypeGraph) GetOrCreateRemoveTarget(from *Archetype, t TypeId) *Archetype {
	if dest, ok := from.removeEdges[t]; ok {
		return g.archetypes[dest]
	}
	if !from.HasComponent(t) {
		from.removeEdges[t] = from.id
		return from
	}

	destTypes := make([]TypeId, 0, len(from.types)-1)
	for _, existing := range from.types {
		if existing != t {
			destTypes = append(destTypes, existing)
		}
	}

	destMask := from.typeMask
	destMask.Unmark(uint32(t))

	var dest *Archetype
	if id, ok := g.byMask[destMask]; ok {
		dest = g.archetypes[id]
	} else {
		dest = g.create(destTypes)
	}

	from.removeEdges[t] = dest.id
	dest.addEdges[t] = from.id
	return dest
}

// sortTypeIds performs a small insertion sort; archetype type sets are tiny
// (a handful of components), so this beats paying for sort.Slice's overhead.
func sortTypeIds(ids []TypeId) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}
