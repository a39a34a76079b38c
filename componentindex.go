package queen

import (
	"github.com/TheBitDrifter/queen/wax"
	"github.com/kamstrup/intmap"
)

// ComponentIndex is a reverse lookup from a component TypeId to every
// archetype that carries it. The graph keeps it in sync as archetypes are
// created; the Query* types do not consult it and instead test every
// archetype's mask.
type ComponentIndex struct {
	byType *intmap.Map[TypeId, *wax.Vector[*Archetype]]
}

func newComponentIndex() ComponentIndex {
	return ComponentIndex{
		byType: intmap.New[TypeId, *wax.Vector[*Archetype]](64),
	}
}

// Add records that archetype a now carries component t.
func (ci ComponentIndex) Add(t TypeId, a *Archetype) {
	if existing, ok := ci.byType.Get(t); ok {
		existing.PushBack(a)
		return
	}
	v := wax.NewVector[*Archetype](4)
	v.PushBack(a)
	ci.byType.Put(t, v)
}

// ArchetypesWith returns every archetype known to carry component t.
func (ci ComponentIndex) ArchetypesWith(t TypeId) []*Archetype {
	v, ok := ci.byType.Get(t)
	if !ok {
		return nil
	}
	return v.Data()
}
