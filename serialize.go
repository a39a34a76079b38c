package queen

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// WorldDeserializeResult reports what a Deserialize call actually did,
// including how many component values were skipped because their type
// name isn't registered on the target world (forward-compatible loading:
// an older world can load a newer save, dropping fields it doesn't know).
type WorldDeserializeResult struct {
	Success           bool
	EntitiesLoaded    int
	ComponentsLoaded  int
	ComponentsSkipped int
	Err               error
}

type serializedComponent struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type serializedEntity struct {
	Id         uint64                 `json:"id"`
	Parent     *uint64                `json:"parent,omitempty"`
	Components []serializedComponent `json:"components"`
}

type serializedWorld struct {
	Version  int                `json:"version"`
	Entities []serializedEntity `json:"entities"`
}

// Serialize encodes every live entity in w as JSON: {"version":1,"entities":[...]}.
// Each entity records its serialized id (its packed handle, used only to
// resolve intra-document parent/entity-reference links, not reused as a
// live handle on load), its parent's serialized id if any, and its
// components by registered type name.
func Serialize(w *World) ([]byte, error) {
	doc := serializedWorld{Version: 1}
	for _, arch := range w.graph.All() {
		for row := 0; row < arch.EntityCount(); row++ {
			e := arch.GetEntity(row)
			se := serializedEntity{Id: uint64(e)}
			if parent := w.ParentOf(e); !parent.IsNull() {
				pid := uint64(parent)
				se.Parent = &pid
			}
			for _, t := range arch.types {
				meta := w.registry.MetaFor(t)
				value := arch.columns[t].GetAny(row)
				raw, err := json.Marshal(value)
				if err != nil {
					return nil, fmt.Errorf("queen: marshal component %s: %w", meta.Name, err)
				}
				if len(raw) > Config.MaxComponentBytes {
					return nil, fmt.Errorf("queen: component %s exceeds %d byte limit", meta.Name, Config.MaxComponentBytes)
				}
				se.Components = append(se.Components, serializedComponent{Type: meta.Name, Value: raw})
			}
			doc.Entities = append(doc.Entities, se)
		}
	}
	return json.Marshal(doc)
}

// Deserialize loads data into w additively: existing entities are left
// untouched, every serialized entity spawns a brand new live entity, and
// Entity-typed fields (including parent links) are remapped from the
// document's serialized ids to the freshly spawned live handles. Unknown
// component type names are skipped and counted, not treated as an error.
func Deserialize(w *World, data []byte) WorldDeserializeResult {
	if strings.Contains(string(data), `\u`) {
		return WorldDeserializeResult{Err: fmt.Errorf("queen: unicode escape sequences are not supported")}
	}

	var doc serializedWorld
	if err := json.Unmarshal(data, &doc); err != nil {
		return WorldDeserializeResult{Err: fmt.Errorf("queen: parse world document: %w", err)}
	}
	if len(doc.Entities) > Config.MaxSerializedEntities {
		return WorldDeserializeResult{Err: fmt.Errorf("queen: document has %d entities, exceeds limit of %d", len(doc.Entities), Config.MaxSerializedEntities)}
	}

	result := WorldDeserializeResult{}
	remap := make(map[uint64]Entity, len(doc.Entities))
	parentLinks := make(map[Entity]uint64)

	for _, se := range doc.Entities {
		live := w.Spawn()
		remap[se.Id] = live
		if se.Parent != nil {
			parentLinks[live] = *se.Parent
		}
		result.EntitiesLoaded++
	}

	resolve := func(serialized Entity) (Entity, bool) {
		live, ok := remap[uint64(serialized)]
		return live, ok
	}

	for i, se := range doc.Entities {
		live := remap[se.Id]
		for _, sc := range se.Components {
			typeId, ok := w.registry.ByName(sc.Type)
			if !ok {
				result.ComponentsSkipped++
				continue
			}
			meta := w.registry.MetaFor(typeId)
			value, err := meta.DecodeJSON(sc.Value)
			if err != nil {
				result.ComponentsSkipped++
				continue
			}
			w.addRawComponent(live, typeId, value)
			if len(meta.Fields) > 0 {
				w.remapComponentEntities(live, typeId, meta.Fields, resolve)
			}
			result.ComponentsLoaded++
		}
		_ = i
	}

	for child, serializedParent := range parentLinks {
		if parent, ok := remap[serializedParent]; ok {
			_ = w.SetParent(child, parent)
		}
	}

	result.Success = true
	return result
}

// addRawComponent migrates live to the archetype reached by adding typeId
// (the type-erased counterpart of Add[T], used by Deserialize which only
// has a reflect.Type, not a static T) and stores value in its new column.
func (w *World) addRawComponent(live Entity, typeId TypeId, value any) {
	if !w.IsAlive(live) {
		return
	}
	rec, _ := w.locations.Get(live)
	src := w.graph.Get(rec.archetype)
	dest := src
	if !src.HasComponent(typeId) {
		dest = w.graph.GetOrCreateAddTarget(src, typeId)
		destRow, moved := src.moveRowTo(dest, rec.row, live, w.currentTick)
		if !moved.IsNull() {
			w.locations.Set(moved, entityRecord{archetype: src.id, row: rec.row})
		}
		w.locations.Set(live, entityRecord{archetype: dest.id, row: destRow})
		rec = entityRecord{archetype: dest.id, row: destRow}
	}
	dest.columns[typeId].SetAny(rec.row, value, w.currentTick)
}

// remapComponentEntities rewrites Entity-typed fields of live's component
// typeId in place, translating each serialized id found to its live
// counterpart via resolve.
func (w *World) remapComponentEntities(live Entity, typeId TypeId, fields []FieldInfo, resolve func(Entity) (Entity, bool)) {
	rec, ok := w.locations.Get(live)
	if !ok {
		return
	}
	col := w.graph.Get(rec.archetype).columns[typeId]
	boxed := col.GetAny(rec.row)

	ptr := reflect.New(reflect.TypeOf(boxed))
	ptr.Elem().Set(reflect.ValueOf(boxed))
	remapEntityFields(ptr.Elem(), fields, resolve)
	col.SetAny(rec.row, ptr.Elem().Interface(), w.currentTick)
}
