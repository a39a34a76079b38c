package queen

import (
	"encoding/json"
	"reflect"
)

// TypeId identifies a registered component type. It is assigned densely and
// monotonically at registration and doubles as the bit index passed to
// mask.Mask.Mark, unifying archetype identity with component identity the
// same way the schema's RowIndexFor bit feeds storage's entityMask.
type TypeId uint32

// ComponentMeta captures what the world needs to handle a component type
// without its static type: its name, Go type and reflected fields, a
// constructor for an empty typed column, and a JSON decoder producing a
// boxed value. Row construction and moves are methods of the column itself.
type ComponentMeta struct {
	TypeId    TypeId
	Name      string
	GoType    reflect.Type
	Fields    []FieldInfo
	NewColumn func(capacity int) Column
	DecodeJSON func(data []byte) (any, error)
}

// ComponentRegistry assigns TypeIds to component types and retains the
// metadata needed to build columns and drive reflection-based
// serialization. A World owns one registry, shared by every archetype.
type ComponentRegistry struct {
	byType []ComponentMeta
	byName map[string]TypeId
	byGo   map[reflect.Type]TypeId
}

// NewComponentRegistry returns an empty registry ready for registration.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		byName: make(map[string]TypeId),
		byGo:   make(map[reflect.Type]TypeId),
	}
}

// RegisterComponent assigns T a TypeId the first time it is seen and returns
// that id on every subsequent call, mirroring the schema's Register being
// idempotent across repeated calls with the same component.
func RegisterComponent[T any](r *ComponentRegistry) TypeId {
	var zero T
	goType := reflect.TypeOf(zero)
	if id, ok := r.byGo[goType]; ok {
		return id
	}
	id := TypeId(len(r.byType))
	meta := ComponentMeta{
		TypeId: id,
		Name:   goType.String(),
		GoType: goType,
		Fields: describeFields(goType),
		NewColumn: func(capacity int) Column {
			return newColumn[T](id, capacity)
		},
		DecodeJSON: func(data []byte) (any, error) {
			var v T
			if err := json.Unmarshal(data, &v); err != nil {
				return nil, err
			}
			return v, nil
		},
	}
	r.byType = append(r.byType, meta)
	r.byName[meta.Name] = id
	r.byGo[goType] = id
	return id
}

// MetaFor returns the registered metadata for id. Panics if id was never
// registered; callers only ever pass ids this registry itself produced.
func (r *ComponentRegistry) MetaFor(id TypeId) ComponentMeta {
	return r.byType[id]
}

// Lookup returns the TypeId registered for T, and false if T was never
// registered with this registry.
func Lookup[T any](r *ComponentRegistry) (TypeId, bool) {
	var zero T
	id, ok := r.byGo[reflect.TypeOf(zero)]
	return id, ok
}

// ByName returns the TypeId registered under a reflect-derived type name,
// used by world deserialization to resolve component names found in JSON.
func (r *ComponentRegistry) ByName(name string) (TypeId, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Count returns the number of distinct registered component types.
func (r *ComponentRegistry) Count() int {
	return len(r.byType)
}
