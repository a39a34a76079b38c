package queen

import "reflect"

// FieldKind classifies a struct field for the purposes of entity-reference
// remapping during deserialization: every field is walked once, looking
// for Entity-typed leaves (direct or nested in structs/slices) that need
// their serialized id translated to a live handle.
type FieldKind uint8

const (
	FieldOther FieldKind = iota
	FieldEntity
	FieldStruct
	FieldSlice
)

// FieldInfo describes one field of a registered component type, built once
// via reflection at RegisterComponent[T] time rather than on every
// serialize/deserialize call.
type FieldInfo struct {
	Name   string
	Index  int
	Kind   FieldKind
	Nested []FieldInfo
}

var entityType = reflect.TypeOf(Entity(0))

// describeFields walks t's fields (t must be a struct type) and records
// which ones are Entity references, directly or nested, so
// remapEntityFields can find them without re-walking the type each time.
func describeFields(t reflect.Type) []FieldInfo {
	if t.Kind() != reflect.Struct {
		return nil
	}
	fields := make([]FieldInfo, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		info := FieldInfo{Name: f.Name, Index: i}
		switch {
		case f.Type == entityType:
			info.Kind = FieldEntity
		case f.Type.Kind() == reflect.Struct:
			info.Kind = FieldStruct
			info.Nested = describeFields(f.Type)
		case f.Type.Kind() == reflect.Slice && f.Type.Elem() == entityType:
			info.Kind = FieldSlice
		default:
			info.Kind = FieldOther
		}
		fields = append(fields, info)
	}
	return fields
}

// remapEntityFields rewrites every Entity-typed field reachable from v
// (addressable, struct-kind) by replacing a serialized placeholder id with
// its live counterpart via resolve. Fields resolve has no mapping for are
// left untouched.
func remapEntityFields(v reflect.Value, fields []FieldInfo, resolve func(serialized Entity) (Entity, bool)) {
	for _, fi := range fields {
		fv := v.Field(fi.Index)
		switch fi.Kind {
		case FieldEntity:
			cur := Entity(fv.Uint())
			if live, ok := resolve(cur); ok {
				fv.SetUint(uint64(live))
			}
		case FieldStruct:
			remapEntityFields(fv, fi.Nested, resolve)
		case FieldSlice:
			for i := 0; i < fv.Len(); i++ {
				elem := fv.Index(i)
				cur := Entity(elem.Uint())
				if live, ok := resolve(cur); ok {
					elem.SetUint(uint64(live))
				}
			}
		}
	}
}
