/*
Package wax provides the container primitives the queen ECS is built on:
a growable Vector, a Robin-Hood open-addressing HashMap, and a small-string-
optimized String/StringView pair.

These mirror the role github.com/TheBitDrifter/table and
github.com/TheBitDrifter/mask play for the warehouse ECS: a small, dependency-light
layer the ECS's entity generations, archetype entity rows, entity location map
and component index are built directly on top of. Component columns use plain
Go slices.
*/
package wax
