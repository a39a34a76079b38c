package queen

import "fmt"

// LockedWorldError describes a structural operation attempted while the
// world is mid-iteration. Structural operations in this package are
// deferred until the iteration ends instead, so none of them returns it.
type LockedWorldError struct{}

func (e LockedWorldError) Error() string {
	return "world is currently locked by an in-progress query or system"
}

// EntityRelationError reports that Child already has a parent assigned.
type EntityRelationError struct {
	Child, Parent Entity
}

func (e EntityRelationError) Error() string {
	return fmt.Sprintf("entity %v already has a parent, cannot assign %v", e.Child, e.Parent)
}

// DeadEntityError describes an operation that targets a despawned or stale
// entity handle. Operations in this package treat such a handle as a silent
// no-op and do not return it.
type DeadEntityError struct {
	Entity Entity
}

func (e DeadEntityError) Error() string {
	return fmt.Sprintf("entity %v is not alive", e.Entity)
}

// UnknownComponentError describes a component type referenced before it
// has been registered with the world. Generic operations register T on
// first use and Deserialize counts unknown names as skipped, so no function
// in this package returns it.
type UnknownComponentError struct {
	Name string
}

func (e UnknownComponentError) Error() string {
	return fmt.Sprintf("component type %q is not registered", e.Name)
}

// ResourceNotFoundError describes a request for a resource type that was
// never inserted. Resource[T] reports absence through its bool result and
// does not return this error.
type ResourceNotFoundError struct {
	Name string
}

func (e ResourceNotFoundError) Error() string {
	return fmt.Sprintf("resource %q is not present", e.Name)
}
