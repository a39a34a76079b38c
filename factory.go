package queen

// factory implements the factory pattern for queen worlds and queries.
type factory struct{}

// Factory is the global factory instance for creating queen worlds.
var Factory factory

// NewWorld creates a new, empty World.
func (f factory) NewWorld() *World {
	return NewWorld()
}
