package comb

import "sync"

// ModuleAllocator is a named owner of a BuddyAllocator wrapped in a
// ThreadSafeAllocator — the "default allocator" concept: a generic,
// safe-to-share allocator a subsystem registers itself under for
// aggregate reporting.
type ModuleAllocator struct {
	*ThreadSafeAllocator
	moduleName string
}

// NewModuleAllocator creates and registers a ModuleAllocator of the given
// capacity in the process-wide Modules registry.
func NewModuleAllocator(moduleName string, capacity uintptr) *ModuleAllocator {
	m := &ModuleAllocator{
		ThreadSafeAllocator: NewThreadSafeAllocator(NewBuddyAllocator(capacity, moduleName)),
		moduleName:          moduleName,
	}
	Modules.register(m)
	return m
}

// ModuleReport summarizes one registered ModuleAllocator's usage.
type ModuleReport struct {
	Name  string
	Used  uintptr
	Total uintptr
}

// moduleRegistry is the process-wide singleton ModuleAllocators register
// themselves in, for aggregate leak/usage reporting.
type moduleRegistry struct {
	mu      sync.Mutex
	modules []*ModuleAllocator
}

// Modules is the process-wide ModuleAllocator registry.
var Modules = &moduleRegistry{}

func (r *moduleRegistry) register(m *ModuleAllocator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = append(r.modules, m)
}

// Report returns a usage snapshot for every registered module.
func (r *moduleRegistry) Report() []ModuleReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	reports := make([]ModuleReport, len(r.modules))
	for i, m := range r.modules {
		reports[i] = ModuleReport{Name: m.moduleName, Used: m.UsedMemory(), Total: m.TotalMemory()}
	}
	return reports
}
