// Package module implements the registry mapping a module name (as named
// in a task's `module` field) to its schema and execute function, mirroring
// the Plugin/PluginRegistry split in the teacher's internal/plugin package.
package module

import (
	"context"
	"fmt"
	"sync"

	"github.com/mknsr/hidori/internal/message"
	"github.com/mknsr/hidori/internal/schema"
	"github.com/mknsr/hidori/internal/schemaerr"
)

// ExecuteFunc performs a module's effect given validated task data and a
// messenger to report through. ctx carries the executor process's
// cancellation signal for modules with blocking operations (e.g. wait).
type ExecuteFunc func(ctx context.Context, validated map[string]any, messenger *message.Messenger) error

// Module is a named unit of work: a schema describing its task data, and
// the function invoked once that data has passed validation.
type Module struct {
	Name    string
	Schema  *schema.Schema
	Execute ExecuteFunc
}

// Validate runs data through the module's schema, converting any
// SchemaError into one error-typed message per failing field on messenger
// (spec.md §4.2). A non-empty messenger after Validate signals validation
// failure to the caller without raising.
func (m *Module) Validate(data map[string]any, messenger *message.Messenger) map[string]any {
	validated, err := m.Schema.Validate(data)
	if err == nil {
		return validated
	}

	schemaErr, ok := err.(*schemaerr.SchemaError)
	if !ok {
		messenger.QueueError(err.Error())
		return nil
	}

	for _, field := range sortedFieldNames(schemaErr.Errors) {
		messenger.QueueError(fmt.Sprintf("%s: %v", field, schemaErr.Errors[field]))
	}
	return nil
}

func sortedFieldNames(errs schemaerr.FieldErrors) []string {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	// Deterministic ordering keeps message output stable across runs.
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	return names
}

// Registry maps module names to their Module, process-wide and safe for
// concurrent use, matching internal/plugin/registry.go's RWMutex pattern.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*Module
}

// NewRegistry creates an empty module registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]*Module)}
}

// Register adds a module. Re-registering an existing name is fatal to the
// caller (returns an error rather than panicking, since process-startup
// registration in this module is explicit rather than import-side-effect
// driven).
func (r *Registry) Register(m *Module) error {
	if m == nil {
		return schemaerr.NewPluginError("", "module is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[m.Name]; exists {
		return schemaerr.NewPluginError(m.Name, "module already registered")
	}
	r.modules[m.Name] = m
	return nil
}

// Get retrieves a module by name.
func (r *Registry) Get(name string) (*Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.modules[name]
	if !ok {
		return nil, schemaerr.NewPluginError(name, "no module registered")
	}
	return m, nil
}

// Names returns every registered module name, in no particular order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	return names
}
