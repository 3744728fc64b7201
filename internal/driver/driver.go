// Package driver defines the target-type adapter boundary (spec.md §4.4):
// a Driver owns a schema for its own configuration and a transport factory,
// and is responsible for staging an Exchange and pushing/invoking through
// it. Grounded in original_source/.../drivers/base.py and
// internal/ports/plugins.go's registry-interface style in the teacher.
package driver

import (
	"context"
	"fmt"

	"github.com/mknsr/hidori/internal/message"
	"github.com/mknsr/hidori/internal/schema"
)

// StepSource describes one step a Driver must stage: its task id and the
// JSON-serializable task envelope {name, data}.
type StepSource struct {
	TaskID string
	Name   string
	Data   map[string]any
}

// PrepareSource is everything a Driver needs to stage an exchange,
// independent of whether it is a full pipeline or a single one-shot call.
type PrepareSource struct {
	TargetID string
	Steps    []StepSource
	// ModuleNames lists the modules the steps use. StageDir does not
	// consult it: module code is compiled into the executor binary, which
	// is always staged whole.
	ModuleNames []string
}

// Exchange is one staged interaction with a single target, per spec.md §3.
type Exchange struct {
	ID        string
	LocalPath string
	Transport Transport
	Messages  []message.Message
}

// HasErrors reports whether any buffered message is error-typed.
func (e *Exchange) HasErrors() bool {
	for _, m := range e.Messages {
		if m.IsError() {
			return true
		}
	}
	return false
}

// Transport is the push/invoke surface a Driver depends on. It has the same
// method set as transport.Transport, so every concrete transport satisfies
// both.
type Transport interface {
	Push(ctx context.Context, exchangeID, local string) ([]message.Message, error)
	Invoke(ctx context.Context, exchangeID, program string, args []string) ([]message.Message, error)
}

// Driver prepares and drives exchanges against one target.
type Driver interface {
	// User returns the identity shown in printer prefixes.
	User() string
	// TargetID returns a stable, filesystem-safe identifier used in the
	// local staging path.
	TargetID() string

	// PreparePipeline stages a multi-step exchange under .../pipelines/....
	PreparePipeline(ctx context.Context, src PrepareSource) (*Exchange, error)
	// PrepareCall stages a single-step exchange under .../calls/....
	PrepareCall(ctx context.Context, src PrepareSource) (*Exchange, error)

	// Finalize pushes the exchange's staging directory to the target,
	// appending the push's messages to the exchange.
	Finalize(ctx context.Context, exchange *Exchange) error
	// InvokeExecutor runs the remote executor for one task id, appending
	// its messages to the exchange.
	InvokeExecutor(ctx context.Context, exchange *Exchange, taskID string) error
}

// Factory constructs a Driver from a raw configuration map, after
// validating it against the driver's own schema.
type Factory func(config map[string]any) (Driver, error)

// Registry maps a driver name (the `driver` key in a target's TOML
// section) to its Factory, process-wide and populated at startup.
type Registry struct {
	factories map[string]Factory
	schemas   map[string]*schema.Schema
	defaults  map[string]map[string]any
}

// NewRegistry creates an empty driver registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		schemas:   make(map[string]*schema.Schema),
		defaults:  make(map[string]map[string]any),
	}
}

// Register adds a driver factory under name, along with the schema used to
// validate its configuration before Factory is invoked and the defaults
// merged into a raw config map before that validation (see mergeDefaults).
func (r *Registry) Register(name string, s *schema.Schema, defaults map[string]any, factory Factory) {
	r.factories[name] = factory
	r.schemas[name] = s
	r.defaults[name] = defaults
}

const defaultDriverName = "ssh"

// Create pops the `driver` key from config (defaulting to "ssh"), merges in
// that driver's declared defaults, validates the result against the
// driver's schema, and instantiates it. Mirrors
// original_source/.../drivers/base.py's create_driver.
func (r *Registry) Create(config map[string]any) (Driver, error) {
	driverName := defaultDriverName
	rest := make(map[string]any, len(config))
	for k, v := range config {
		rest[k] = v
	}
	if v, ok := rest["driver"]; ok {
		if s, ok := v.(string); ok {
			driverName = s
		}
		delete(rest, "driver")
	}

	s, ok := r.schemas[driverName]
	if !ok {
		return nil, unknownDriverError(driverName)
	}

	if err := mergeDefaults(&rest, r.defaults[driverName]); err != nil {
		return nil, fmt.Errorf("merge %s driver defaults: %w", driverName, err)
	}

	validated, err := s.Validate(rest)
	if err != nil {
		return nil, err
	}

	factory := r.factories[driverName]
	return factory(validated)
}

func unknownDriverError(name string) error {
	return fmt.Errorf("%q driver is not registered", name)
}
