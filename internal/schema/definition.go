package schema

import "github.com/mknsr/hidori/internal/schemaerr"

// absentDefault is the internal sentinel distinguishing "no default value
// was configured" from "the configured default value is nil."
var absentDefault = &struct{}{}

// Definition attaches side metadata to a declared field: conditional
// modifiers and a default (value or factory). At most one of default /
// defaultFactory may be set.
type Definition struct {
	modifiers      []Modifier
	defaultValue   any
	defaultFactory func() any

	fieldName string
}

// Define constructs a Definition. Passing both a default value and a
// default factory is a declaration-time error, raised when the owning
// schema is built.
func Define(opts ...DefinitionOption) *Definition {
	d := &Definition{defaultValue: absentDefault}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DefinitionOption configures a Definition built via Define.
type DefinitionOption func(*Definition)

// WithModifiers attaches modifiers evaluated during Schema.Validate.
func WithModifiers(modifiers ...Modifier) DefinitionOption {
	return func(d *Definition) { d.modifiers = append(d.modifiers, modifiers...) }
}

// WithDefault attaches a static default value.
func WithDefault(value any) DefinitionOption {
	return func(d *Definition) { d.defaultValue = value }
}

// WithDefaultFactory attaches a default computed lazily per validation
// pass, for values that must not be shared (e.g. a fresh slice or map).
func WithDefaultFactory(factory func() any) DefinitionOption {
	return func(d *Definition) { d.defaultFactory = factory }
}

func (d *Definition) hasMultipleDefaultMethods() bool {
	return d.defaultValue != absentDefault && d.defaultFactory != nil
}

// validateModifiers verifies every modifier's declared sibling references
// resolve against the schema's field names, aggregating ModifierErrors.
func (d *Definition) validateModifiers(fieldNames map[string]bool) []string {
	var errs []string
	for _, m := range d.modifiers {
		if err := m.processSchema(fieldNames); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

// applyModifiers runs every modifier whose data conditions hold, but only
// when this field's name is present in data (per spec.md §4.1 step 1).
func (d *Definition) applyModifiers(fields map[string]Field, data map[string]any) {
	if _, present := data[d.fieldName]; !present {
		return
	}
	for _, m := range d.modifiers {
		m.apply(fields, data)
	}
}

// applyDefault fills data[fieldName] from the configured default, never
// overriding a key that is already present. A value default wins over a
// factory default if somehow both are set (should be rejected earlier).
func (d *Definition) applyDefault(data map[string]any) {
	if _, present := data[d.fieldName]; present {
		return
	}
	if d.defaultValue != absentDefault {
		data[d.fieldName] = d.defaultValue
		return
	}
	if d.defaultFactory != nil {
		data[d.fieldName] = d.defaultFactory()
	}
}

func newMultipleDefaultMethodsError() error {
	return schemaerr.NewConfigurationError(
		schemaerr.KindMultipleDefaultMethods,
		"provide either default value or default factory",
	)
}
