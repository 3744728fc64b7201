// Package schemaerr defines the error taxonomy shared by the schema,
// module, and transport layers. Shapes follow pkg/errors in the teacher
// repository: one concrete type per concern, each carrying its own message
// fields; none wraps an inner error, so callers match them with errors.As
// or a type switch.
package schemaerr

import "fmt"

// ValidationError is raised by a single field's validator.
type ValidationError struct {
	Message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// ErrSkipField is a flow-control sentinel: it tells Schema.Validate that an
// optional, absent field should be omitted from the validated output. It is
// never surfaced to a caller.
var ErrSkipField = &skipFieldError{}

type skipFieldError struct{}

func (e *skipFieldError) Error() string { return "field skipped" }

// ModifierError indicates a misdeclaration inside a schema Modifier, such as
// a Requires modifier naming a sibling field that was never declared.
type ModifierError struct {
	Message string
}

func NewModifierError(message string) *ModifierError {
	return &ModifierError{Message: message}
}

func (e *ModifierError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// FieldErrors is the per-field error map a SchemaError carries. A value is
// either a string (leaf field) or a nested FieldErrors (sub-schema field).
type FieldErrors map[string]any

// SchemaError aggregates every field-level failure from one Schema.Validate
// pass into a single error.
type SchemaError struct {
	Errors FieldErrors
}

func NewSchemaError(errs FieldErrors) *SchemaError {
	return &SchemaError{Errors: errs}
}

func (e *SchemaError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("schema validation failed: %v", map[string]any(e.Errors))
}

// ConfigurationError marks a schema misdeclaration detected at declaration
// time rather than at validation time; always fatal to the caller.
type ConfigurationError struct {
	Kind    string
	Message string
}

const (
	KindMultipleDefaultMethods = "MultipleDefaultMethodsError"
	KindDefinitionAlreadySet   = "DefinitionAlreadyAssigned"
	KindFieldNameNotAllowed    = "FieldNameNotAllowed"
	KindUnrecognizedFieldType  = "UnrecognizedFieldType"
)

func NewConfigurationError(kind, message string) *ConfigurationError {
	return &ConfigurationError{Kind: kind, Message: message}
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// PluginError indicates issues within module registration, following the
// teacher's plugin error shape (registry collisions, unknown names).
type PluginError struct {
	Module  string
	Message string
}

func NewPluginError(module, message string) *PluginError {
	return &PluginError{Module: module, Message: message}
}

func (e *PluginError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("module error [%s]: %s", e.Module, e.Message)
}

// TransportError marks an operational failure of a push/invoke primitive.
// Transports never let this escape to the caller: it is converted into a
// synthetic error-typed Message first (see spec.md §4.5 and §7).
type TransportError struct {
	Transport string
	Message   string
}

func NewTransportError(transport, message string) *TransportError {
	return &TransportError{Transport: transport, Message: message}
}

func (e *TransportError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("transport error [%s]: %s", e.Transport, e.Message)
}
