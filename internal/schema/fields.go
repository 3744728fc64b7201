package schema

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/mknsr/hidori/internal/schemaerr"
)

// leafValidator is the shared go-playground/validator instance the Text
// field delegates its primitive check to, the same dependency
// internal/config/validator.go uses for struct-tag validation in the
// teacher repo — reused here for validator.Var-style dynamic checks since
// this schema has no static Go struct to attach tags to.
var leafValidator = validator.New()

// textField validates that a value is a string.
type textField struct {
	baseField
}

func (f *textField) Validate(value any) (any, error) {
	if handled, err := f.checkAbsent(value); handled {
		return nil, err
	}

	s, ok := value.(string)
	if !ok {
		return nil, schemaerr.NewValidationError(
			fmt.Sprintf("expected string, got %T", value))
	}
	if err := leafValidator.Var(s, "required"); err != nil {
		return nil, schemaerr.NewValidationError(
			fmt.Sprintf("expected string, got %T", value))
	}
	return s, nil
}

// oneOfField validates that a value is a member of a fixed literal set.
type oneOfField struct {
	baseField
	allowed []any
}

func (f *oneOfField) Validate(value any) (any, error) {
	if handled, err := f.checkAbsent(value); handled {
		return nil, err
	}

	for _, candidate := range f.allowed {
		if candidate == value {
			return value, nil
		}
	}
	return nil, schemaerr.NewValidationError(
		fmt.Sprintf("not one of allowed values: (%s)", joinAny(f.allowed)))
}

func joinAny(values []any) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%v", v)
	}
	return out
}

// mappingField validates every key/value pair of a map against a key field
// and a value field, recursively instantiated from the mapping annotation.
type mappingField struct {
	baseField
	keyField   Field
	valueField Field
}

func (f *mappingField) Validate(value any) (any, error) {
	if handled, err := f.checkAbsent(value); handled {
		return nil, err
	}

	m, ok := value.(map[string]any)
	if !ok {
		return nil, schemaerr.NewValidationError(
			fmt.Sprintf("expected mapping, got %T", value))
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		if _, err := f.keyField.Validate(k); err != nil {
			return nil, schemaerr.NewValidationError(
				fmt.Sprintf("key %q: %s", k, err.Error()))
		}
		validatedValue, err := f.valueField.Validate(v)
		if err != nil {
			return nil, schemaerr.NewValidationError(
				fmt.Sprintf("value for key %q: %s", k, err.Error()))
		}
		out[k] = validatedValue
	}
	return out, nil
}

// subSchemaField validates a nested map against a declared Schema and
// returns the recursively validated sub-map, preserving only declared keys.
type subSchemaField struct {
	baseField
	schema *Schema
}

func (f *subSchemaField) Validate(value any) (any, error) {
	if handled, err := f.checkAbsent(value); handled {
		return nil, err
	}

	m, ok := value.(map[string]any)
	if !ok {
		return nil, schemaerr.NewValidationError(
			fmt.Sprintf("expected mapping, got %T", value))
	}

	validated, err := f.schema.Validate(m)
	if err != nil {
		if schemaErr, ok := err.(*schemaerr.SchemaError); ok {
			return nil, schemaErr
		}
		return nil, schemaerr.NewValidationError(err.Error())
	}
	return validated, nil
}

// anyField accepts any present, non-sentinel value unchanged.
type anyField struct {
	baseField
}

func (f *anyField) Validate(value any) (any, error) {
	if handled, err := f.checkAbsent(value); handled {
		return nil, err
	}
	return value, nil
}
