package schema

// Annotation is a field-type annotation supplied to Builder.Field. It knows
// how to instantiate the concrete Field it describes once required/optional
// is known. This mirrors the fluent-builder surface spec.md §9 prescribes
// as the idiomatic-Go substitute for the source's class-annotation
// reflection: New().Field("a", Text()).Field("b", Optional(OneOf("x", "y"))).
type Annotation interface {
	build(required bool) (Field, error)
}

type annotationFunc func(required bool) (Field, error)

func (f annotationFunc) build(required bool) (Field, error) { return f(required) }

// Text declares a string field.
func Text() Annotation {
	return annotationFunc(func(required bool) (Field, error) {
		return &textField{baseField{required: required}}, nil
	})
}

// OneOf declares a field restricted to a fixed set of literal values.
func OneOf(values ...any) Annotation {
	return annotationFunc(func(required bool) (Field, error) {
		return &oneOfField{baseField: baseField{required: required}, allowed: values}, nil
	})
}

// Mapping declares a field whose value is a map, validating every key
// against keyAnn and every value against valAnn.
func Mapping(keyAnn, valAnn Annotation) Annotation {
	return annotationFunc(func(required bool) (Field, error) {
		keyField, err := keyAnn.build(true)
		if err != nil {
			return nil, err
		}
		valField, err := valAnn.build(true)
		if err != nil {
			return nil, err
		}
		return &mappingField{
			baseField:  baseField{required: required},
			keyField:   keyField,
			valueField: valField,
		}, nil
	})
}

// SubSchema declares a field whose value is validated against a nested
// Schema, returning the validated sub-map.
func SubSchema(s *Schema) Annotation {
	return annotationFunc(func(required bool) (Field, error) {
		return &subSchemaField{baseField: baseField{required: required}, schema: s}, nil
	})
}

// Any declares a field that accepts any present value unchanged.
func Any() Annotation {
	return annotationFunc(func(required bool) (Field, error) {
		return &anyField{baseField{required: required}}, nil
	})
}

// Optional wraps an annotation so the resulting field instantiates with
// required = false, the builder equivalent of optional<T> in spec.md §4.1.
func Optional(inner Annotation) Annotation {
	return annotationFunc(func(_ bool) (Field, error) {
		return inner.build(false)
	})
}
