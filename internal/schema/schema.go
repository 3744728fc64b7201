package schema

import (
	"strings"

	"github.com/mknsr/hidori/internal/schemaerr"
)

const reservedFieldPrefix = "_internals"

// fieldDecl is one named field declaration recorded by Builder before Build
// finalizes the schema.
type fieldDecl struct {
	name       string
	annotation Annotation
	definition *Definition
}

// Builder declares a Schema's fields in order. Use New(), chain Field
// calls, then Build.
type Builder struct {
	decls []fieldDecl
	err   error
}

// New starts a schema declaration.
func New() *Builder {
	return &Builder{}
}

// Field declares a named field with the given type annotation and an
// optional Definition (modifiers/defaults). Declaration order is preserved
// and drives validation order.
func (b *Builder) Field(name string, annotation Annotation, definition ...*Definition) *Builder {
	if b.err != nil {
		return b
	}
	if strings.HasPrefix(name, reservedFieldPrefix) {
		b.err = schemaerr.NewConfigurationError(
			schemaerr.KindFieldNameNotAllowed,
			reservedFieldPrefix+" prefix is reserved for internal use")
		return b
	}

	var def *Definition
	if len(definition) > 0 {
		def = definition[0]
	}
	b.decls = append(b.decls, fieldDecl{name: name, annotation: annotation, definition: def})
	return b
}

// Build finalizes field instantiation, validates every modifier's sibling
// references, and returns the assembled Schema. Modifier reference errors
// are aggregated into one SchemaError, matching spec.md §4.1; any other
// declaration error is returned as soon as it is found.
func (b *Builder) Build() (*Schema, error) {
	if b.err != nil {
		return nil, b.err
	}

	fieldNames := make(map[string]bool, len(b.decls))
	for _, decl := range b.decls {
		fieldNames[decl.name] = true
	}

	s := &Schema{
		order:       make([]string, 0, len(b.decls)),
		fields:      make(map[string]Field, len(b.decls)),
		definitions: make(map[string]*Definition),
	}

	errs := schemaerr.FieldErrors{}

	for _, decl := range b.decls {
		def := decl.definition
		if def != nil {
			if def.hasMultipleDefaultMethods() {
				return nil, newMultipleDefaultMethodsError()
			}
			if def.fieldName != "" {
				return nil, schemaerr.NewConfigurationError(
					schemaerr.KindDefinitionAlreadySet,
					"cannot reuse a Definition across fields: already assigned to "+def.fieldName)
			}
			def.fieldName = decl.name

			if modErrs := def.validateModifiers(fieldNames); len(modErrs) > 0 {
				errs[decl.name] = modErrs
				continue
			}
			s.definitions[decl.name] = def
		}

		field, err := decl.annotation.build(true)
		if err != nil {
			return nil, err
		}
		s.order = append(s.order, decl.name)
		s.fields[decl.name] = field
	}

	if len(errs) > 0 {
		return nil, schemaerr.NewSchemaError(errs)
	}

	return s, nil
}

// MustBuild is Build but panics on error; intended for package-level schema
// values declared once at process startup, mirroring how the teacher wires
// plugin schemas as package vars.
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// Schema is an ordered, declarative field registry produced by Builder.
type Schema struct {
	order       []string
	fields      map[string]Field
	definitions map[string]*Definition
}

// Validate checks data against every declared field in declaration order.
// It never stops at the first error: every failing field is reported in
// one aggregated SchemaError whose key set equals the set of failing
// field names (spec.md §8 "Error aggregation").
func (s *Schema) Validate(data map[string]any) (map[string]any, error) {
	if data == nil {
		data = map[string]any{}
	}

	// Modifiers promote fields to required for this pass only; the declared
	// flags are restored afterwards so one call never affects the next.
	declared := make(map[string]bool, len(s.fields))
	for name, f := range s.fields {
		declared[name] = f.IsRequired()
	}
	defer func() {
		for name, f := range s.fields {
			f.SetRequired(declared[name])
		}
	}()

	errs := schemaerr.FieldErrors{}
	out := make(map[string]any, len(s.order))

	for _, name := range s.order {
		field := s.fields[name]

		if def, ok := s.definitions[name]; ok {
			def.applyModifiers(s.fields, data)
			def.applyDefault(data)
		}

		raw, present := data[name]
		input := any(Absent)
		if present {
			input = raw
		}

		validated, err := field.Validate(input)
		if err == nil {
			out[name] = validated
			continue
		}

		switch typed := err.(type) {
		case *schemaerr.SchemaError:
			errs[name] = typed.Errors
		case *schemaerr.ValidationError:
			errs[name] = typed.Error()
		default:
			if err == schemaerr.ErrSkipField {
				continue
			}
			errs[name] = err.Error()
		}
	}

	if len(errs) > 0 {
		return nil, schemaerr.NewSchemaError(errs)
	}
	return out, nil
}

// FieldNames returns the declared field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}
