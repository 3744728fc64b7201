package schema

import "github.com/mknsr/hidori/internal/schemaerr"

var (
	errRequiredNotProvided = schemaerr.NewValidationError("value for required field not provided")
	errSkip                = schemaerr.ErrSkipField
)

// absentType is the distinguished sentinel returned when a field's value is
// not present in the input data. It lets a field tell "value was nil" apart
// from "value was never set."
type absentType struct{}

// Absent is the sentinel passed to Field.Validate when no value was
// supplied for that field.
var Absent = absentType{}

func isAbsent(v any) bool {
	_, ok := v.(absentType)
	return ok
}

// Field validates one value against a declared shape. Concrete fields
// (Text, OneOf, Mapping, SubSchema, Any) are produced from an Annotation
// via Annotation.build.
type Field interface {
	// Validate checks value, returning the validated representation or an
	// error. value is schema.Absent when the field's key was not present
	// in the input map.
	Validate(value any) (any, error)

	// IsRequired reports whether an absent value is an error for this
	// field. Requires modifiers mutate this at validation time.
	IsRequired() bool

	// SetRequired is used by modifiers (notably Requires) to promote an
	// optional field to required based on sibling data.
	SetRequired(required bool)
}

// baseField centralizes the required-flag bookkeeping and the "absent but
// required" check shared by every concrete field.
type baseField struct {
	required bool
}

func (b *baseField) IsRequired() bool        { return b.required }
func (b *baseField) SetRequired(value bool)  { b.required = value }
func (b *baseField) checkAbsent(value any) (bool, error) {
	if !isAbsent(value) {
		return false, nil
	}
	if b.required {
		return true, errRequiredNotProvided
	}
	return true, errSkip
}
