package schema

// DataCondition is a predicate over the raw input map. A Modifier applies
// its schema transform only when every attached condition returns true.
type DataCondition func(data map[string]any) bool

// Modifier conditionally reshapes a schema's field set based on sibling
// field values present at validation time. The canonical modifier is
// Requires, which marks named sibling fields required.
type Modifier interface {
	// processSchema is called at declaration time with the full set of
	// declared field names, so a modifier can validate the sibling
	// references it will use at apply time.
	processSchema(fieldNames map[string]bool) error

	// apply reshapes fields/data if every data condition holds; it is a
	// no-op otherwise.
	apply(fields map[string]Field, data map[string]any)
}

// StateEq is a DataCondition factory matching spec.md §9's suggestion to
// represent modifier predicates as tagged variants: it holds when field
// equals one of values.
func StateEq(field string, values ...any) DataCondition {
	return func(data map[string]any) bool {
		v, ok := data[field]
		if !ok {
			return false
		}
		for _, candidate := range values {
			if candidate == v {
				return true
			}
		}
		return false
	}
}

func conditionsHold(conditions []DataCondition, data map[string]any) bool {
	for _, cond := range conditions {
		if !cond(data) {
			return false
		}
	}
	return true
}
