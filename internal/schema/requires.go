package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mknsr/hidori/internal/schemaerr"
)

// Requires marks a named set of sibling fields as required once every
// attached data condition holds. It is the only modifier this framework
// ships; callers add more by implementing Modifier directly.
type Requires struct {
	fieldNames []string
	conditions []DataCondition
}

// NewRequires constructs a Requires modifier over fieldNames, optionally
// gated by dataConditions (all must hold for the modifier to apply).
func NewRequires(fieldNames []string, dataConditions ...DataCondition) *Requires {
	return &Requires{fieldNames: fieldNames, conditions: dataConditions}
}

func (r *Requires) processSchema(fieldNames map[string]bool) error {
	var missing []string
	for _, name := range r.fieldNames {
		if !fieldNames[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return schemaerr.NewModifierError(fmt.Sprintf(
		"fields named (%s) might be required but are undefined",
		strings.Join(missing, ", ")))
}

func (r *Requires) apply(fields map[string]Field, data map[string]any) {
	if !conditionsHold(r.conditions, data) {
		return
	}
	for _, name := range r.fieldNames {
		if f, ok := fields[name]; ok {
			f.SetRequired(true)
		}
	}
}
