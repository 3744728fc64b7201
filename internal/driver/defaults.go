package driver

import "dario.cat/mergo"

// mergeDefaults fills any key missing from rest with the driver's declared
// default, without touching a key the caller already supplied. mergo's
// default merge semantics (fill-only, no override) are exactly the
// fallback behavior spec.md §4.5 describes for the ssh driver's `port`.
func mergeDefaults(rest *map[string]any, defaults map[string]any) error {
	if len(defaults) == 0 {
		return nil
	}
	return mergo.Merge(rest, defaults)
}
