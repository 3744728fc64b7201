package modules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mknsr/hidori/internal/modules"
)

func TestRegistry_ContainsReferenceModules(t *testing.T) {
	r, err := modules.Registry()
	require.NoError(t, err)

	for _, name := range []string{"hello", "wait", "hostname"} {
		_, err := r.Get(name)
		assert.NoError(t, err, "expected module %q to be registered", name)
	}
}
