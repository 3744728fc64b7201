package hostname_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mknsr/hidori/internal/message"
	"github.com/mknsr/hidori/internal/modules/hostname"
)

func TestHostname_SchemaRequiresName(t *testing.T) {
	m := hostname.New()
	messenger := message.NewMessenger("t1")

	validated := m.Validate(map[string]any{}, messenger)

	assert.Nil(t, validated)
	require.True(t, messenger.HasErrors())
}

func TestHostname_SchemaAcceptsName(t *testing.T) {
	m := hostname.New()
	messenger := message.NewMessenger("t1")

	validated := m.Validate(map[string]any{"name": "web-01"}, messenger)

	require.NotNil(t, validated)
	assert.Equal(t, "web-01", validated["name"])
	assert.True(t, messenger.IsEmpty())
}
