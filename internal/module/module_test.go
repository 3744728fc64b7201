package module_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mknsr/hidori/internal/message"
	"github.com/mknsr/hidori/internal/module"
	"github.com/mknsr/hidori/internal/schema"
)

func helloModule() *module.Module {
	return &module.Module{
		Name:   "hello",
		Schema: schema.New().Field("name", schema.Text()).MustBuild(),
		Execute: func(ctx context.Context, validated map[string]any, messenger *message.Messenger) error {
			messenger.QueueSuccess("hello " + validated["name"].(string))
			return nil
		},
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := module.NewRegistry()

	require.NoError(t, r.Register(helloModule()))

	got, err := r.Get("hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Name)
}

func TestRegistry_DuplicateRegistrationFails(t *testing.T) {
	r := module.NewRegistry()
	require.NoError(t, r.Register(helloModule()))

	err := r.Register(helloModule())

	require.Error(t, err)
}

func TestRegistry_GetUnknownNameFails(t *testing.T) {
	r := module.NewRegistry()

	_, err := r.Get("missing")

	require.Error(t, err)
}

func TestRegistry_Names(t *testing.T) {
	r := module.NewRegistry()
	require.NoError(t, r.Register(helloModule()))

	assert.Equal(t, []string{"hello"}, r.Names())
}

func TestModule_ValidateSuccess(t *testing.T) {
	m := helloModule()
	messenger := message.NewMessenger("t1")

	validated := m.Validate(map[string]any{"name": "ops"}, messenger)

	require.NotNil(t, validated)
	assert.Equal(t, "ops", validated["name"])
	assert.True(t, messenger.IsEmpty())
}

func TestModule_ValidateFailureQueuesErrorPerField(t *testing.T) {
	m := helloModule()
	messenger := message.NewMessenger("t1")

	validated := m.Validate(map[string]any{}, messenger)

	assert.Nil(t, validated)
	require.True(t, messenger.HasErrors())
	assert.Len(t, messenger.Messages(), 1)
}
