package hello_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mknsr/hidori/internal/message"
	"github.com/mknsr/hidori/internal/modules/hello"
)

func TestHello_EmptySchemaAcceptsAnyData(t *testing.T) {
	m := hello.New()
	messenger := message.NewMessenger("t1")

	validated := m.Validate(map[string]any{"unrelated": "field"}, messenger)

	require.NotNil(t, validated)
	assert.Empty(t, validated)
	assert.True(t, messenger.IsEmpty())
}

func TestHello_ExecuteReportsSuccess(t *testing.T) {
	m := hello.New()
	messenger := message.NewMessenger("t1")

	err := m.Execute(context.Background(), map[string]any{}, messenger)

	require.NoError(t, err)
	require.False(t, messenger.HasErrors())
	require.Len(t, messenger.Messages(), 1)
	assert.Equal(t, message.TypeSuccess, messenger.Messages()[0].Type)
}
