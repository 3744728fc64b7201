package wait_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mknsr/hidori/internal/message"
	"github.com/mknsr/hidori/internal/modules/wait"
)

func TestWait_SleepsThenReportsSuccess(t *testing.T) {
	m := wait.New()
	messenger := message.NewMessenger("t1")

	validated := m.Validate(map[string]any{"seconds": "0"}, messenger)
	require.NotNil(t, validated)

	err := m.Execute(context.Background(), validated, messenger)

	require.NoError(t, err)
	require.False(t, messenger.HasErrors())
	msgs := messenger.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, message.TypeInfo, msgs[0].Type)
	assert.Equal(t, message.TypeSuccess, msgs[1].Type)
}

func TestWait_NonNumericSecondsFails(t *testing.T) {
	m := wait.New()
	messenger := message.NewMessenger("t1")

	validated := m.Validate(map[string]any{"seconds": "soon"}, messenger)
	require.NotNil(t, validated)

	err := m.Execute(context.Background(), validated, messenger)

	require.Error(t, err)
}

func TestWait_CancelledContextStopsWait(t *testing.T) {
	m := wait.New()
	messenger := message.NewMessenger("t1")

	validated := m.Validate(map[string]any{"seconds": "5"}, messenger)
	require.NotNil(t, validated)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := m.Execute(ctx, validated, messenger)

	require.ErrorIs(t, err, context.DeadlineExceeded)
}
