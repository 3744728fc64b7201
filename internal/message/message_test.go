package message_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mknsr/hidori/internal/message"
)

func TestMessenger_QueueAndFlushPreservesOrder(t *testing.T) {
	m := message.NewMessenger("t1")
	m.QueueInfo("starting")
	m.QueueSuccess("done")

	var buf bytes.Buffer
	err := m.Flush(func(line []byte) error {
		buf.Write(line)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, m.IsEmpty())

	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 2)

	var first message.Message
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, message.TypeInfo, first.Type)
	assert.Equal(t, "t1", first.Task)
}

func TestMessenger_HasErrors(t *testing.T) {
	m := message.NewMessenger("t1")
	assert.False(t, m.HasErrors())

	m.QueueError("boom")
	assert.True(t, m.HasErrors())
}

func TestMessage_IsError(t *testing.T) {
	assert.True(t, message.Message{Type: message.TypeError}.IsError())
	assert.False(t, message.Message{Type: message.TypeSuccess}.IsError())
}

func TestMessenger_FlushStopsOnWriteError(t *testing.T) {
	m := message.NewMessenger("t1")
	m.QueueInfo("a")
	m.QueueInfo("b")

	writeErr := errors.New("write failed")
	calls := 0
	err := m.Flush(func(line []byte) error {
		calls++
		return writeErr
	})

	require.ErrorIs(t, err, writeErr)
	assert.Equal(t, 1, calls)
}
