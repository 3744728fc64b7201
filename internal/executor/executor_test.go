package executor_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mknsr/hidori/internal/executor"
	"github.com/mknsr/hidori/internal/message"
	"github.com/mknsr/hidori/internal/module"
	"github.com/mknsr/hidori/internal/schema"
)

func echoModule() *module.Module {
	return &module.Module{
		Name:   "echo",
		Schema: schema.New().Field("text", schema.Text()).MustBuild(),
		Execute: func(_ context.Context, validated map[string]any, messenger *message.Messenger) error {
			messenger.QueueSuccess(validated["text"].(string))
			return nil
		},
	}
}

func writeTask(t *testing.T, dir, taskID string, envelope map[string]any) {
	t.Helper()
	raw, err := json.Marshal(envelope)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "task-"+taskID+".json"), raw, 0o600))
}

func TestRun_SuccessEmitsOneMessageAndExitsZero(t *testing.T) {
	dir := t.TempDir()
	writeTask(t, dir, "t1", map[string]any{
		"name": "step-1",
		"data": map[string]any{"module": "echo", "text": "hi"},
	})

	registry := module.NewRegistry()
	require.NoError(t, registry.Register(echoModule()))

	var out bytes.Buffer
	code := executor.Run(context.Background(), dir, "t1", registry, &out)

	assert.Equal(t, 0, code)
	var msg message.Message
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &msg))
	assert.Equal(t, message.TypeSuccess, msg.Type)
	assert.Equal(t, "step-1", msg.Task)
}

func TestRun_MissingTaskFileExitsOneWithSyntheticError(t *testing.T) {
	dir := t.TempDir()
	registry := module.NewRegistry()

	var out bytes.Buffer
	code := executor.Run(context.Background(), dir, "missing", registry, &out)

	assert.Equal(t, 1, code)
	var msg message.Message
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &msg))
	assert.Equal(t, message.TypeError, msg.Type)
}

func TestRun_UnknownModuleExitsOne(t *testing.T) {
	dir := t.TempDir()
	writeTask(t, dir, "t1", map[string]any{
		"name": "step-1",
		"data": map[string]any{"module": "does-not-exist"},
	})

	registry := module.NewRegistry()

	var out bytes.Buffer
	code := executor.Run(context.Background(), dir, "t1", registry, &out)

	assert.Equal(t, 1, code)
}

func TestRun_ModuleValidationFailureExitsOne(t *testing.T) {
	dir := t.TempDir()
	writeTask(t, dir, "t1", map[string]any{
		"name": "step-1",
		"data": map[string]any{"module": "echo"},
	})

	registry := module.NewRegistry()
	require.NoError(t, registry.Register(echoModule()))

	var out bytes.Buffer
	code := executor.Run(context.Background(), dir, "t1", registry, &out)

	assert.Equal(t, 1, code)
}

func TestParseArgs_RequiresExactlyOneArgument(t *testing.T) {
	_, err := executor.ParseArgs(nil)
	require.Error(t, err)

	_, err = executor.ParseArgs([]string{"a", "b"})
	require.Error(t, err)

	taskID, err := executor.ParseArgs([]string{"abc123"})
	require.NoError(t, err)
	assert.Equal(t, "abc123", taskID)
}
