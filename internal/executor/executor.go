// Package executor implements the remote-side entry point that runs one
// task and emits a message stream, per spec.md §4.3. It is invoked once per
// task by cmd/hidori-executor, with the task id as its sole argument.
// Grounded in original_source/src/hidori_runner/executors/remote.py.
package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mknsr/hidori/internal/message"
	"github.com/mknsr/hidori/internal/module"
	"github.com/mknsr/hidori/internal/schema"
	"github.com/mknsr/hidori/internal/schemaerr"
)

// envelopeSchema validates the outer task envelope {name, data: {module, ...}}
// per spec.md §4.3.
func envelopeSchema() *schema.Schema {
	dataSchema := schema.New().
		Field("module", schema.Text()).
		MustBuild()

	return schema.New().
		Field("name", schema.Text()).
		Field("data", schema.SubSchema(dataSchema)).
		MustBuild()
}

// Run executes the task identified by taskID, using dir as the executor's
// own directory (where task-<id>.json and module code were staged), the
// given module registry, and writing one JSON message line per queued
// message to out. It returns the process exit code: 1 if any error-typed
// message was emitted, else 0.
func Run(ctx context.Context, dir, taskID string, registry *module.Registry, out io.Writer) int {
	system := message.NewMessenger("system")

	taskPath := filepath.Join(dir, fmt.Sprintf("task-%s.json", taskID))
	raw, err := os.ReadFile(taskPath)
	if err != nil {
		return failWith(system, out, "internal error - requested task does not exist")
	}

	var envelope map[string]any
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return failWith(system, out, "internal error - could not parse task file")
	}

	// The envelope schema only checks structure; dispatch uses the raw
	// envelope so module-specific fields beyond `module` survive, matching
	// original_source/.../executors/remote.py discarding validate()'s
	// return value and re-reading data["data"] afterward.
	if _, err := envelopeSchema().Validate(envelope); err != nil {
		return failWith(system, out,
			fmt.Sprintf("internal error - invalid task structure: %s", err.Error()))
	}

	taskName, _ := envelope["name"].(string)
	taskData, _ := envelope["data"].(map[string]any)
	moduleName, _ := taskData["module"].(string)

	mod, err := registry.Get(moduleName)
	if err != nil {
		return failWith(system, out, "internal error - specified module does not exist")
	}

	task := message.NewMessenger(taskName)
	validated := mod.Validate(taskData, task)
	if task.IsEmpty() {
		if err := mod.Execute(ctx, validated, task); err != nil {
			task.QueueError(formatExecutionError(err))
		}
	}

	flushErr := task.Flush(func(line []byte) error {
		_, writeErr := out.Write(line)
		return writeErr
	})
	if flushErr != nil {
		return 1
	}

	if task.HasErrors() {
		return 1
	}
	return 0
}

// ParseArgs validates the executor's command-line contract: exactly one
// positional argument, the task id.
func ParseArgs(args []string) (taskID string, err error) {
	if len(args) != 1 {
		return "", schemaerr.NewValidationError("internal error - invalid executor args")
	}
	return args[0], nil
}

func failWith(m *message.Messenger, out io.Writer, text string) int {
	m.QueueError(text)
	_ = m.Flush(func(line []byte) error {
		_, err := out.Write(line)
		return err
	})
	return 1
}

func formatExecutionError(err error) string {
	return fmt.Sprintf("%+v", err)
}
