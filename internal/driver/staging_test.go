package driver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mknsr/hidori/internal/driver"
)

func TestNewExchangeID_ProducesDistinctHexIDs(t *testing.T) {
	a, err := driver.NewExchangeID()
	require.NoError(t, err)
	b, err := driver.NewExchangeID()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestStageDir_CopiesExecutorAndWritesTaskFiles(t *testing.T) {
	base := t.TempDir()
	executorPath := filepath.Join(base, "hidori-executor")
	require.NoError(t, os.WriteFile(executorPath, []byte("#!/bin/sh\necho hi\n"), 0o755))

	stagingDir := filepath.Join(base, "staging")
	steps := []driver.StepSource{
		{TaskID: "t1", Name: "install", Data: map[string]any{"module": "hello"}},
	}

	err := driver.StageDir(stagingDir, steps, executorPath)

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(stagingDir, "executor"))
	assert.FileExists(t, filepath.Join(stagingDir, "task-t1.json"))
}

func TestStageDir_FailsIfDirectoryAlreadyExists(t *testing.T) {
	base := t.TempDir()
	executorPath := filepath.Join(base, "hidori-executor")
	require.NoError(t, os.WriteFile(executorPath, []byte("x"), 0o755))

	stagingDir := filepath.Join(base, "staging")
	require.NoError(t, os.Mkdir(stagingDir, 0o755))

	err := driver.StageDir(stagingDir, nil, executorPath)

	require.Error(t, err)
}
