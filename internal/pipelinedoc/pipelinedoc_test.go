package pipelinedoc_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mknsr/hidori/internal/pipelinedoc"
)

const sampleDoc = `
[config]
on_fail = "continue"

[destinations.web-01]
driver = "ssh"
user = "ops"
target = "web-01.internal"

[tasks.install]
module = "hello"

[tasks.restart]
module = "wait"
seconds = "1"
`

func writeDoc(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad_ParsesDataAndPreservesTaskOrder(t *testing.T) {
	path := writeDoc(t, sampleDoc)

	doc, err := pipelinedoc.Load(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"install", "restart"}, doc.TaskOrder)

	destinations, ok := doc.Data["destinations"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, destinations, "web-01")
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := pipelinedoc.Load(filepath.Join(t.TempDir(), "missing.toml"))

	require.Error(t, err)
}

func TestLoad_InvalidTOMLErrors(t *testing.T) {
	path := writeDoc(t, "this is not [ valid toml")

	_, err := pipelinedoc.Load(path)

	require.Error(t, err)
}
