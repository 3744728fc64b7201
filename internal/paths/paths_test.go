package paths_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mknsr/hidori/internal/paths"
)

func TestExchangeDir_DistinguishesPipelineAndCallKinds(t *testing.T) {
	pipelineDir, err := paths.ExchangeDir(paths.KindPipeline, "web-01", "abc123")
	require.NoError(t, err)

	callDir, err := paths.ExchangeDir(paths.KindCall, "web-01", "abc123")
	require.NoError(t, err)

	assert.NotEqual(t, pipelineDir, callDir)
	assert.Contains(t, pipelineDir, "pipelines")
	assert.Contains(t, callDir, "calls")
	assert.True(t, strings.HasSuffix(pipelineDir, "hidori-abc123"))
}

func TestRemoteStagingDir_IsUnderTmp(t *testing.T) {
	dir := paths.RemoteStagingDir("abc123")

	assert.Equal(t, "/tmp/hidori-exchange-abc123", dir)
}
