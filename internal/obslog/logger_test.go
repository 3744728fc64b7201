package obslog_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mknsr/hidori/internal/obslog"
)

func TestLogger_WritesJSONFieldsWhenNotHumanReadable(t *testing.T) {
	var buf bytes.Buffer
	log := obslog.New(obslog.Options{Level: "info", Writer: &buf})

	log.WithFields(map[string]any{"target": "web-01"}).Info("preparing call")

	out := buf.String()
	assert.Contains(t, out, `"target":"web-01"`)
	assert.Contains(t, out, "preparing call")
}

func TestLogger_ErrorIncludesErrField(t *testing.T) {
	var buf bytes.Buffer
	log := obslog.New(obslog.Options{Level: "info", Writer: &buf})

	log.Error(errors.New("boom"), "operation failed")

	assert.Contains(t, buf.String(), "boom")
	assert.Contains(t, buf.String(), "operation failed")
}

func TestLogger_DebugSuppressedBelowInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	log := obslog.New(obslog.Options{Level: "info", Writer: &buf})

	log.Debug("should not appear")

	assert.Empty(t, buf.String())
}

func TestLogger_NilLoggerMethodsAreNoOps(t *testing.T) {
	var log *obslog.Logger

	assert.NotPanics(t, func() {
		log.Info("x")
		log.Warn("x")
		log.Error(errors.New("x"), "x")
		log.Debug("x")
		_ = log.WithFields(map[string]any{"a": 1})
	})
}

func TestLogger_UnrecognizedLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := obslog.New(obslog.Options{Level: "not-a-level", Writer: &buf})

	log.Info("visible")
	log.Debug("hidden")

	assert.Contains(t, buf.String(), "visible")
	assert.NotContains(t, buf.String(), "hidden")
}
