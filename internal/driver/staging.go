package driver

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// NewExchangeID allocates a fresh 128-bit random exchange id, hex-encoded,
// per spec.md §4.4 step 1.
func NewExchangeID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("allocate exchange id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// StageDir creates dir (failing if it already exists, enforcing the
// staging-uniqueness invariant in spec.md §8), copies the current
// executor binary into <dir>/executor, and writes one task-<id>.json per
// step. Unlike the source's Python implementation — which must ship
// interpreted module source files alongside the executor — this module's
// module framework is compiled directly into the hidori-executor binary,
// so "copying the required module code" reduces to copying that one
// binary (see DESIGN.md).
func StageDir(dir string, steps []StepSource, executorBinaryPath string) error {
	if err := os.Mkdir(dir, 0o755); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}

	if err := copyFile(executorBinaryPath, filepath.Join(dir, "executor"), 0o755); err != nil {
		return fmt.Errorf("copy executor binary: %w", err)
	}

	for _, step := range steps {
		taskPath := filepath.Join(dir, fmt.Sprintf("task-%s.json", step.TaskID))
		payload, err := json.Marshal(map[string]any{"name": step.Name, "data": step.Data})
		if err != nil {
			return fmt.Errorf("encode task %s: %w", step.TaskID, err)
		}
		if err := os.WriteFile(taskPath, payload, 0o644); err != nil {
			return fmt.Errorf("write task %s: %w", step.TaskID, err)
		}
	}

	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
