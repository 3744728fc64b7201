// Package paths centralizes the local and remote filesystem layout spec.md
// §6 and §4.4 describe: staging directories under the user cache home
// locally, and /tmp remotely. Grounded in
// original_source/src/hidori_common/dirs.py, adapted to Go's standard
// os.UserCacheDir instead of a hand-rolled XDG_CACHE_HOME lookup.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appDirName        = "hidori"
	pipelinesSubdir   = "pipelines"
	callsSubdir       = "calls"
	remoteStagingRoot = "/tmp"
)

// Kind distinguishes the two local staging trees: one per multi-target
// pipeline run, one per single-target one-shot module call.
type Kind string

const (
	KindPipeline Kind = pipelinesSubdir
	KindCall     Kind = callsSubdir
)

// LocalCacheRoot returns <user-cache-home>/hidori, honoring the standard
// user-cache-home variable with fallback to $HOME/.cache (spec.md §6).
func LocalCacheRoot() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve user cache directory: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// ExchangeDir returns the deterministic local staging directory for one
// exchange: <cache-root>/{pipelines|calls}/<target-id>/hidori-<exchange-id>/.
func ExchangeDir(kind Kind, targetID, exchangeID string) (string, error) {
	root, err := LocalCacheRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, string(kind), targetID, "hidori-"+exchangeID), nil
}

// RemoteStagingDir returns the remote staging directory for one exchange:
// /tmp/hidori-exchange-<exchange-id>/.
func RemoteStagingDir(exchangeID string) string {
	return filepath.Join(remoteStagingRoot, "hidori-exchange-"+exchangeID)
}
