// Command hidori-executor is the remote-side entry point staged onto a
// target and invoked once per task id (spec.md §4.3). It never runs as an
// interactive CLI — the transport execs it directly with its task id as
// the sole argument — so unlike cmd/hidori and cmd/hidori-pipeline it has
// no cobra surface of its own.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mknsr/hidori/internal/executor"
	"github.com/mknsr/hidori/internal/modules"
)

func main() {
	taskID, err := executor.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	self, err := os.Executable()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	dir := filepath.Dir(self)

	registry, err := modules.Registry()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	os.Exit(executor.Run(context.Background(), dir, taskID, registry, os.Stdout))
}
