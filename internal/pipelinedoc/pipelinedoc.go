// Package pipelinedoc loads a pipeline TOML document from disk into the raw
// map PipelineGroup validates, per spec.md §1: TOML parsing is an external
// collaborator the core only consumes through a plain map[string]any, never
// through a TOML-aware struct of its own.
package pipelinedoc

import (
	"fmt"
	"os"
	"regexp"

	"github.com/pelletier/go-toml/v2"
)

// Document is a decoded pipeline TOML document plus the task insertion
// order lost when go-toml/v2 decodes a table into a map[string]any (Go maps
// have no order; v2 dropped v1's order-preserving Tree type). TaskOrder is
// recovered separately by scanning the source text for [tasks.<name>]
// headers in the order they appear, matching the ordered-map semantics
// spec.md §4.7 and §6 require for task scheduling.
type Document struct {
	Data      map[string]any
	TaskOrder []string
}

var taskHeader = regexp.MustCompile(`(?m)^\s*\[tasks\.([^\]\s]+)\]\s*$`)

// Load reads and decodes the pipeline document at path.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline document %s: %w", path, err)
	}

	var data map[string]any
	if err := toml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse pipeline document %s: %w", path, err)
	}

	return &Document{Data: data, TaskOrder: taskOrderFrom(raw)}, nil
}

func taskOrderFrom(raw []byte) []string {
	var order []string
	seen := make(map[string]bool)
	for _, m := range taskHeader.FindAllSubmatch(raw, -1) {
		name := string(m[1])
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	return order
}
