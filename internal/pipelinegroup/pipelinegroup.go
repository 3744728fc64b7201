// Package pipelinegroup builds one Pipeline per destination named in a
// pipeline TOML document and runs them concurrently across targets, per
// spec.md §4.7. Concurrency is modeled on the teacher's level-based
// WaitGroup executor (internal/engine/executor.go): each round is a
// barrier, no failure cancels a round in progress, and the on_fail policy
// decides between rounds which pipelines take part in the next one.
package pipelinegroup

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/mknsr/hidori/internal/driver"
	"github.com/mknsr/hidori/internal/module"
	"github.com/mknsr/hidori/internal/pipeline"
	"github.com/mknsr/hidori/internal/pipelinedoc"
	"github.com/mknsr/hidori/internal/printer"
	"github.com/mknsr/hidori/internal/schema"
)

// OnFail is the aggregate failure policy a pipeline document can configure.
type OnFail string

const (
	OnFailAbortFailed OnFail = "abort-failed"
	OnFailAbortAll    OnFail = "abort-all"
	OnFailContinue    OnFail = "continue"

	defaultOnFail = OnFailAbortFailed
)

// documentSchema validates the top-level pipeline document shape (spec.md
// §4.7, §6): {config: optional<{on_fail: one-of(...)}>, destinations:
// mapping<string, any>, tasks: mapping<string, any>}.
func documentSchema() *schema.Schema {
	configSchema := schema.New().
		Field("on_fail", schema.Optional(schema.OneOf(
			string(OnFailAbortFailed), string(OnFailAbortAll), string(OnFailContinue))),
			schema.Define(schema.WithDefault(string(defaultOnFail)))).
		MustBuild()

	return schema.New().
		Field("config", schema.Optional(schema.SubSchema(configSchema))).
		Field("destinations", schema.Mapping(schema.Text(), schema.Any())).
		Field("tasks", schema.Mapping(schema.Text(), schema.Any())).
		MustBuild()
}

// Group is the set of pipelines for every destination named in one
// document.
type Group struct {
	onFail    OnFail
	pipelines []*pipeline.Pipeline
}

// Load parses the pipeline document at path, validates it, and builds one
// Pipeline per destination against the given driver and module registries.
func Load(path string, drivers *driver.Registry, modules *module.Registry, out io.Writer) (*Group, error) {
	doc, err := pipelinedoc.Load(path)
	if err != nil {
		return nil, err
	}

	validated, err := documentSchema().Validate(doc.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid pipeline document %s: %w", path, err)
	}

	onFail := OnFail(defaultOnFail)
	if cfg, ok := validated["config"].(map[string]any); ok {
		if v, ok := cfg["on_fail"].(string); ok {
			onFail = OnFail(v)
		}
	}

	destinations, _ := validated["destinations"].(map[string]any)
	tasks, _ := validated["tasks"].(map[string]any)

	taskData := make(map[string]map[string]any, len(tasks))
	for name, v := range tasks {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("task %q: expected a table", name)
		}
		taskData[name] = m
	}

	group := &Group{onFail: onFail}
	for name, v := range destinations {
		destConfig, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("destination %q: expected a table", name)
		}

		drv, err := drivers.Create(destConfig)
		if err != nil {
			return nil, fmt.Errorf("destination %q: %w", name, err)
		}

		target, _ := destConfig["target"].(string)
		if target == "" {
			target = name
		}

		p, err := pipeline.New(
			pipeline.TargetData{Target: target, Driver: drv},
			doc.TaskOrder, taskData, modules,
			printer.New(out, drv.User(), target),
		)
		if err != nil {
			return nil, fmt.Errorf("destination %q: %w", name, err)
		}
		group.pipelines = append(group.pipelines, p)
	}

	return group, nil
}

// Run executes the group's algorithm (spec.md §4.7): prepare every pipeline
// sequentially, finalize them all concurrently, apply the critical-round
// failure filter, then loop concurrent invoke rounds (re-applying the
// filter after each) until every surviving pipeline has completed.
func (g *Group) Run(ctx context.Context) error {
	for _, p := range g.pipelines {
		if err := p.Prepare(ctx); err != nil {
			return err
		}
	}

	surviving := g.pipelines
	anyFailed := runRound(ctx, surviving, func(c context.Context, p *pipeline.Pipeline) error {
		return p.Finalize(c)
	})
	surviving = applyFailureFilter(g.onFail, surviving, anyFailed)

	for len(surviving) > 0 && !allCompleted(surviving) {
		anyFailed = runRound(ctx, surviving, func(c context.Context, p *pipeline.Pipeline) error {
			return p.InvokeStep(c)
		})
		surviving = applyFailureFilter(g.onFail, surviving, anyFailed)
	}

	return nil
}

// HasFailed reports whether any pipeline in the group observed an
// error-typed message, for callers that want a single exit-code decision
// after Run.
func (g *Group) HasFailed() bool {
	for _, p := range g.pipelines {
		if p.HasFailed() {
			return true
		}
	}
	return false
}

// runRound fans a step out across every pipeline concurrently, joined at a
// barrier, and reports whether any pipeline failed. A pipeline's own error
// return never aborts its siblings: failures are communicated through
// HasFailed and left to the failure filter to act on, per spec.md §4.7's
// "a slow target delays advancement of faster ones within a round but not
// across rounds."
func runRound(ctx context.Context, pipelines []*pipeline.Pipeline, step func(context.Context, *pipeline.Pipeline) error) bool {
	var wg sync.WaitGroup
	var mu sync.Mutex
	anyFailed := false

	for _, p := range pipelines {
		wg.Add(1)
		go func(p *pipeline.Pipeline) {
			defer wg.Done()
			_ = step(ctx, p)
			if p.HasFailed() {
				mu.Lock()
				anyFailed = true
				mu.Unlock()
			}
		}(p)
	}
	wg.Wait()

	return anyFailed
}

// applyFailureFilter implements spec.md §4.7's failure table: abort-all
// with any failure empties the surviving set; abort-failed drops only the
// failed pipelines; continue keeps all. The finalize round's "critical
// task" filter resolves to the same rule (spec.md's Open Questions: a
// finalize-time failure drops only the failed pipeline unless
// on_fail=abort-all), so no separate critical-round branch is needed.
func applyFailureFilter(onFail OnFail, pipelines []*pipeline.Pipeline, anyFailed bool) []*pipeline.Pipeline {
	if !anyFailed {
		return pipelines
	}
	if onFail == OnFailContinue {
		return pipelines
	}
	if onFail == OnFailAbortAll {
		return nil
	}

	surviving := make([]*pipeline.Pipeline, 0, len(pipelines))
	for _, p := range pipelines {
		if !p.HasFailed() {
			surviving = append(surviving, p)
		}
	}
	return surviving
}

func allCompleted(pipelines []*pipeline.Pipeline) bool {
	for _, p := range pipelines {
		if !p.HasCompleted() {
			return false
		}
	}
	return true
}
