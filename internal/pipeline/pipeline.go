// Package pipeline implements the per-target pipeline state machine:
// new → prepared → finalized → running → completed | failed (spec.md
// §4.6). Grounded in original_source/src/hidori_pipelines/pipeline.py,
// adapted so finalize/invoke_step report through returned errors instead of
// raising, matching this module's error-taxonomy propagation policy
// (spec.md §7).
package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/mknsr/hidori/internal/driver"
	"github.com/mknsr/hidori/internal/module"
	"github.com/mknsr/hidori/internal/printer"
)

// State is one point in the Pipeline lifecycle.
type State string

const (
	StateNew       State = "new"
	StatePrepared  State = "prepared"
	StateFinalized State = "finalized"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Step owns one task: its id, name, and raw data, with data["module"]
// resolved against the module registry at construction (spec.md §4.6).
type Step struct {
	TaskID string
	Name   string
	Data   map[string]any
}

// TaskJSON renders the step as the {name, data} envelope the executor
// expects (spec.md §4.3).
func (s Step) TaskJSON() map[string]any {
	return map[string]any{"name": s.Name, "data": s.Data}
}

// TargetData names the destination a Pipeline runs against and the Driver
// that knows how to reach it.
type TargetData struct {
	Target string
	Driver driver.Driver
}

// Pipeline is the ordered sequence of steps scheduled against one target.
type Pipeline struct {
	Target string
	Driver driver.Driver

	steps     []Step
	remaining []Step
	state     State
	exchange  *driver.Exchange
	hasFailed bool
	printer   *printer.Printer
}

// New constructs a Pipeline from target data and an ordered task map
// (insertion order preserved, per spec.md §4.6), building one Step per
// task. Construction fails if any task names a module the registry doesn't
// know.
func New(target TargetData, taskOrder []string, tasks map[string]map[string]any, modules *module.Registry, p *printer.Printer) (*Pipeline, error) {
	steps := make([]Step, 0, len(taskOrder))
	for _, name := range taskOrder {
		data := tasks[name]
		moduleName, _ := data["module"].(string)
		if _, err := modules.Get(moduleName); err != nil {
			return nil, fmt.Errorf("task %q: %w", name, err)
		}

		taskID, err := newTaskID()
		if err != nil {
			return nil, err
		}
		steps = append(steps, Step{TaskID: taskID, Name: name, Data: data})
	}

	return &Pipeline{
		Target:    target.Target,
		Driver:    target.Driver,
		steps:     steps,
		remaining: append([]Step(nil), steps...),
		state:     StateNew,
		printer:   p,
	}, nil
}

func newTaskID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("allocate task id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// State returns the pipeline's current lifecycle state.
func (p *Pipeline) State() State { return p.state }

// HasFailed reports whether any finalize or invoke_step round has observed
// an error-typed message.
func (p *Pipeline) HasFailed() bool { return p.hasFailed }

// HasCompleted reports whether every step has been invoked.
func (p *Pipeline) HasCompleted() bool { return len(p.remaining) == 0 }

// Prepare delegates staging to the driver and stores the returned exchange.
// Calling any other lifecycle method before Prepare is a programmer error.
func (p *Pipeline) Prepare(ctx context.Context) error {
	src := driver.PrepareSource{TargetID: p.Target}
	for _, step := range p.steps {
		src.Steps = append(src.Steps, driver.StepSource{
			TaskID: step.TaskID,
			Name:   step.Name,
			Data:   step.Data,
		})
	}

	exchange, err := p.Driver.PreparePipeline(ctx, src)
	if err != nil {
		return fmt.Errorf("prepare pipeline for %s: %w", p.Target, err)
	}
	p.exchange = exchange
	p.state = StatePrepared
	return nil
}

// Finalize pushes the staged directory to the target, flushes whatever
// messages the push produced, and sets HasFailed if any were error-typed.
// The group applies the same on_fail filter after the finalize round as
// after every invoke round (see pipelinegroup.applyFailureFilter).
func (p *Pipeline) Finalize(ctx context.Context) error {
	if p.state != StatePrepared {
		return fmt.Errorf("pipeline for %s: finalize called before prepare", p.Target)
	}

	pushErr := p.Driver.Finalize(ctx, p.exchange)
	p.flush()
	p.state = StateFinalized
	return pushErr
}

// InvokeStep pops the head of the remaining step list, invokes the
// executor for it, flushes messages, and marks HasFailed if the invocation
// produced an error message. It is idempotent once every step has been
// invoked: calling it again on a completed pipeline is a no-op.
func (p *Pipeline) InvokeStep(ctx context.Context) error {
	if p.state == StateNew || p.state == StatePrepared {
		return fmt.Errorf("pipeline for %s: invoke_step called before finalize", p.Target)
	}
	if len(p.remaining) == 0 {
		return nil
	}

	p.state = StateRunning
	step := p.remaining[0]
	p.remaining = p.remaining[1:]

	err := p.Driver.InvokeExecutor(ctx, p.exchange, step.TaskID)
	p.flush()

	if len(p.remaining) == 0 {
		if p.hasFailed {
			p.state = StateFailed
		} else {
			p.state = StateCompleted
		}
	}
	return err
}

// flush presents the exchange's buffered messages through the printer,
// grouped by task, then clears the buffer (spec.md §4.6's flush policy).
func (p *Pipeline) flush() {
	if p.exchange == nil || len(p.exchange.Messages) == 0 {
		return
	}

	if p.printer != nil {
		p.printer.PrintAll(p.exchange.Messages)
	}

	for _, m := range p.exchange.Messages {
		if m.IsError() {
			p.hasFailed = true
			break
		}
	}
	p.exchange.Messages = nil
}
