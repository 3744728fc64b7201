// Package wait implements the `wait` module named as a reference module in
// spec.md §1 and §9 but left unspecified there; its contract is recovered
// from spec.md §9's note that such modules satisfy
// "(validated_data, messenger) → effect + messages".
package wait

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mknsr/hidori/internal/message"
	"github.com/mknsr/hidori/internal/module"
	"github.com/mknsr/hidori/internal/schema"
)

const Name = "wait"

// New builds the wait module: it sleeps for the given number of seconds,
// honoring the executor's context cancellation, and reports start/completion.
func New() *module.Module {
	waitSchema := schema.New().
		Field("seconds", schema.Text()).
		MustBuild()

	return &module.Module{
		Name:   Name,
		Schema: waitSchema,
		Execute: func(ctx context.Context, validated map[string]any, messenger *message.Messenger) error {
			raw, _ := validated["seconds"].(string)
			seconds, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("seconds %q is not numeric: %w", raw, err)
			}

			duration := time.Duration(seconds * float64(time.Second))
			messenger.QueueInfo(fmt.Sprintf("waiting %s", duration))

			timer := time.NewTimer(duration)
			defer timer.Stop()

			select {
			case <-timer.C:
			case <-ctx.Done():
				return ctx.Err()
			}

			messenger.QueueSuccess(fmt.Sprintf("waited %s", duration))
			return nil
		},
	}
}
