// Package hello implements the canonical example module: an empty schema
// that reports host identification, grounded in
// original_source/src/hidori_core/modules/hello.py.
package hello

import (
	"context"
	"fmt"

	"github.com/mknsr/hidori/internal/message"
	"github.com/mknsr/hidori/internal/module"
	"github.com/mknsr/hidori/internal/schema"
)

const Name = "hello"

// New builds the hello module. Its schema has no declared fields, so any
// task data is accepted (spec.md §8 scenario 1: an empty schema validates
// any map to {}).
func New() *module.Module {
	return &module.Module{
		Name:   Name,
		Schema: schema.New().MustBuild(),
		Execute: func(_ context.Context, _ map[string]any, messenger *message.Messenger) error {
			info, err := hostIdentity()
			if err != nil {
				return err
			}
			messenger.QueueSuccess(fmt.Sprintf(
				"Hello from %s %s %s", info.sysname, info.nodename, info.release))
			return nil
		},
	}
}
