// Package modules wires every built-in module into a fresh registry. It is
// the single place cmd/hidori-executor and cmd/hidori-pipeline import to
// get the full set of built-in modules.
package modules

import (
	"github.com/mknsr/hidori/internal/module"
	"github.com/mknsr/hidori/internal/modules/hello"
	"github.com/mknsr/hidori/internal/modules/hostname"
	"github.com/mknsr/hidori/internal/modules/wait"
)

// Registry builds a module.Registry with every built-in module registered.
func Registry() (*module.Registry, error) {
	r := module.NewRegistry()

	for _, m := range []*module.Module{hello.New(), wait.New(), hostname.New()} {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}
