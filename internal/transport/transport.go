// Package transport defines the mechanism a Driver uses to move the
// staging directory to a target and to invoke its remote executor,
// per spec.md §3 and §4.4. Concrete transports (e.g. SSH, see
// internal/sshdriver) never let operational failures escape: they convert
// them into a synthetic error Message instead (spec.md §4.5, §7).
package transport

import (
	"context"

	"github.com/mknsr/hidori/internal/message"
)

// Transport is the pluggable boundary spec.md §1 calls out: the
// orchestrator only ever talks to a Transport, never to the concrete
// mechanism (SSH, or any future alternative) directly.
type Transport interface {
	// Push copies local (a staging directory) to the target, returning
	// whatever messages the push mechanism produced.
	Push(ctx context.Context, exchangeID, local string) ([]message.Message, error)

	// Invoke runs program (plus args) against the target's copy of the
	// staging directory and returns the resulting messages.
	Invoke(ctx context.Context, exchangeID, program string, args []string) ([]message.Message, error)
}
