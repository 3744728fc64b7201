package transport

import (
	"encoding/json"
	"strings"

	"github.com/mknsr/hidori/internal/message"
)

// ParseOutput turns a command's captured output into messages, following
// the exit-handling rule in spec.md §4.5 (and
// original_source/.../transports/utils.py's get_messages):
//   - On success (ok=true), every line is attempted as JSON; lines that
//     fail to parse are silently dropped.
//   - On failure (ok=false), lines that fail to parse are *not* dropped:
//     any non-JSON residue is wrapped into one synthetic error message
//     tagged with transportName so operational failures still surface.
func ParseOutput(output string, transportName string, ok bool) []message.Message {
	var messages []message.Message
	var nonJSON []string

	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var m message.Message
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			nonJSON = append(nonJSON, line)
			continue
		}
		messages = append(messages, m)
	}

	if !ok && len(nonJSON) > 0 {
		messages = append(messages, message.Message{
			Type:    message.TypeError,
			Task:    "INTERNAL-" + strings.ToUpper(transportName) + "-TRANSPORT",
			Message: strings.TrimSpace(strings.Join(nonJSON, "\n")),
		})
	}

	return messages
}
