// Package message defines the structured record exchanged between an
// executor and the orchestrator, and the append-only queue ("messenger")
// that accumulates them before they are flushed as JSON lines.
package message

import "encoding/json"

// Type classifies a Message for printing and failure detection.
type Type string

const (
	TypeSuccess  Type = "success"
	TypeError    Type = "error"
	TypeAffected Type = "affected"
	TypeInfo     Type = "info"
)

// Message is one structured record printed by an executor, one per line of
// its standard output. Fields beyond the three declared here are accepted
// on input but dropped when a line is decoded into a Message, so they are
// not carried further.
type Message struct {
	Type    Type   `json:"type"`
	Task    string `json:"task"`
	Message string `json:"message"`
}

// IsError reports whether the message represents a task failure.
func (m Message) IsError() bool {
	return m.Type == TypeError
}

// MarshalLine renders the message as a single JSON line, matching the wire
// format in spec.md §6.
func (m Message) MarshalLine() ([]byte, error) {
	return json.Marshal(m)
}

// Messenger is an append-only queue of messages scoped to one task name.
// Modules never print directly; they queue through a Messenger, which is
// flushed by the executor once the task has finished running.
type Messenger struct {
	task     string
	messages []Message
}

// NewMessenger creates a Messenger bound to the given task name.
func NewMessenger(task string) *Messenger {
	return &Messenger{task: task}
}

// Task returns the task name the messenger was created with.
func (m *Messenger) Task() string {
	return m.task
}

// Queue appends a message of the given type.
func (m *Messenger) Queue(ty Type, text string) {
	m.messages = append(m.messages, Message{Type: ty, Task: m.task, Message: text})
}

// QueueSuccess queues a success-typed message.
func (m *Messenger) QueueSuccess(text string) { m.Queue(TypeSuccess, text) }

// QueueError queues an error-typed message.
func (m *Messenger) QueueError(text string) { m.Queue(TypeError, text) }

// QueueAffected queues an affected-typed message.
func (m *Messenger) QueueAffected(text string) { m.Queue(TypeAffected, text) }

// QueueInfo queues an info-typed message.
func (m *Messenger) QueueInfo(text string) { m.Queue(TypeInfo, text) }

// IsEmpty reports whether no messages have been queued yet.
func (m *Messenger) IsEmpty() bool {
	return len(m.messages) == 0
}

// HasErrors reports whether any queued message is error-typed.
func (m *Messenger) HasErrors() bool {
	for _, msg := range m.messages {
		if msg.IsError() {
			return true
		}
	}
	return false
}

// Messages returns the currently queued messages without clearing them.
func (m *Messenger) Messages() []Message {
	return m.messages
}

// Flush writes one JSON line per queued message, in order, and clears the
// queue. The writer signature mirrors the executor's use over os.Stdout.
func (m *Messenger) Flush(write func(line []byte) error) error {
	for len(m.messages) > 0 {
		msg := m.messages[0]
		m.messages = m.messages[1:]

		line, err := msg.MarshalLine()
		if err != nil {
			return err
		}
		if err := write(append(line, '\n')); err != nil {
			return err
		}
	}
	return nil
}
