// Package printer formats a pipeline's buffered messages for a human
// reader: one plain-text task header followed by its entries, prefixed with the
// target identity (spec.md §3, §4.6's flush policy). Grounded in
// original_source/src/hidori_common/cli.py's ConsolePrinter, with its ANSI
// color table dropped per spec.md §1's non-goal on terminal color
// formatting.
package printer

import (
	"fmt"
	"io"
	"time"

	"github.com/mknsr/hidori/internal/message"
)

var statusLabel = map[message.Type]string{
	message.TypeSuccess:  "OK",
	message.TypeError:    "ERROR",
	message.TypeAffected: "AFFECTED",
	message.TypeInfo:     "INFO",
}

// Printer writes a pipeline's messages to an output stream, tagged with the
// identity of the target they came from. It is stateless beyond that
// identity and the stream, so a flush is just a sequence of writes.
type Printer struct {
	out    io.Writer
	user   string
	target string
	now    func() time.Time
}

// New builds a Printer that writes to out, labelling every header with
// user@target.
func New(out io.Writer, user, target string) *Printer {
	return &Printer{out: out, user: user, target: target, now: time.Now}
}

// PrintAll groups msgs by task — the first message's task id drives the
// group header — and prints each group's entries in order, matching
// Pipeline's flush policy (spec.md §4.6): "messages are presented grouped
// by task ... then printed in order."
func (p *Printer) PrintAll(msgs []message.Message) {
	var currentTask string
	headerPrinted := false

	for _, m := range msgs {
		if !headerPrinted || m.Task != currentTask {
			p.printHeader(m.Task)
			currentTask = m.Task
			headerPrinted = true
		}
		p.printEntry(m)
	}
}

// PrintOne prints a single message under its own header, with no grouping.
func (p *Printer) PrintOne(m message.Message) {
	p.printHeader(m.Task)
	p.printEntry(m)
}

// PrintSummary emits the trailing blank line the source prints after a
// flush, kept for output parity with the reference CLI.
func (p *Printer) PrintSummary() {
	fmt.Fprintln(p.out)
}

func (p *Printer) printHeader(task string) {
	fmt.Fprintf(p.out, "[%s@%s: %s]\n", p.user, p.target, task)
}

func (p *Printer) printEntry(m message.Message) {
	label, ok := statusLabel[m.Type]
	if !ok {
		label = string(m.Type)
	}
	fmt.Fprintf(p.out, "[%s] %s: %s\n", p.now().Format("Jan 02 15:04:05"), label, m.Message)
}
