package tui

import (
	"fmt"
	"io"
	"sync"
)

// ConsoleNotifier delivers user-facing notifications to a plain writer.
// It satisfies the assist Notifier contract for non-interactive runs.
type ConsoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleNotifier creates a notifier writing to out.
func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: out}
}

func (n *ConsoleNotifier) write(tag, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "%s %s\n", tag, msg)
}

func (n *ConsoleNotifier) Info(msg string)  { n.write("==>", msg) }
func (n *ConsoleNotifier) Warn(msg string)  { n.write("WARNING:", msg) }
func (n *ConsoleNotifier) Error(msg string) { n.write("ERROR:", msg) }
