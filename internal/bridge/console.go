package bridge

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Console is the plain prompt used when the host cannot confirm or alert
// by itself
type Console struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// NewConsole creates a Console reading answers from in and writing to out
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Confirm prints message and reads a y/n answer; anything but yes is no
func (c *Console) Confirm(message string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.out, "%s [y/N]: ", message)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(c.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Alert prints message on its own line
func (c *Console) Alert(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.out, message)
}
