package terminal

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/zombor/invoice-capture/internal/bridge"
	"github.com/zombor/invoice-capture/internal/onec"
)

// Sender delivers a submission payload and reports what 1C answered
type Sender interface {
	Send(ctx context.Context, payload any) onec.Result
}

// Host is the terminal as a bridge host. Confirm and Alert share the
// session's input reader, so answers and commands come from one stream.
type Host struct {
	*bridge.Console

	ctx    context.Context
	out    io.Writer
	sender Sender
	main   *Button
	back   *Button
}

// NewHost creates a Host. Payloads handed to SendData are delivered with
// sender under ctx.
func NewHost(ctx context.Context, in *bufio.Reader, out io.Writer, sender Sender) *Host {
	return &Host{
		// NewConsole reuses in as is, it is already buffered
		Console: bridge.NewConsole(in, out),
		ctx:     ctx,
		out:     out,
		sender:  sender,
		main:    &Button{},
		back:    &Button{},
	}
}

// SendData posts the message and prints the accounting system's answer
func (h *Host) SendData(data string) {
	slog.Info("Sending document", "bytes", len(data))
	result := h.sender.Send(h.ctx, json.RawMessage(data))
	if result.Debug != "" {
		slog.Debug("Submission debug", "debug", result.Debug)
	}
	fmt.Fprintln(h.out, result.Message())
}

func (h *Host) MainButton() bridge.MainButton {
	return h.main
}

func (h *Host) BackButton() (bridge.Button, bool) {
	return h.back, true
}

// Submit presses the main button
func (h *Host) Submit() bool {
	return h.main.Click()
}

// Back presses the back button
func (h *Host) Back() bool {
	return h.back.Click()
}

// Button is a host control pressed by typing a command
type Button struct {
	text    string
	visible bool
	onClick func()
}

func (b *Button) Show()             { b.visible = true }
func (b *Button) Hide()             { b.visible = false }
func (b *Button) OnClick(fn func()) { b.onClick = fn }
func (b *Button) SetText(t string)  { b.text = t }

// Text returns the current label
func (b *Button) Text() string {
	return b.text
}

// Visible reports whether the button is shown
func (b *Button) Visible() bool {
	return b.visible
}

// Click runs the handler of a visible button and reports whether it ran
func (b *Button) Click() bool {
	if !b.visible || b.onClick == nil {
		return false
	}
	b.onClick()
	return true
}
