package bridge

import (
	"log/slog"
	"os"
)

// Bridge is the capability-checked view of a Host. Every capability is
// resolved at construction; call sites never probe the host again.
type Bridge struct {
	host      Host
	confirmer Confirmer
	alerter   Alerter
	haptics   Haptics
	main      MainButton
	back      Button
}

// New probes host for optional capabilities and falls back to a console
// prompt on stdin/stdout for confirm and alert
func New(host Host) *Bridge {
	return NewWithFallback(host, NewConsole(os.Stdin, os.Stdout))
}

// NewWithFallback is New with an explicit fallback prompt
func NewWithFallback(host Host, fallback *Console) *Bridge {
	b := &Bridge{
		host:      host,
		confirmer: fallback,
		alerter:   fallback,
		haptics:   noopHaptics{},
		main:      noopButton{},
	}

	if c, ok := host.(Confirmer); ok {
		b.confirmer = c
	}
	if a, ok := host.(Alerter); ok {
		b.alerter = a
	}
	if h, ok := host.(HapticsHost); ok {
		if haptics := h.Haptics(); haptics != nil {
			b.haptics = haptics
		}
	}
	if m, ok := host.(MainButtonHost); ok {
		if button := m.MainButton(); button != nil {
			b.main = button
		}
	}
	if bb, ok := host.(BackButtonHost); ok {
		if button, supported := bb.BackButton(); supported && button != nil {
			b.back = button
		}
	}

	slog.Debug("Host bridge ready",
		"confirm", b.confirmer != Confirmer(fallback),
		"alert", b.alerter != Alerter(fallback),
		"back_button", b.back != nil,
	)
	return b
}

// Confirm asks a yes/no question
func (b *Bridge) Confirm(message string) bool {
	return b.confirmer.Confirm(message)
}

// Alert shows a message
func (b *Bridge) Alert(message string) {
	b.alerter.Alert(message)
}

// Notify emits a notification cue
func (b *Bridge) Notify(n Notification) {
	b.haptics.NotificationOccurred(n)
}

// Impact emits an impact cue
func (b *Bridge) Impact(i Impact) {
	b.haptics.ImpactOccurred(i)
}

// ShowMainButton sets the primary button label and shows it
func (b *Bridge) ShowMainButton(text string) {
	b.main.SetText(text)
	b.main.Show()
}

func (b *Bridge) HideMainButton() {
	b.main.Hide()
}

// OnMainButtonClick registers the primary button handler
func (b *Bridge) OnMainButtonClick(fn func()) {
	b.main.OnClick(fn)
}

// BackSupported reports whether the host has a back control
func (b *Bridge) BackSupported() bool {
	return b.back != nil
}

func (b *Bridge) ShowBackButton() {
	if b.back != nil {
		b.back.Show()
	}
}

func (b *Bridge) HideBackButton() {
	if b.back != nil {
		b.back.Hide()
	}
}

// OnBackButtonClick registers the back handler; a no-op without back support
func (b *Bridge) OnBackButtonClick(fn func()) {
	if b.back != nil {
		b.back.OnClick(fn)
	}
}

// SendData forwards one message to the host
func (b *Bridge) SendData(data string) {
	b.host.SendData(data)
}

type noopHaptics struct{}

func (noopHaptics) NotificationOccurred(Notification) {}
func (noopHaptics) ImpactOccurred(Impact)             {}

type noopButton struct{}

func (noopButton) Show()          {}
func (noopButton) Hide()          {}
func (noopButton) OnClick(func()) {}
func (noopButton) SetText(string) {}
