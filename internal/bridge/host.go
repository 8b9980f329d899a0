package bridge

// Host is the hosting application. Sending data is the only capability
// every host must have; everything else is optional and probed once by New.
type Host interface {
	// SendData hands one message to the host. Fire and forget.
	SendData(data string)
}

// Confirmer can ask the operator a yes/no question
type Confirmer interface {
	Confirm(message string) bool
}

// Alerter can show a message to the operator
type Alerter interface {
	Alert(message string)
}

// Notification is a haptic notification style
type Notification string

const (
	NotificationSuccess Notification = "success"
	NotificationWarning Notification = "warning"
	NotificationError   Notification = "error"
)

// Impact is a haptic impact style
type Impact string

const (
	ImpactLight  Impact = "light"
	ImpactMedium Impact = "medium"
)

// Haptics emits best-effort tactile cues
type Haptics interface {
	NotificationOccurred(Notification)
	ImpactOccurred(Impact)
}

// HapticsHost exposes haptic feedback
type HapticsHost interface {
	Haptics() Haptics
}

// Button is a host-owned control with a single click handler
type Button interface {
	Show()
	Hide()
	OnClick(func())
}

// MainButton is the primary action button
type MainButton interface {
	Button
	SetText(string)
}

// MainButtonHost exposes the primary action button
type MainButtonHost interface {
	MainButton() MainButton
}

// BackButtonHost exposes the back navigation control. The boolean is false
// when the host version does not support it.
type BackButtonHost interface {
	BackButton() (Button, bool)
}
