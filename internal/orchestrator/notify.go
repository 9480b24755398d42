package orchestrator

// Level is the severity of a notification.
type Level int

const (
	LevelInfo    Level = iota // Neutral information
	LevelSuccess              // Something completed successfully
	LevelError                // Something failed
)

// String implements [fmt.Stringer] for [Level].
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Notifier is the user facing side channel of a call: short notifications and a
// loading indicator.
//
// The orchestrator only ever talks to the user through a Notifier, it never prints.
type Notifier interface {
	// Notify shows a short message to the user.
	Notify(level Level, message string)

	// StartLoading shows the loading indicator with message.
	StartLoading(message string)

	// StopLoading hides the loading indicator, it must be safe to call when
	// nothing is loading.
	StopLoading()
}

// NopNotifier is a [Notifier] that does nothing.
type NopNotifier struct{}

// Notify implements [Notifier] for [NopNotifier].
func (NopNotifier) Notify(Level, string) {}

// StartLoading implements [Notifier] for [NopNotifier].
func (NopNotifier) StartLoading(string) {}

// StopLoading implements [Notifier] for [NopNotifier].
func (NopNotifier) StopLoading() {}
