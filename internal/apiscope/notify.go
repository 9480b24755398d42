package apiscope

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"go.followtheprocess.codes/apiscope/internal/orchestrator"
	"go.followtheprocess.codes/hue"
	"go.followtheprocess.codes/log"
	"go.followtheprocess.codes/msg"
)

// loadingStyle is the style of the loading line shown while a call is in flight.
const loadingStyle = hue.BrightBlack | hue.Italic

// clearLine returns the cursor to the start of the line and erases it.
const clearLine = "\r\033[K"

// terminalNotifier is an [orchestrator.Notifier] that writes to a terminal.
//
// The loading line is only drawn when the output is a terminal that can erase it
// again, failures are left to the error panel and only logged here.
type terminalNotifier struct {
	w       io.Writer
	logger  *log.Logger
	mu      sync.Mutex
	tty     bool
	loading bool
}

// newNotifier returns a [terminalNotifier] writing to w.
func newNotifier(w io.Writer, tty bool, logger *log.Logger) *terminalNotifier {
	return &terminalNotifier{
		w:      w,
		tty:    tty,
		logger: logger.Prefixed("notify"),
	}
}

// Notify implements [orchestrator.Notifier].
func (t *terminalNotifier) Notify(level orchestrator.Level, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch level {
	case orchestrator.LevelSuccess:
		msg.Fsuccess(t.w, "%s", message)
	case orchestrator.LevelError:
		t.logger.Debug("Call failed", slog.String("error", message))
	default:
		msg.Finfo(t.w, "%s", message)
	}
}

// StartLoading implements [orchestrator.Notifier].
func (t *terminalNotifier) StartLoading(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.logger.Debug("Loading", slog.String("message", message))

	if !t.tty {
		return
	}

	t.loading = true
	fmt.Fprint(t.w, loadingStyle.Text(message+"..."))
}

// StopLoading implements [orchestrator.Notifier].
func (t *terminalNotifier) StopLoading() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.loading {
		return
	}

	t.loading = false
	fmt.Fprint(t.w, clearLine)
}
