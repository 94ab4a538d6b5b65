package notify

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Desktop posts a macOS notification through osascript, for operators who
// run the watchdog from their own machine.
type Desktop struct {
	title string
	run   func(name string, args ...string) ([]byte, error)
	log   *slog.Logger
}

func NewDesktop(title string, log *slog.Logger) *Desktop {
	if title == "" {
		title = DefaultSubject
	}
	return &Desktop{
		title: title,
		run: func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).CombinedOutput()
		},
		log: log,
	}
}

func (d *Desktop) ReportError(ev Event) {
	if err := d.Send(d.title, ev.Summary()); err != nil {
		d.log.Warn("desktop notification failed", "error", err)
	}
}

// Send shows one notification with sound.
func (d *Desktop) Send(title, message string) error {
	script := fmt.Sprintf(
		`display notification "%s" with title "%s" sound name "default"`,
		escapeAppleScript(message), escapeAppleScript(title),
	)
	if out, err := d.run("osascript", "-e", script); err != nil {
		return fmt.Errorf("osascript: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
