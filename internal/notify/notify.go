// Package notify turns export and copy completions into desktop notices.
package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/example/trendlines/internal/config"
	"github.com/example/trendlines/internal/platform"
)

var logger = log.WithField("component", "notify")

// Event identifies a notification trigger.
type Event string

const (
	// EventExport fires when a chart image is written to disk.
	EventExport Event = "export"
	// EventCopy fires when a frame or line set is copied to the clipboard.
	EventCopy Event = "copy"
)

// Preferences holds the notice title and per-event body templates. Each
// template takes one %s for the event detail.
type Preferences struct {
	Title     string
	Templates map[Event]string
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "Trendlines",
		Templates: map[Event]string{
			EventExport: "Exported %s",
			EventCopy:   "Copied %s to clipboard",
		},
	}
}

// LoadPreferences applies TRENDLINES_NOTIFY_* overrides from getenv.
func LoadPreferences(getenv func(string) string) Preferences {
	prefs := DefaultPreferences()
	if getenv == nil {
		return prefs
	}
	if v := strings.TrimSpace(getenv("TRENDLINES_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for event, key := range map[Event]string{
		EventExport: "TRENDLINES_NOTIFY_EXPORT_TEXT",
		EventCopy:   "TRENDLINES_NOTIFY_COPY_TEXT",
	} {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			prefs.Templates[event] = v
		}
	}
	return prefs
}

// Sender delivers one notice. platform.Notify is the default.
type Sender func(title, body string, opts platform.Options) error

// Notifier sends OS-level notifications for enabled events.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    Sender
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithSender replaces the platform backend.
func WithSender(s Sender) Option { return func(n *Notifier) { n.send = s } }

// New creates a Notifier with every event disabled.
func New(prefs Preferences, opts ...Option) *Notifier {
	n := &Notifier{
		prefs:   Preferences{Title: prefs.Title, Templates: make(map[Event]string, len(prefs.Templates))},
		enabled: make(map[Event]bool),
		send:    platform.Notify,
	}
	for k, v := range prefs.Templates {
		n.prefs.Templates[k] = v
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// FromConfig builds a Notifier with events enabled per cfg.
func FromConfig(cfg config.Notify, prefs Preferences, opts ...Option) *Notifier {
	n := New(prefs, opts...)
	n.Enable(EventExport, cfg.Export)
	n.Enable(EventCopy, cfg.Copy)
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Export reports a written image, using the file itself as the notice icon.
func (n *Notifier) Export(path string) {
	if !n.enabledFor(EventExport) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventExport, detail, opts)
}

// Copy reports a clipboard write.
func (n *Notifier) Copy(detail string) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "chart"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	template := strings.TrimSpace(n.prefs.Templates[event])
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		logger.WithError(err).WithField("event", event).Warn("notification failed")
	}
}
