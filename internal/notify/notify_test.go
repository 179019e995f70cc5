package notify

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/trendlines/internal/config"
	"github.com/example/trendlines/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
}

func capture(out *[]sent, err error) Sender {
	return func(title, body string, opts platform.Options) error {
		*out = append(*out, sent{title, body, opts})
		return err
	}
}

func TestDisabledEventsAreSilent(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences(), WithSender(capture(&got, nil)))
	n.Export("chart.png")
	n.Copy("chart")
	assert.Empty(t, got)

	var nilNotifier *Notifier
	assert.NotPanics(t, func() { nilNotifier.Copy("x") })
}

func TestExportUsesAbsolutePathAndIcon(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chart.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))

	var got []sent
	n := FromConfig(config.Notify{Export: true}, DefaultPreferences(), WithSender(capture(&got, nil)))
	n.Export(path)
	n.Copy("ignored")

	require.Len(t, got, 1)
	assert.Equal(t, "Trendlines", got[0].title)
	assert.Equal(t, "Exported "+path, got[0].body)
	assert.Equal(t, path, got[0].opts.IconPath)
}

func TestCopyDefaultsDetail(t *testing.T) {
	var got []sent
	n := FromConfig(config.Notify{Copy: true}, DefaultPreferences(), WithSender(capture(&got, errors.New("no bus"))))
	n.Copy("  ")
	require.Len(t, got, 1)
	assert.Equal(t, "Copied chart to clipboard", got[0].body)
}

func TestLoadPreferences(t *testing.T) {
	env := map[string]string{
		"TRENDLINES_NOTIFY_TITLE":     "Desk",
		"TRENDLINES_NOTIFY_COPY_TEXT": "Clipboard has %s",
	}
	prefs := LoadPreferences(func(k string) string { return env[k] })
	assert.Equal(t, "Desk", prefs.Title)
	assert.Equal(t, "Clipboard has %s", prefs.Templates[EventCopy])
	assert.Equal(t, "Exported %s", prefs.Templates[EventExport])

	assert.Equal(t, DefaultPreferences(), LoadPreferences(nil))
}

func TestNewCopiesTemplates(t *testing.T) {
	prefs := DefaultPreferences()
	var got []sent
	n := New(prefs, WithSender(capture(&got, nil)))
	prefs.Templates[EventCopy] = ""
	n.Enable(EventCopy, true)
	n.Copy("lines")
	require.Len(t, got, 1)
	assert.Equal(t, "Copied lines to clipboard", got[0].body)
}
