// Package viewer hosts the chart, the trendline overlay and the interaction
// session in a desktop window.
package viewer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"

	"github.com/example/trendlines/internal/bridge"
	pricechart "github.com/example/trendlines/internal/chart"
	"github.com/example/trendlines/internal/clipboard"
	"github.com/example/trendlines/internal/config"
	"github.com/example/trendlines/internal/export"
	"github.com/example/trendlines/internal/geom"
	"github.com/example/trendlines/internal/input"
	"github.com/example/trendlines/internal/interaction"
	"github.com/example/trendlines/internal/notify"
	"github.com/example/trendlines/internal/overlay"
	"github.com/example/trendlines/internal/raster"
	"github.com/example/trendlines/internal/store"
	"github.com/example/trendlines/internal/theme"
)

var logger = log.WithField("component", "viewer")

const (
	// panStep is how far one arrow key press moves the window, in pixels.
	panStep = 40.0
	// zoomStep is the zoom factor of one key press or wheel notch.
	zoomStep    = 1.25
	messageTime = 2 * time.Second
)

// Controller owns the chart, the session and the overlay canvas. All of its
// methods must be called from the window's event goroutine.
type Controller struct {
	chart     *pricechart.Chart
	store     *store.Store
	session   *interaction.Session
	canvas    *overlay.Canvas
	tracker   input.Tracker
	theme     *theme.Theme
	shortcuts map[KeyShortcut]string

	notifier   *notify.Notifier
	exportPath string
	copyImage  func(image.Image) error
	onChange   func()
	now        func() time.Time

	interaction config.Interaction

	message      string
	messageUntil time.Time

	quit    bool
	cancels []func()
}

// Option configures a Controller.
type Option func(*Controller)

// WithTheme sets the palette.
func WithTheme(th *theme.Theme) Option { return func(c *Controller) { c.theme = th } }

// WithInteraction sets the pointer tolerances.
func WithInteraction(cfg config.Interaction) Option {
	return func(c *Controller) { c.interaction = cfg }
}

// WithNotifier sets the desktop notifier used after export and copy.
func WithNotifier(n *notify.Notifier) Option { return func(c *Controller) { c.notifier = n } }

// WithExportPath sets where Ctrl+S writes the report.
func WithExportPath(path string) Option { return func(c *Controller) { c.exportPath = path } }

// WithClipboard replaces the clipboard image writer.
func WithClipboard(fn func(image.Image) error) Option { return func(c *Controller) { c.copyImage = fn } }

// WithOnChange registers fn to run whenever the window needs repainting.
func WithOnChange(fn func()) Option { return func(c *Controller) { c.onChange = fn } }

// WithClock sets the time source for status messages.
func WithClock(now func() time.Time) Option { return func(c *Controller) { c.now = now } }

// New wires a session and overlay to c and st.
func New(c *pricechart.Chart, st *store.Store, opts ...Option) *Controller {
	defaults := config.New().Interaction
	ctl := &Controller{
		chart:       c,
		store:       st,
		theme:       theme.Default(),
		shortcuts:   DefaultShortcuts(),
		exportPath:  "trendlines.png",
		copyImage:   clipboard.WriteImage,
		now:         time.Now,
		interaction: defaults,
	}
	for _, opt := range opts {
		opt(ctl)
	}
	if ctl.theme == nil {
		ctl.theme = theme.Default()
	}

	proj := bridge.New(c, bridge.DefaultAxes)
	w, h := c.Size()
	ctl.canvas = overlay.NewCanvas(proj, ctl.theme, w, h,
		overlay.WithDeleteRadius(int(math.Round(ctl.interaction.DeleteRadius))),
		overlay.WithOnPaint(ctl.changed),
	)
	ctl.session = interaction.NewSession(st, proj, ctl.canvas, c,
		interaction.WithThresholds(geom.Thresholds{
			Endpoint: ctl.interaction.EndpointRadius,
			Body:     ctl.interaction.SegmentTolerance,
		}),
		interaction.WithMinLength(ctl.interaction.MinLength),
		interaction.WithDeleteRadius(ctl.interaction.DeleteRadius),
	)
	ctl.cancels = append(ctl.cancels,
		c.On(pricechart.EventDataZoom, ctl.session.ViewportChanged),
		c.On(pricechart.EventResize, ctl.session.ViewportChanged),
	)
	ctl.session.Redraw()
	return ctl
}

// Close detaches the controller from the chart.
func (c *Controller) Close() {
	for _, cancel := range c.cancels {
		cancel()
	}
	c.cancels = nil
}

// Session returns the interaction session.
func (c *Controller) Session() *interaction.Session { return c.session }

// Canvas returns the overlay canvas.
func (c *Controller) Canvas() *overlay.Canvas { return c.canvas }

// Done reports whether the user asked to quit.
func (c *Controller) Done() bool { return c.quit }

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

// Resize resizes the overlay and then the chart, so the viewport change
// repaints onto a layer of the new size.
func (c *Controller) Resize(w, h int) {
	c.canvas.Resize(w, h)
	c.chart.Resize(w, h)
}

// HandleMouse feeds a mouse event into the session or, for the wheel, zooms
// around the pointer.
func (c *Controller) HandleMouse(e mouse.Event) {
	if steps, ok := input.Wheel(e); ok {
		c.chart.Zoom(math.Pow(zoomStep, float64(steps)), float64(e.X)-float64(c.tracker.Origin.X))
		return
	}
	if ev, ok := c.tracker.Mouse(e); ok {
		input.Dispatch(ev, c.session)
	}
}

// HandleTouch feeds a touch event into the session.
func (c *Controller) HandleTouch(e touch.Event) {
	if ev, ok := c.tracker.Touch(e); ok {
		input.Dispatch(ev, c.session)
	}
}

// FocusLost forgets any press in progress and ends the active gesture at
// the last pointer position. A release delivered after this is ignored.
func (c *Controller) FocusLost() {
	c.tracker.Reset()
	c.session.Release()
}

// HandleKey runs the action bound to e. It reports whether e was bound.
func (c *Controller) HandleKey(e key.Event) bool {
	if e.Direction == key.DirRelease {
		return false
	}
	action, ok := lookup(c.shortcuts, e)
	if !ok {
		return false
	}
	if e.Direction == key.DirNone && !repeatable(action) {
		return true
	}
	c.Run(action)
	return true
}

func repeatable(action string) bool {
	switch action {
	case ActionPanLeft, ActionPanRight, ActionZoomIn, ActionZoomOut:
		return true
	}
	return false
}

// Run performs a named action.
func (c *Controller) Run(action string) {
	logger.WithField("action", action).Debug("shortcut")
	plot := c.chart.Plot()
	centre := float64(plot.Min.X+plot.Max.X) / 2
	switch action {
	case ActionPanLeft:
		c.chart.Pan(panStep)
	case ActionPanRight:
		c.chart.Pan(-panStep)
	case ActionZoomIn:
		c.chart.Zoom(zoomStep, centre)
	case ActionZoomOut:
		c.chart.Zoom(1/zoomStep, centre)
	case ActionDelete:
		c.session.DeleteHovered()
	case ActionCopy:
		c.copyFrame()
	case ActionExport:
		c.exportReport()
	case ActionQuit:
		c.quit = true
	default:
		logger.WithField("action", action).Warn("unknown action")
	}
}

func (c *Controller) copyFrame() {
	if err := c.copyImage(c.Snapshot().Image()); err != nil {
		logger.WithError(err).Warn("copy")
		c.flash(fmt.Sprintf("copy failed: %v", err))
		return
	}
	c.flash("chart copied to clipboard")
	c.notifier.Copy("chart")
}

func (c *Controller) exportReport() {
	view, ok := export.ViewOf(c.chart)
	if !ok {
		c.flash("nothing to export")
		return
	}
	w, h := c.chart.Size()
	opts := export.Options{Width: w, Height: h, Theme: c.theme}
	if err := export.WriteFile(c.exportPath, c.chart.Series(), c.store.List(), view, opts); err != nil {
		logger.WithError(err).Warn("export")
		c.flash(fmt.Sprintf("export failed: %v", err))
		return
	}
	c.flash("exported " + c.exportPath)
	c.notifier.Export(c.exportPath)
}

func (c *Controller) flash(msg string) {
	c.message = msg
	c.messageUntil = c.now().Add(messageTime)
	c.changed()
}

// Frame is everything needed to paint one window frame off the event
// goroutine.
type Frame struct {
	chart        *pricechart.Chart
	canvas       *overlay.Canvas
	theme        *theme.Theme
	message      string
	messageUntil time.Time
	now          func() time.Time
}

// Snapshot captures the current frame.
func (c *Controller) Snapshot() Frame {
	return Frame{
		chart:        c.chart.Snapshot(),
		canvas:       c.canvas,
		theme:        c.theme,
		message:      c.message,
		messageUntil: c.messageUntil,
		now:          c.now,
	}
}

// Size returns the frame size in pixels.
func (f Frame) Size() (int, int) { return f.chart.Size() }

// Draw paints the chart, overlay and status message into dst.
func (f Frame) Draw(dst *image.RGBA) {
	f.chart.Render(dst, f.theme)
	f.canvas.Compose(dst)
	if f.message != "" && f.now().Before(f.messageUntil) {
		drawMessage(dst, f.message)
	}
}

// Image renders the frame into a new image.
func (f Frame) Image() *image.RGBA {
	w, h := f.Size()
	img := image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	f.Draw(img)
	return img
}

func drawMessage(dst *image.RGBA, msg string) {
	face := raster.Face(13)
	w, h, _ := raster.MeasureText(face, msg)
	b := dst.Bounds()
	x := b.Min.X + (b.Dx()-w)/2
	y := b.Min.Y + (b.Dy()-h)/2
	rect := image.Rect(x-8, y-8, x+w+8, y+h+8)
	raster.FillRect(dst, rect, color.RGBA{255, 255, 255, 230})
	raster.Rect(dst, rect, color.Black, 2)
	raster.Text(dst, face, x, y, msg, color.Black)
}
