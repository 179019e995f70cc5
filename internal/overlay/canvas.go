package overlay

import (
	"image"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/font"

	"github.com/example/trendlines/internal/bridge"
	"github.com/example/trendlines/internal/geom"
	"github.com/example/trendlines/internal/interaction"
	"github.com/example/trendlines/internal/raster"
	"github.com/example/trendlines/internal/render"
	"github.com/example/trendlines/internal/theme"
)

const (
	tooltipPadX = 6
	tooltipPadY = 4
	crossArm    = 4
)

var _ interaction.Surface = (*Canvas)(nil)

// Canvas is the presentation surface behind a session. Paint renders the
// line layer; Compose draws that layer plus the tooltip and delete control
// onto a destination. Canvas is safe for use from the event loop and the
// paint goroutine at the same time.
type Canvas struct {
	mu sync.Mutex

	proj    bridge.Projector
	theme   *theme.Theme
	face    font.Face
	radius  int
	onPaint func()

	layer *image.RGBA
	frame interaction.Frame

	label       string
	labelAt     geom.PixelPoint
	labelShown  bool
	control     geom.PixelPoint
	controlShow bool
}

// CanvasOption configures a Canvas.
type CanvasOption func(*Canvas)

// WithFace sets the tooltip font.
func WithFace(face font.Face) CanvasOption { return func(c *Canvas) { c.face = face } }

// WithDeleteRadius sets the radius of the delete control disc.
func WithDeleteRadius(r int) CanvasOption { return func(c *Canvas) { c.radius = r } }

// WithOnPaint registers fn to run after every Paint, Resize and annotation
// change. It is called without the canvas lock held.
func WithOnPaint(fn func()) CanvasOption { return func(c *Canvas) { c.onPaint = fn } }

// NewCanvas returns a w×h canvas drawing through proj.
func NewCanvas(proj bridge.Projector, th *theme.Theme, w, h int, opts ...CanvasOption) *Canvas {
	if th == nil {
		th = theme.Default()
	}
	c := &Canvas{
		proj:   proj,
		theme:  th,
		face:   raster.Face(12),
		radius: int(interaction.DefaultDeleteRadius),
		layer:  image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0))),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resize reallocates the layer and re-renders the last frame.
func (c *Canvas) Resize(w, h int) {
	c.mu.Lock()
	if b := c.layer.Bounds(); b.Dx() == w && b.Dy() == h {
		c.mu.Unlock()
		return
	}
	c.layer = image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	Render(c.layer, c.frame, c.proj, c.theme)
	c.mu.Unlock()
	c.notify()
}

// SetTheme switches palettes and re-renders.
func (c *Canvas) SetTheme(th *theme.Theme) {
	if th == nil {
		return
	}
	c.mu.Lock()
	c.theme = th
	Render(c.layer, c.frame, c.proj, c.theme)
	c.mu.Unlock()
	c.notify()
}

// Image returns a copy of the line layer.
func (c *Canvas) Image() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := image.NewRGBA(c.layer.Bounds())
	copy(out.Pix, c.layer.Pix)
	return out
}

// Frame returns the last painted frame.
func (c *Canvas) Frame() interaction.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// Label reports the visible tooltip text and position.
func (c *Canvas) Label() (string, geom.PixelPoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.label, c.labelAt, c.labelShown
}

// DeleteControl reports the visible delete control position.
func (c *Canvas) DeleteControl() (geom.PixelPoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.control, c.controlShow
}

func (c *Canvas) Paint(frame interaction.Frame) {
	c.mu.Lock()
	c.frame = frame
	Render(c.layer, frame, c.proj, c.theme)
	c.mu.Unlock()
	c.notify()
}

func (c *Canvas) ShowLabel(text string, at geom.PixelPoint) {
	c.mu.Lock()
	c.label, c.labelAt, c.labelShown = text, at, true
	c.mu.Unlock()
	c.notify()
}

func (c *Canvas) HideLabel() {
	c.mu.Lock()
	c.labelShown = false
	c.mu.Unlock()
	c.notify()
}

func (c *Canvas) ShowDeleteControl(at geom.PixelPoint) {
	c.mu.Lock()
	c.control, c.controlShow = at, true
	c.mu.Unlock()
	c.notify()
}

func (c *Canvas) HideDeleteControl() {
	c.mu.Lock()
	c.controlShow = false
	c.mu.Unlock()
	c.notify()
}

func (c *Canvas) notify() {
	if c.onPaint != nil {
		c.onPaint()
	}
}

// Compose draws the line layer over dst, aligned with dst's origin, then the
// delete control and tooltip on top.
func (c *Canvas) Compose(dst *image.RGBA) {
	if dst == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	origin := dst.Bounds().Min
	draw.Draw(dst, c.layer.Bounds().Add(origin), c.layer, image.Point{}, draw.Over)

	if c.controlShow {
		c.drawControl(dst, c.control.Add(geom.Pt(float64(origin.X), float64(origin.Y))))
	}
	if c.labelShown && c.label != "" {
		c.drawTooltip(dst, c.labelAt.Add(geom.Pt(float64(origin.X), float64(origin.Y))))
	}
}

func (c *Canvas) drawControl(dst *image.RGBA, at geom.PixelPoint) {
	if !at.Finite() {
		return
	}
	cx, cy := int(math.Round(at.X)), int(math.Round(at.Y))
	raster.FilledCircle(dst, cx, cy, c.radius, c.theme.DeleteBackground)
	arm := min(crossArm, c.radius/2)
	raster.Line(dst, cx-arm, cy-arm, cx+arm, cy+arm, c.theme.DeleteText, 2)
	raster.Line(dst, cx-arm, cy+arm, cx+arm, cy-arm, c.theme.DeleteText, 2)
}

// tooltipRect places the label box with its corner at at, shifted back inside
// bounds when it would overflow.
func tooltipRect(at geom.PixelPoint, w, h int, bounds image.Rectangle) image.Rectangle {
	r := image.Rect(0, 0, w+2*tooltipPadX, h+2*tooltipPadY).
		Add(image.Pt(int(math.Round(at.X)), int(math.Round(at.Y))))
	if r.Max.X > bounds.Max.X {
		r = r.Sub(image.Pt(r.Max.X-bounds.Max.X, 0))
	}
	if r.Max.Y > bounds.Max.Y {
		r = r.Sub(image.Pt(0, r.Max.Y-bounds.Max.Y))
	}
	if r.Min.X < bounds.Min.X {
		r = r.Add(image.Pt(bounds.Min.X-r.Min.X, 0))
	}
	if r.Min.Y < bounds.Min.Y {
		r = r.Add(image.Pt(0, bounds.Min.Y-r.Min.Y))
	}
	return r
}

func (c *Canvas) drawTooltip(dst *image.RGBA, at geom.PixelPoint) {
	if !at.Finite() {
		return
	}
	w, h, _ := raster.MeasureText(c.face, c.label)
	box := tooltipRect(at, w, h, dst.Bounds())
	render.DropShadow(dst, box, render.TooltipShadow())
	raster.FillRect(dst, box, c.theme.TooltipBackground)
	raster.Text(dst, c.face, box.Min.X+tooltipPadX, box.Min.Y+tooltipPadY, c.label, c.theme.TooltipText)
}
