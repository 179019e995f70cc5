// Package chart is a small candlestick charting engine: a category x axis
// over a price series, an auto-scaled y axis, a data-zoom window and the
// pixel projection the trendline overlay is anchored to.
package chart

import (
	"image"
	"math"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/example/trendlines/internal/bridge"
)

// Event identifies a chart lifecycle notification.
type Event int

const (
	// EventDataZoom fires after the visible window changes.
	EventDataZoom Event = iota
	// EventResize fires after the chart surface changes size.
	EventResize
	// EventRendered fires after a frame has been drawn.
	EventRendered
)

func (e Event) String() string {
	switch e {
	case EventDataZoom:
		return "datazoom"
	case EventResize:
		return "resize"
	case EventRendered:
		return "rendered"
	}
	return "unknown"
}

// Margins is the space reserved around the plot area for axis labels.
type Margins struct {
	Left, Top, Right, Bottom int
}

// DefaultMargins leaves room for price labels on the right and dates below.
func DefaultMargins() Margins {
	return Margins{Left: 10, Top: 16, Right: 64, Bottom: 28}
}

const (
	// DefaultStart and DefaultEnd are the initial data-zoom window, in percent.
	DefaultStart = 40.0
	DefaultEnd   = 100.0

	// yPadding is the fraction of the visible price range added above and below.
	yPadding = 0.05
)

var logger = log.WithField("component", "chart")

type listener struct {
	id int
	fn func()
}

// Chart projects a Series into a pixel surface. It is not safe for
// concurrent mutation; listeners run synchronously on the mutating goroutine.
type Chart struct {
	series  *Series
	margins Margins
	width   int
	height  int

	start, end float64 // percent of the category range

	layout layout

	mu        sync.Mutex
	listeners map[Event][]listener
	nextID    int
}

// layout is the derived viewport, recomputed whenever an input changes.
type layout struct {
	ok         bool
	plot       image.Rectangle
	first      float64 // category index at plot.Min.X
	last       float64 // category index at plot.Max.X
	yMin, yMax float64
}

var _ bridge.Engine = (*Chart)(nil)

// Option configures a Chart.
type Option func(*Chart)

// WithMargins overrides the plot margins.
func WithMargins(m Margins) Option { return func(c *Chart) { c.margins = m } }

// WithWindow sets the initial data-zoom window in percent.
func WithWindow(start, end float64) Option {
	return func(c *Chart) { c.start, c.end = start, end }
}

// WithSize sets the initial surface size.
func WithSize(w, h int) Option { return func(c *Chart) { c.width, c.height = w, h } }

// New returns a chart over series.
func New(series *Series, opts ...Option) *Chart {
	c := &Chart{
		series:    series,
		margins:   DefaultMargins(),
		start:     DefaultStart,
		end:       DefaultEnd,
		listeners: make(map[Event][]listener),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.start, c.end = c.clampWindow(c.start, c.end)
	c.relayout()
	return c
}

// Series returns the series being charted.
func (c *Chart) Series() *Series { return c.series }

// Len and CategoryLabel expose the series' category mapping.
func (c *Chart) Len() int { return c.series.Len() }

func (c *Chart) CategoryLabel(i int) (string, bool) { return c.series.CategoryLabel(i) }

// Size returns the surface size.
func (c *Chart) Size() (int, int) { return c.width, c.height }

// Plot returns the plot rectangle inside the margins.
func (c *Chart) Plot() image.Rectangle { return c.layout.plot }

// Window returns the visible data-zoom window in percent.
func (c *Chart) Window() (start, end float64) { return c.start, c.end }

// Snapshot returns a copy of the chart's current viewport that carries no
// listeners. It can be rendered on another goroutine while c keeps changing.
func (c *Chart) Snapshot() *Chart {
	return &Chart{
		series:    c.series,
		margins:   c.margins,
		width:     c.width,
		height:    c.height,
		start:     c.start,
		end:       c.end,
		layout:    c.layout,
		listeners: make(map[Event][]listener),
	}
}

// VisibleRange returns the visible category indices and price range.
func (c *Chart) VisibleRange() (first, last, yMin, yMax float64, ok bool) {
	l := c.layout
	return l.first, l.last, l.yMin, l.yMax, l.ok
}

// On registers fn for ev and returns a function removing it.
func (c *Chart) On(ev Event, fn func()) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.listeners[ev] = append(c.listeners[ev], listener{id: id, fn: fn})
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		ls := c.listeners[ev]
		for i, l := range ls {
			if l.id == id {
				c.listeners[ev] = append(ls[:i:i], ls[i+1:]...)
				return
			}
		}
	}
}

func (c *Chart) emit(ev Event) {
	c.mu.Lock()
	ls := append([]listener(nil), c.listeners[ev]...)
	c.mu.Unlock()
	logger.WithField("event", ev).Trace("emit")
	for _, l := range ls {
		l.fn()
	}
}

// Resize changes the surface size.
func (c *Chart) Resize(w, h int) {
	if w == c.width && h == c.height {
		return
	}
	c.width, c.height = w, h
	c.relayout()
	c.emit(EventResize)
}

// SetWindow sets the data-zoom window in percent of the category range.
func (c *Chart) SetWindow(start, end float64) {
	start, end = c.clampWindow(start, end)
	if start == c.start && end == c.end {
		return
	}
	c.start, c.end = start, end
	c.relayout()
	c.emit(EventDataZoom)
}

// SetSeries replaces the charted series and keeps the current window.
func (c *Chart) SetSeries(s *Series) {
	c.series = s
	c.start, c.end = c.clampWindow(c.start, c.end)
	c.relayout()
	c.emit(EventDataZoom)
}

// Pan shifts the window by dx pixels. Positive dx drags the content right,
// revealing earlier categories.
func (c *Chart) Pan(dx float64) {
	pw := float64(c.layout.plot.Dx())
	if !c.layout.ok || pw <= 0 || dx == 0 {
		return
	}
	span := c.end - c.start
	shift := -dx / pw * span
	start := c.start + shift
	end := c.end + shift
	if start < 0 {
		start, end = 0, span
	}
	if end > 100 {
		start, end = 100-span, 100
	}
	c.SetWindow(start, end)
}

// Zoom scales the window around the pixel column anchorX. factor > 1 zooms
// in.
func (c *Chart) Zoom(factor, anchorX float64) {
	pw := float64(c.layout.plot.Dx())
	if !c.layout.ok || pw <= 0 || factor <= 0 || math.IsNaN(factor) {
		return
	}
	span := c.end - c.start
	frac := (anchorX - float64(c.layout.plot.Min.X)) / pw
	frac = math.Max(0, math.Min(1, frac))
	anchor := c.start + frac*span
	newSpan := math.Max(c.minSpan(), math.Min(100, span/factor))
	start := anchor - frac*newSpan
	end := start + newSpan
	if start < 0 {
		start, end = 0, newSpan
	}
	if end > 100 {
		start, end = 100-newSpan, 100
	}
	c.SetWindow(start, end)
}

// minSpan keeps at least two categories in view.
func (c *Chart) minSpan() float64 {
	n := c.series.Len()
	if n < 3 {
		return 100
	}
	return 200 / float64(n-1)
}

func (c *Chart) clampWindow(start, end float64) (float64, float64) {
	if math.IsNaN(start) || math.IsNaN(end) {
		return c.start, c.end
	}
	start = math.Max(0, math.Min(100, start))
	end = math.Max(0, math.Min(100, end))
	if end < start {
		start, end = end, start
	}
	if minSpan := c.minSpan(); end-start < minSpan {
		mid := (start + end) / 2
		start = math.Max(0, mid-minSpan/2)
		end = math.Min(100, start+minSpan)
		start = end - minSpan
	}
	return start, end
}

func (c *Chart) relayout() {
	// image.Rect would canonicalise a surface smaller than its margins.
	l := layout{
		plot: image.Rectangle{
			Min: image.Pt(c.margins.Left, c.margins.Top),
			Max: image.Pt(c.width-c.margins.Right, c.height-c.margins.Bottom),
		},
	}
	n := c.series.Len()
	if n == 0 || l.plot.Dx() <= 0 || l.plot.Dy() <= 0 {
		c.layout = l
		return
	}
	maxIdx := float64(n - 1)
	l.first = c.start / 100 * maxIdx
	l.last = c.end / 100 * maxIdx
	if l.last <= l.first {
		// a single candle sits in the middle of the plot
		l.first -= 0.5
		l.last += 0.5
	}
	lo, hi, ok := c.series.Range(int(math.Floor(l.first)), int(math.Ceil(l.last)))
	if !ok {
		c.layout = l
		return
	}
	pad := (hi - lo) * yPadding
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*yPadding, 1)
	}
	l.yMin, l.yMax = lo-pad, hi+pad
	l.ok = true
	c.layout = l
}

// ConvertToPixel maps a category index and price to surface pixels.
func (c *Chart) ConvertToPixel(axes bridge.AxisPair, x, y float64) (float64, float64, bool) {
	l := c.layout
	if axes != bridge.DefaultAxes || !l.ok {
		return 0, 0, false
	}
	px := float64(l.plot.Min.X) + (x-l.first)/(l.last-l.first)*float64(l.plot.Dx())
	py := float64(l.plot.Max.Y) - (y-l.yMin)/(l.yMax-l.yMin)*float64(l.plot.Dy())
	return px, py, true
}

// ConvertFromPixel maps surface pixels back to a category index and price.
func (c *Chart) ConvertFromPixel(axes bridge.AxisPair, px, py float64) (float64, float64, bool) {
	l := c.layout
	if axes != bridge.DefaultAxes || !l.ok {
		return 0, 0, false
	}
	x := l.first + (px-float64(l.plot.Min.X))/float64(l.plot.Dx())*(l.last-l.first)
	y := l.yMin + (float64(l.plot.Max.Y)-py)/float64(l.plot.Dy())*(l.yMax-l.yMin)
	return x, y, true
}
