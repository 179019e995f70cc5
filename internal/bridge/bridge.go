// Package bridge converts between the data-space trendlines are stored in and
// the pixel-space of the current chart viewport.
package bridge

import (
	"math"

	"github.com/example/trendlines/internal/geom"
)

// AxisPair names the x and y axes a projection is evaluated against.
type AxisPair struct {
	X int
	Y int
}

// DefaultAxes is the single category/price axis pair of a candlestick chart.
var DefaultAxes = AxisPair{X: 0, Y: 0}

// Engine is the projection exposed by a charting engine. Implementations
// return ok == false while the chart has no usable layout.
type Engine interface {
	ConvertToPixel(axes AxisPair, x, y float64) (px, py float64, ok bool)
	ConvertFromPixel(axes AxisPair, px, py float64) (x, y float64, ok bool)
}

// Projector maps points between data-space and pixel-space for the current
// viewport.
type Projector interface {
	ToPixel(p geom.DataPoint) (geom.PixelPoint, bool)
	ToData(p geom.PixelPoint) (geom.DataPoint, bool)
}

// Bridge is a Projector backed by an Engine. It keeps no state of its own
// so every call reflects the engine's viewport at that instant.
type Bridge struct {
	engine Engine
	axes   AxisPair
}

var _ Projector = (*Bridge)(nil)

// New returns a Bridge projecting through engine on the given axes.
func New(engine Engine, axes AxisPair) *Bridge {
	return &Bridge{engine: engine, axes: axes}
}

// ToPixel converts a data-space point to pixels.
func (b *Bridge) ToPixel(p geom.DataPoint) (geom.PixelPoint, bool) {
	if b == nil || b.engine == nil || !p.Finite() {
		return geom.PixelPoint{}, false
	}
	x, y, ok := b.engine.ConvertToPixel(b.axes, p.XIndex, p.YValue)
	if !ok || !finite(x) || !finite(y) {
		return geom.PixelPoint{}, false
	}
	return geom.PixelPoint{X: x, Y: y}, true
}

// ToData converts a pixel position to data-space. The x index may be
// fractional or outside the series.
func (b *Bridge) ToData(p geom.PixelPoint) (geom.DataPoint, bool) {
	if b == nil || b.engine == nil || !p.Finite() {
		return geom.DataPoint{}, false
	}
	x, y, ok := b.engine.ConvertFromPixel(b.axes, p.X, p.Y)
	if !ok || !finite(x) || !finite(y) {
		return geom.DataPoint{}, false
	}
	return geom.DataPoint{XIndex: x, YValue: y}, true
}

// ProjectSegment converts both ends of a data-space line. It fails if either
// end cannot be projected.
func ProjectSegment(proj Projector, start, end geom.DataPoint) (geom.Segment, bool) {
	a, ok := proj.ToPixel(start)
	if !ok {
		return geom.Segment{}, false
	}
	b, ok := proj.ToPixel(end)
	if !ok {
		return geom.Segment{}, false
	}
	return geom.Segment{Start: a, End: b}, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
