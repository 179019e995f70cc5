// Package geom holds the point types shared by the chart overlay and the
// pixel-space hit-testing used to classify pointer gestures.
package geom

import "math"

// DataPoint is a location anchored to the price series: a (possibly
// fractional) category index and a price. It is the only coordinate space
// trendlines are persisted in.
type DataPoint struct {
	XIndex float64 `json:"xIndex"`
	YValue float64 `json:"yValue"`
}

// Finite reports whether both coordinates are finite numbers.
func (p DataPoint) Finite() bool {
	return finite(p.XIndex) && finite(p.YValue)
}

// PixelPoint is a position on the overlay surface for the current viewport.
type PixelPoint struct {
	X float64
	Y float64
}

// Pt is shorthand for PixelPoint{x, y}.
func Pt(x, y float64) PixelPoint { return PixelPoint{X: x, Y: y} }

// Add returns p translated by q.
func (p PixelPoint) Add(q PixelPoint) PixelPoint { return PixelPoint{p.X + q.X, p.Y + q.Y} }

// Sub returns p translated by -q.
func (p PixelPoint) Sub(q PixelPoint) PixelPoint { return PixelPoint{p.X - q.X, p.Y - q.Y} }

// Finite reports whether both coordinates are finite numbers.
func (p PixelPoint) Finite() bool {
	return finite(p.X) && finite(p.Y)
}

// Segment is a straight line between two pixel positions.
type Segment struct {
	Start PixelPoint
	End   PixelPoint
}

// Length returns the euclidean length of the segment.
func (s Segment) Length() float64 { return Distance(s.Start, s.End) }

// Midpoint returns the point halfway along the segment.
func (s Segment) Midpoint() PixelPoint { return Midpoint(s.Start, s.End) }

// Distance returns the euclidean distance between a and b.
func Distance(a, b PixelPoint) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b PixelPoint) PixelPoint {
	return PixelPoint{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// ClosestOnSegment projects p onto the line through a and b and clamps the
// projection to the segment. A zero-length segment yields a.
func ClosestOnSegment(p, a, b PixelPoint) PixelPoint {
	cx := b.X - a.X
	cy := b.Y - a.Y
	lenSq := cx*cx + cy*cy
	t := 0.0
	if lenSq > 0 {
		t = ((p.X-a.X)*cx + (p.Y-a.Y)*cy) / lenSq
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return PixelPoint{X: a.X + t*cx, Y: a.Y + t*cy}
}

// PointNearSegment reports whether p lies closer than threshold to the
// segment a-b.
func PointNearSegment(p, a, b PixelPoint, threshold float64) bool {
	return Distance(p, ClosestOnSegment(p, a, b)) < threshold
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
