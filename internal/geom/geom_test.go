package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	assert.Equal(t, 5.0, Distance(Pt(0, 0), Pt(3, 4)))
	assert.Equal(t, 0.0, Distance(Pt(7, 7), Pt(7, 7)))
}

func TestClosestOnSegmentClampsToEnds(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)
	assert.Equal(t, Pt(5, 0), ClosestOnSegment(Pt(5, 3), a, b))
	assert.Equal(t, a, ClosestOnSegment(Pt(-4, 3), a, b))
	assert.Equal(t, b, ClosestOnSegment(Pt(14, -3), a, b))
}

func TestPointNearSegment(t *testing.T) {
	a, b := Pt(100, 100), Pt(300, 150)
	tests := []struct {
		name string
		p    PixelPoint
		want bool
	}{
		{"on line", Pt(200, 125), true},
		{"just off line", Pt(200, 129), true},
		{"too far", Pt(200, 140), false},
		{"beyond end on the infinite line", Pt(500, 200), false},
		{"near start", Pt(97, 99), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PointNearSegment(tc.p, a, b, 6))
		})
	}
}

func TestPointNearSegmentSymmetric(t *testing.T) {
	segs := []Segment{
		{Pt(0, 0), Pt(100, 0)},
		{Pt(10, 80), Pt(90, 20)},
		{Pt(50, 50), Pt(50, 50)},
		{Pt(-20, 5), Pt(40, 300)},
	}
	probes := []PixelPoint{Pt(0, 0), Pt(50, 3), Pt(50, 10), Pt(60, 45), Pt(-30, -30), Pt(20, 150)}
	for _, s := range segs {
		for _, p := range probes {
			for _, th := range []float64{1, 6, 25} {
				assert.Equal(t,
					PointNearSegment(p, s.Start, s.End, th),
					PointNearSegment(p, s.End, s.Start, th),
					"segment %v probe %v threshold %v", s, p, th)
			}
		}
	}
}

func TestPointNearDegenerateSegment(t *testing.T) {
	a := Pt(20, 20)
	for _, p := range []PixelPoint{Pt(20, 20), Pt(23, 24), Pt(25, 25), Pt(40, 0)} {
		assert.Equal(t, Distance(p, a) < 6, PointNearSegment(p, a, a, 6), "probe %v", p)
	}
	got := ClosestOnSegment(Pt(99, 99), a, a)
	assert.False(t, math.IsNaN(got.X) || math.IsNaN(got.Y))
}

func TestClassifyPriority(t *testing.T) {
	th := DefaultThresholds()
	// both handles within range: start wins
	short := Segment{Pt(0, 0), Pt(4, 0)}
	assert.Equal(t, HitStart, Classify(Pt(2, 0), short, th))

	seg := Segment{Pt(0, 0), Pt(100, 0)}
	assert.Equal(t, HitStart, Classify(Pt(3, 3), seg, th))
	assert.Equal(t, HitEnd, Classify(Pt(97, -3), seg, th))
	assert.Equal(t, HitBody, Classify(Pt(50, 5), seg, th))
	assert.Equal(t, HitNone, Classify(Pt(50, 7), seg, th))
}

func TestHitTestFirstMatchWins(t *testing.T) {
	th := DefaultThresholds()
	segs := []Segment{
		{Pt(0, 0), Pt(100, 0)},
		{Pt(50, -50), Pt(50, 50)},
	}
	idx, kind := HitTest(Pt(50, 2), segs, th)
	assert.Equal(t, 0, idx)
	assert.Equal(t, HitBody, kind)

	idx, kind = HitTest(Pt(50, 48), segs, th)
	assert.Equal(t, 1, idx)
	assert.Equal(t, HitEnd, kind)

	idx, kind = HitTest(Pt(300, 300), segs, th)
	assert.Equal(t, -1, idx)
	assert.Equal(t, HitNone, kind)
}

func TestHoverTestPrefersHandlesAcrossSegments(t *testing.T) {
	th := DefaultThresholds()
	segs := []Segment{
		{Pt(0, 0), Pt(100, 0)},
		{Pt(50, 1), Pt(50, 80)},
	}
	// HitTest stops on the first segment's body, HoverTest finds the handle.
	idx, kind := HitTest(Pt(50, 2), segs, th)
	assert.Equal(t, 0, idx)
	assert.Equal(t, HitBody, kind)

	idx, kind = HoverTest(Pt(50, 2), segs, th)
	assert.Equal(t, 1, idx)
	assert.Equal(t, HitStart, kind)
}

func TestSegmentHelpers(t *testing.T) {
	s := Segment{Pt(0, 0), Pt(6, 8)}
	assert.Equal(t, 10.0, s.Length())
	assert.Equal(t, Pt(3, 4), s.Midpoint())
	assert.Equal(t, "body", HitBody.String())
	assert.True(t, HitEnd.IsEndpoint())
	assert.False(t, HitBody.IsEndpoint())
}

func TestFinite(t *testing.T) {
	assert.True(t, DataPoint{1, 2}.Finite())
	assert.False(t, DataPoint{math.NaN(), 2}.Finite())
	assert.False(t, PixelPoint{1, math.Inf(1)}.Finite())
}
