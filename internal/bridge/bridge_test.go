package bridge

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/trendlines/internal/geom"
)

// linearEngine maps index i to i*scale+offset and prices to a flipped y axis.
type linearEngine struct {
	scale, offset, height, priceScale float64
	ready                             bool
	calls                             int
}

func (e *linearEngine) ConvertToPixel(axes AxisPair, x, y float64) (float64, float64, bool) {
	e.calls++
	if !e.ready || axes != DefaultAxes {
		return 0, 0, false
	}
	return x*e.scale + e.offset, e.height - y*e.priceScale, true
}

func (e *linearEngine) ConvertFromPixel(axes AxisPair, px, py float64) (float64, float64, bool) {
	e.calls++
	if !e.ready || axes != DefaultAxes {
		return 0, 0, false
	}
	return (px - e.offset) / e.scale, (e.height - py) / e.priceScale, true
}

func TestBridgeRoundTrip(t *testing.T) {
	eng := &linearEngine{scale: 7.5, offset: 40, height: 600, priceScale: 3.2, ready: true}
	b := New(eng, DefaultAxes)
	for _, p := range []geom.DataPoint{{XIndex: 0, YValue: 0}, {XIndex: 10, YValue: 50}, {XIndex: 12.25, YValue: 55.125}, {XIndex: -3, YValue: 1000}} {
		px, ok := b.ToPixel(p)
		require.True(t, ok)
		back, ok := b.ToData(px)
		require.True(t, ok)
		assert.InDelta(t, p.XIndex, back.XIndex, 1e-9)
		assert.InDelta(t, p.YValue, back.YValue, 1e-9)
	}
}

func TestBridgeReflectsEngineChanges(t *testing.T) {
	eng := &linearEngine{scale: 10, height: 100, priceScale: 1, ready: true}
	b := New(eng, DefaultAxes)
	p := geom.DataPoint{XIndex: 5, YValue: 20}
	before, ok := b.ToPixel(p)
	require.True(t, ok)
	eng.scale = 20
	after, ok := b.ToPixel(p)
	require.True(t, ok)
	assert.Equal(t, 50.0, before.X)
	assert.Equal(t, 100.0, after.X)
}

func TestBridgeInvalidProjection(t *testing.T) {
	eng := &linearEngine{scale: 10, height: 100, priceScale: 1}
	b := New(eng, DefaultAxes)
	_, ok := b.ToPixel(geom.DataPoint{XIndex: 1, YValue: 1})
	assert.False(t, ok)
	_, ok = b.ToData(geom.Pt(1, 1))
	assert.False(t, ok)

	eng.ready = true
	_, ok = New(eng, AxisPair{X: 1}).ToPixel(geom.DataPoint{})
	assert.False(t, ok, "unknown axis pair")

	// a zero scale produces infinities which must be rejected
	eng.scale = 0
	_, ok = b.ToData(geom.Pt(10, 10))
	assert.False(t, ok)

	_, ok = b.ToPixel(geom.DataPoint{XIndex: math.NaN()})
	assert.False(t, ok)

	var nilBridge *Bridge
	_, ok = nilBridge.ToPixel(geom.DataPoint{})
	assert.False(t, ok)
}

func TestProjectSegment(t *testing.T) {
	eng := &linearEngine{scale: 10, height: 100, priceScale: 1, ready: true}
	seg, ok := ProjectSegment(New(eng, DefaultAxes), geom.DataPoint{XIndex: 1, YValue: 10}, geom.DataPoint{XIndex: 3, YValue: 30})
	require.True(t, ok)
	assert.Equal(t, geom.Pt(10, 90), seg.Start)
	assert.Equal(t, geom.Pt(30, 70), seg.End)

	eng.ready = false
	_, ok = ProjectSegment(New(eng, DefaultAxes), geom.DataPoint{XIndex: 1, YValue: 10}, geom.DataPoint{XIndex: 3, YValue: 30})
	assert.False(t, ok)
}
