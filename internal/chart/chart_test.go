package chart

import (
	"bytes"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/trendlines/internal/bridge"
	"github.com/example/trendlines/internal/theme"
)

func flatSeries(n int) *Series {
	s := &Series{}
	for i := 0; i < n; i++ {
		v := float64(100 + i)
		s.Candles = append(s.Candles, Candle{Label: time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC).Format(DateFormat), Open: v, Close: v + 1, Low: v - 1, High: v + 2})
	}
	return s
}

func TestDefaultWindow(t *testing.T) {
	c := New(flatSeries(101), WithSize(800, 600))
	start, end := c.Window()
	assert.Equal(t, DefaultStart, start)
	assert.Equal(t, DefaultEnd, end)
	first, last, _, _, ok := c.VisibleRange()
	require.True(t, ok)
	assert.Equal(t, 40.0, first)
	assert.Equal(t, 100.0, last)
}

func TestProjectionRoundTrip(t *testing.T) {
	c := New(flatSeries(50), WithSize(640, 480))
	for _, p := range [][2]float64{{20, 120}, {33.5, 140.25}, {49, 90}, {-5, 300}} {
		px, py, ok := c.ConvertToPixel(bridge.DefaultAxes, p[0], p[1])
		require.True(t, ok)
		x, y, ok := c.ConvertFromPixel(bridge.DefaultAxes, px, py)
		require.True(t, ok)
		assert.InDelta(t, p[0], x, 1e-9)
		assert.InDelta(t, p[1], y, 1e-9)
	}
}

func TestProjectionEdgesOfPlot(t *testing.T) {
	c := New(flatSeries(11), WithSize(200, 100), WithMargins(Margins{}), WithWindow(0, 100))
	px, _, ok := c.ConvertToPixel(bridge.DefaultAxes, 0, 100)
	require.True(t, ok)
	assert.Equal(t, 0.0, px)
	px, _, _ = c.ConvertToPixel(bridge.DefaultAxes, 10, 100)
	assert.Equal(t, 200.0, px)

	_, _, yMin, yMax, _ := c.VisibleRange()
	_, py, _ := c.ConvertToPixel(bridge.DefaultAxes, 0, yMin)
	assert.InDelta(t, 100.0, py, 1e-9)
	_, py, _ = c.ConvertToPixel(bridge.DefaultAxes, 0, yMax)
	assert.InDelta(t, 0.0, py, 1e-9)
}

func TestProjectionNotReady(t *testing.T) {
	_, _, ok := New(flatSeries(10)).ConvertToPixel(bridge.DefaultAxes, 1, 1)
	assert.False(t, ok, "zero size")

	_, _, ok = New(&Series{}, WithSize(100, 100)).ConvertToPixel(bridge.DefaultAxes, 1, 1)
	assert.False(t, ok, "empty series")

	c := New(flatSeries(10), WithSize(400, 300))
	_, _, ok = c.ConvertFromPixel(bridge.AxisPair{X: 1, Y: 0}, 1, 1)
	assert.False(t, ok, "unknown axes")
}

func TestPanKeepsDataAnchored(t *testing.T) {
	c := New(flatSeries(101), WithSize(800, 600))
	var zooms int
	c.On(EventDataZoom, func() { zooms++ })

	before, _, _ := c.ConvertToPixel(bridge.DefaultAxes, 70, 150)
	c.Pan(100)
	after, _, _ := c.ConvertToPixel(bridge.DefaultAxes, 70, 150)
	assert.InDelta(t, before+100, after, 1e-6)
	assert.Equal(t, 1, zooms)

	start, end := c.Window()
	assert.InDelta(t, 60.0, end-start, 1e-9)

	c.Pan(-1e6)
	start, end = c.Window()
	assert.Equal(t, 100.0, end)
	assert.InDelta(t, 40.0, start, 1e-9)
}

func TestZoomAroundAnchor(t *testing.T) {
	c := New(flatSeries(101), WithSize(800, 600), WithWindow(0, 100))
	plot := c.Plot()
	anchor := float64(plot.Min.X + plot.Dx()/2)
	x0, _, _ := c.ConvertFromPixel(bridge.DefaultAxes, anchor, 100)

	c.Zoom(2, anchor)
	start, end := c.Window()
	assert.InDelta(t, 50.0, end-start, 1e-9)
	x1, _, _ := c.ConvertFromPixel(bridge.DefaultAxes, anchor, 100)
	assert.InDelta(t, x0, x1, 1e-9)

	c.Zoom(1e9, anchor)
	start, end = c.Window()
	assert.InDelta(t, 2.0, end-start, 1e-9, "at least two categories stay visible")

	c.Zoom(1e-9, anchor)
	start, end = c.Window()
	assert.Equal(t, 0.0, start)
	assert.Equal(t, 100.0, end)
}

func TestEventsAndCancel(t *testing.T) {
	c := New(flatSeries(20), WithSize(300, 200))
	var resized, rendered int
	cancel := c.On(EventResize, func() { resized++ })
	c.On(EventRendered, func() { rendered++ })

	c.Resize(400, 200)
	c.Resize(400, 200)
	assert.Equal(t, 1, resized)

	cancel()
	c.Resize(500, 200)
	assert.Equal(t, 1, resized)

	c.Render(image.NewRGBA(image.Rect(0, 0, 500, 200)), nil)
	assert.Equal(t, 1, rendered)
}

func TestSnapshotIsDetached(t *testing.T) {
	c := New(flatSeries(20), WithSize(300, 200))
	rendered := 0
	c.On(EventRendered, func() { rendered++ })

	snap := c.Snapshot()
	c.SetWindow(0, 50)
	start, end := snap.Window()
	assert.Equal(t, DefaultStart, start)
	assert.Equal(t, DefaultEnd, end)

	snap.Render(image.NewRGBA(image.Rect(0, 0, 300, 200)), nil)
	assert.Zero(t, rendered, "snapshots do not notify the original's listeners")
}

func TestRenderPaintsCandles(t *testing.T) {
	s := &Series{Candles: []Candle{
		{Label: "a", Open: 10, Close: 20, Low: 5, High: 25},
		{Label: "b", Open: 20, Close: 10, Low: 5, High: 25},
		{Label: "c", Open: 10, Close: 20, Low: 5, High: 25},
	}}
	th := theme.Default()
	c := New(s, WithSize(300, 200), WithWindow(0, 100))
	img := image.NewRGBA(image.Rect(0, 0, 300, 200))
	c.Render(img, th)

	px, py, ok := c.ConvertToPixel(bridge.DefaultAxes, 1, 15)
	require.True(t, ok)
	assert.Equal(t, th.CandleDown, img.RGBAAt(int(px), int(py)))
	px, py, _ = c.ConvertToPixel(bridge.DefaultAxes, 0, 15)
	assert.Equal(t, th.CandleUp, img.RGBAAt(int(px)+1, int(py)))
	assert.Equal(t, th.Background, img.RGBAAt(2, 2))
}

func TestLoadCSVHeaderless(t *testing.T) {
	s, err := LoadCSV(strings.NewReader("2013/1/24,2320.26,2320.26,2287.3,2362.94\n2013/1/25,2300,2291.3,2288.26,2308.38\n"))
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, Candle{Label: "2013/1/24", Open: 2320.26, Close: 2320.26, Low: 2287.3, High: 2362.94}, s.Candles[0])
	label, ok := s.CategoryLabel(1)
	assert.True(t, ok)
	assert.Equal(t, "2013/1/25", label)
	_, ok = s.CategoryLabel(2)
	assert.False(t, ok)
}

func TestLoadCSVHeader(t *testing.T) {
	s, err := LoadCSV(strings.NewReader("Close, High, Date, Low, Open\n4,5,d1,1,2\n\n"))
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, Candle{Label: "d1", Open: 2, High: 5, Low: 1, Close: 4}, s.Candles[0])
}

func TestLoadCSVErrors(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptySeries)

	_, err = LoadCSV(strings.NewReader("d,1,2\n"))
	assert.ErrorIs(t, err, ErrNotEnoughColumns)

	_, err = LoadCSV(strings.NewReader("date,open,high,low,close\nd,1,x,1,1\n"))
	assert.ErrorIs(t, err, ErrInvalidPriceFormat)
	assert.Contains(t, err.Error(), "row 2")
}

func TestWriteCSVRoundTrip(t *testing.T) {
	s := GenerateSeries(30, 7, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, s))
	back, err := LoadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, s, back)
}

func TestGenerateSeriesDeterministic(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := GenerateSeries(100, 42, start)
	b := GenerateSeries(100, 42, start)
	assert.Equal(t, a, b)
	for _, c := range a.Candles {
		assert.GreaterOrEqual(t, c.High, max(c.Open, c.Close))
		assert.LessOrEqual(t, c.Low, min(c.Open, c.Close))
	}
	assert.Equal(t, "2024/01/01", a.Candles[0].Label)
}

func TestNiceTicks(t *testing.T) {
	assert.Equal(t, []float64{0, 20, 40, 60, 80, 100}, NiceTicks(0, 100, 5))
	assert.Equal(t, []float64{2300, 2350, 2400}, NiceTicks(2290, 2410, 3))
	assert.Nil(t, NiceTicks(5, 5, 3))
}
