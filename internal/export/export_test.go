package export

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"

	pricechart "github.com/example/trendlines/internal/chart"
	"github.com/example/trendlines/internal/geom"
	"github.com/example/trendlines/internal/store"
)

func sampleSeries() *pricechart.Series {
	return pricechart.GenerateSeries(30, 7, time.Date(2013, 1, 24, 0, 0, 0, 0, time.UTC))
}

func trend(id int64, x0, y0, x1, y1 float64) store.Trendline {
	return store.Trendline{ID: id, Start: geom.DataPoint{XIndex: x0, YValue: y0}, End: geom.DataPoint{XIndex: x1, YValue: y1}}
}

func TestBuildClipsTrendlines(t *testing.T) {
	s := sampleSeries()
	view := View{First: 10, Last: 20, YMin: 2000, YMax: 2600}
	lines := []store.Trendline{
		trend(1, 12, 2100, 18, 2500),
		trend(2, 0, 2300, 30, 2300),
		trend(3, 25, 2100, 29, 2200),
	}

	graph, err := Build(s, lines, view, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, graph.Series, 3, "candles plus two visible lines")

	candles, ok := graph.Series[0].(*candleSeries)
	require.True(t, ok)
	assert.Equal(t, 10, candles.first)
	assert.Equal(t, 11, candles.Len())
	x, hi, lo := candles.GetBoundedValues(0)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, s.Candles[10].High, hi)
	assert.Equal(t, s.Candles[10].Low, lo)

	inside := graph.Series[1].(chart.ContinuousSeries)
	assert.Equal(t, []float64{12, 18}, inside.XValues)
	assert.Equal(t, []float64{2100, 2500}, inside.YValues)

	clipped := graph.Series[2].(chart.ContinuousSeries)
	assert.Equal(t, "trendline 2", clipped.Name)
	assert.InDeltaSlice(t, []float64{10, 20}, clipped.XValues, 1e-9)
	assert.InDeltaSlice(t, []float64{2300, 2300}, clipped.YValues, 1e-9)

	assert.Equal(t, s.Candles[15].Label, graph.XAxis.ValueFormatter(15.2))
	assert.Equal(t, "", graph.XAxis.ValueFormatter(99.0))
	assert.Equal(t, "2300.50", graph.YAxis.ValueFormatter(2300.5))
}

func TestBuildRejectsEmptyInput(t *testing.T) {
	_, err := Build(&pricechart.Series{}, nil, View{First: 0, Last: 1, YMin: 0, YMax: 1}, DefaultOptions())
	assert.ErrorIs(t, err, pricechart.ErrEmptySeries)

	_, err = Build(sampleSeries(), nil, View{}, DefaultOptions())
	assert.Error(t, err)

	_, err = Build(sampleSeries(), nil, View{First: 40, Last: 50, YMin: 0, YMax: 1}, DefaultOptions())
	assert.Error(t, err)
}

func TestFullView(t *testing.T) {
	s := &pricechart.Series{Candles: []pricechart.Candle{
		{Label: "a", Open: 10, High: 20, Low: 0, Close: 15},
		{Label: "b", Open: 15, High: 10, Low: 5, Close: 8},
	}}
	v, ok := FullView(s)
	require.True(t, ok)
	assert.Equal(t, View{First: 0, Last: 1, YMin: -1, YMax: 21}, v)

	single := &pricechart.Series{Candles: s.Candles[:1]}
	v, ok = FullView(single)
	require.True(t, ok)
	assert.Equal(t, -0.5, v.First)
	assert.Equal(t, 0.5, v.Last)

	_, ok = FullView(&pricechart.Series{})
	assert.False(t, ok)
}

func TestViewOfFollowsChart(t *testing.T) {
	c := pricechart.New(sampleSeries(), pricechart.WithSize(800, 400))
	v, ok := ViewOf(c)
	require.True(t, ok)
	first, last, _, _, _ := c.VisibleRange()
	assert.Equal(t, first, v.First)
	assert.Equal(t, last, v.Last)
}

func TestWriteFileProducesPNG(t *testing.T) {
	s := sampleSeries()
	view, ok := FullView(s)
	require.True(t, ok)
	opts := DefaultOptions()
	opts.Width, opts.Height = 400, 240
	opts.Title = "sample"

	path := filepath.Join(t.TempDir(), "report.png")
	require.NoError(t, WriteFile(path, s, []store.Trendline{trend(1, 2, 2290, 25, 2310)}, view, opts))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 240, cfg.Height)
}

func TestWriteFileLeavesNothingOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.png")
	err := WriteFile(path, &pricechart.Series{}, nil, View{}, DefaultOptions())
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
