package export

import (
	"errors"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	pricechart "github.com/example/trendlines/internal/chart"
)

const candleBodyRatio = 0.3

var (
	_ chart.Series                = (*candleSeries)(nil)
	_ chart.BoundedValuesProvider = (*candleSeries)(nil)
)

// candleSeries draws OHLC candles. go-chart has no candlestick series of its
// own, so the wick and body are stroked through the renderer directly.
type candleSeries struct {
	name    string
	first   int
	candles []pricechart.Candle
	up      drawing.Color
	down    drawing.Color
}

func (cs *candleSeries) GetName() string { return cs.name }

func (cs *candleSeries) GetStyle() chart.Style {
	return chart.Style{StrokeWidth: 1.0}
}

func (cs *candleSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }

func (cs *candleSeries) Validate() error {
	if len(cs.candles) == 0 {
		return errors.New("candle series: no candles")
	}
	return nil
}

func (cs *candleSeries) Len() int { return len(cs.candles) }

// GetBoundedValues returns the category index with the candle's high and low.
func (cs *candleSeries) GetBoundedValues(i int) (x, y1, y2 float64) {
	c := cs.candles[i]
	return float64(cs.first + i), c.High, c.Low
}

func (cs *candleSeries) Render(r chart.Renderer, box chart.Box, xr, yr chart.Range, _ chart.Style) {
	perCategory := float64(box.Width())
	if d := xr.GetDelta(); d > 0 {
		perCategory /= d
	}
	half := int(math.Max(1, math.Round(perCategory*candleBodyRatio)))

	for i, c := range cs.candles {
		x := box.Left + xr.Translate(float64(cs.first+i))
		col := cs.down
		if c.Up() {
			col = cs.up
		}
		r.SetStrokeColor(col)
		r.SetFillColor(col)
		r.SetStrokeWidth(1)

		r.MoveTo(x, box.Bottom-yr.Translate(c.High))
		r.LineTo(x, box.Bottom-yr.Translate(c.Low))
		r.Stroke()

		top := box.Bottom - yr.Translate(math.Max(c.Open, c.Close))
		bottom := box.Bottom - yr.Translate(math.Min(c.Open, c.Close))
		if bottom-top < 1 {
			bottom = top + 1
		}
		r.MoveTo(x-half, top)
		r.LineTo(x+half, top)
		r.LineTo(x+half, bottom)
		r.LineTo(x-half, bottom)
		r.Close()
		r.FillStroke()
	}
}
