// Package export renders a static PNG report of the series and its
// trendlines with go-chart.
package export

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	pricechart "github.com/example/trendlines/internal/chart"
	"github.com/example/trendlines/internal/raster"
	"github.com/example/trendlines/internal/store"
	"github.com/example/trendlines/internal/theme"
)

var logger = log.WithField("component", "export")

// Options controls the report size and look.
type Options struct {
	Width  int
	Height int
	Title  string
	Theme  *theme.Theme
}

// DefaultOptions returns a 1200×600 report in the default theme.
func DefaultOptions() Options {
	return Options{Width: 1200, Height: 600, Theme: theme.Default()}
}

// View is the data window of the report in category indices and prices.
type View struct {
	First, Last float64
	YMin, YMax  float64
}

// ViewOf returns the window currently shown by c.
func ViewOf(c *pricechart.Chart) (View, bool) {
	first, last, yMin, yMax, ok := c.VisibleRange()
	return View{First: first, Last: last, YMin: yMin, YMax: yMax}, ok
}

// FullView covers every candle with a 5% price margin.
func FullView(s *pricechart.Series) (View, bool) {
	n := s.Len()
	lo, hi, ok := s.Range(0, n-1)
	if !ok {
		return View{}, false
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.05, 1)
	}
	v := View{First: 0, Last: float64(n - 1), YMin: lo - pad, YMax: hi + pad}
	if v.Last <= v.First {
		v.First -= 0.5
		v.Last += 0.5
	}
	return v, true
}

func toDrawing(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Build assembles the go-chart graph for the given view. Trendlines are
// clipped to the view; lines entirely outside it are left out.
func Build(s *pricechart.Series, lines []store.Trendline, view View, opts Options) (chart.Chart, error) {
	if s.Len() == 0 {
		return chart.Chart{}, pricechart.ErrEmptySeries
	}
	if !(view.Last > view.First) || !(view.YMax > view.YMin) {
		return chart.Chart{}, fmt.Errorf("export: empty view %+v", view)
	}
	th := opts.Theme
	if th == nil {
		th = theme.Default()
	}

	from := max(int(math.Ceil(view.First)), 0)
	to := min(int(math.Floor(view.Last)), s.Len()-1)
	if from > to {
		return chart.Chart{}, fmt.Errorf("export: view %+v holds no candles", view)
	}

	series := []chart.Series{&candleSeries{
		name:    "price",
		first:   from,
		candles: s.Candles[from : to+1],
		up:      toDrawing(th.CandleUp),
		down:    toDrawing(th.CandleDown),
	}}
	for _, line := range lines {
		x0, y0, x1, y1, ok := raster.ClipSegment(line.Start.XIndex, line.Start.YValue, line.End.XIndex, line.End.YValue,
			view.First, view.YMin, view.Last, view.YMax)
		if !ok {
			logger.WithField("id", line.ID).Debug("trendline outside the report window")
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("trendline %d", line.ID),
			XValues: []float64{x0, x1},
			YValues: []float64{y0, y1},
			Style: chart.Style{
				StrokeColor: toDrawing(th.Line),
				StrokeWidth: 2,
			},
		})
	}

	axis := chart.Style{
		FontColor:   toDrawing(th.AxisText),
		StrokeColor: toDrawing(th.Grid),
	}
	return chart.Chart{
		Title:      opts.Title,
		TitleStyle: chart.Style{FontColor: toDrawing(th.AxisText)},
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{
			FillColor: toDrawing(th.Background),
			Padding:   chart.Box{Top: 20, Left: 10, Right: 20, Bottom: 10},
		},
		Canvas: chart.Style{FillColor: toDrawing(th.Background)},
		XAxis: chart.XAxis{
			Style: axis,
			Range: &chart.ContinuousRange{Min: view.First, Max: view.Last},
			ValueFormatter: func(v interface{}) string {
				f, ok := v.(float64)
				if !ok {
					return ""
				}
				label, ok := s.CategoryLabel(int(math.Floor(f + 0.5)))
				if !ok {
					return ""
				}
				return label
			},
		},
		YAxis: chart.YAxis{
			Style: axis,
			Range: &chart.ContinuousRange{Min: view.YMin, Max: view.YMax},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		Series: series,
	}, nil
}

// Render writes the report as PNG to w.
func Render(w io.Writer, s *pricechart.Series, lines []store.Trendline, view View, opts Options) error {
	graph, err := Build(s, lines, view, opts)
	if err != nil {
		return err
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}

// WriteFile renders the report into path. The file is only created once
// rendering succeeded.
func WriteFile(path string, s *pricechart.Series, lines []store.Trendline, view View, opts Options) error {
	var buf bytes.Buffer
	if err := Render(&buf, s, lines, view, opts); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.WithFields(log.Fields{"path": path, "lines": len(lines)}).Info("exported chart")
	return nil
}
