package chart

import (
	"image"
	"math"
	"strconv"

	"github.com/example/trendlines/internal/bridge"
	"github.com/example/trendlines/internal/raster"
	"github.com/example/trendlines/internal/theme"
)

const (
	labelSize    = 11
	minTickGapPx = 40
	minDateGapPx = 90
)

// Render draws the chart into dst and then emits EventRendered. dst is
// expected to match the chart size.
func (c *Chart) Render(dst *image.RGBA, th *theme.Theme) {
	if th == nil {
		th = theme.Default()
	}
	raster.Clear(dst, th.Background)
	l := c.layout
	if l.ok {
		c.drawGrid(dst, th)
		c.drawCandles(dst, th)
		c.drawDates(dst, th)
	}
	c.emit(EventRendered)
}

func (c *Chart) drawGrid(dst *image.RGBA, th *theme.Theme) {
	l := c.layout
	face := raster.Face(labelSize)
	count := max(2, l.plot.Dy()/minTickGapPx)
	for _, v := range NiceTicks(l.yMin, l.yMax, count) {
		_, py, ok := c.ConvertToPixel(bridge.DefaultAxes, 0, v)
		if !ok {
			continue
		}
		y := int(math.Round(py))
		raster.DashedLine(dst, l.plot.Min.X, y, l.plot.Max.X, y, 4, 1, th.Grid, nil)
		_, h, _ := raster.MeasureText(face, "0")
		raster.Text(dst, face, l.plot.Max.X+6, y-h/2, formatPrice(v), th.AxisText)
	}
	raster.Line(dst, l.plot.Min.X, l.plot.Max.Y, l.plot.Max.X, l.plot.Max.Y, th.AxisText, 1)
}

func (c *Chart) drawCandles(dst *image.RGBA, th *theme.Theme) {
	l := c.layout
	pxPerCat := float64(l.plot.Dx()) / (l.last - l.first)
	half := int(math.Max(1, pxPerCat*0.3))
	from := max(0, int(math.Floor(l.first))-1)
	to := min(c.series.Len()-1, int(math.Ceil(l.last))+1)
	clip := dst.SubImage(l.plot.Inset(-half)).(*image.RGBA)
	for i := from; i <= to; i++ {
		cdl := c.series.Candles[i]
		px, top, ok1 := c.ConvertToPixel(bridge.DefaultAxes, float64(i), cdl.High)
		_, bottom, ok2 := c.ConvertToPixel(bridge.DefaultAxes, float64(i), cdl.Low)
		_, o, ok3 := c.ConvertToPixel(bridge.DefaultAxes, float64(i), cdl.Open)
		_, cl, ok4 := c.ConvertToPixel(bridge.DefaultAxes, float64(i), cdl.Close)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		col := th.CandleDown
		if cdl.Up() {
			col = th.CandleUp
		}
		x := int(math.Round(px))
		raster.Line(clip, x, int(math.Round(top)), x, int(math.Round(bottom)), col, 1)
		y0 := int(math.Round(math.Min(o, cl)))
		y1 := int(math.Round(math.Max(o, cl)))
		raster.FillRect(clip, image.Rect(x-half, y0, x+half+1, max(y1, y0+1)), col)
	}
}

func (c *Chart) drawDates(dst *image.RGBA, th *theme.Theme) {
	l := c.layout
	face := raster.Face(labelSize)
	pxPerCat := float64(l.plot.Dx()) / (l.last - l.first)
	step := max(1, int(math.Ceil(minDateGapPx/pxPerCat)))
	first := int(math.Ceil(l.first))
	first += (step - first%step) % step
	for i := first; float64(i) <= l.last && i < c.series.Len(); i += step {
		label, _ := c.series.CategoryLabel(i)
		px, _, ok := c.ConvertToPixel(bridge.DefaultAxes, float64(i), l.yMin)
		if !ok {
			continue
		}
		x := int(math.Round(px))
		raster.Line(dst, x, l.plot.Max.Y, x, l.plot.Max.Y+4, th.AxisText, 1)
		w, _, _ := raster.MeasureText(face, label)
		raster.Text(dst, face, x-w/2, l.plot.Max.Y+6, label, th.AxisText)
	}
}

// NiceTicks returns round tick values covering [lo, hi] with roughly count
// intervals.
func NiceTicks(lo, hi float64, count int) []float64 {
	if !(hi > lo) || count <= 0 {
		return nil
	}
	step := niceNum((hi-lo)/float64(count), true)
	var ticks []float64
	for v := math.Ceil(lo/step) * step; v <= hi+step*1e-9; v += step {
		ticks = append(ticks, v)
	}
	return ticks
}

func niceNum(x float64, round bool) float64 {
	exp := math.Floor(math.Log10(x))
	f := x / math.Pow(10, exp)
	var nf float64
	switch {
	case round && f < 1.5, !round && f <= 1:
		nf = 1
	case round && f < 3, !round && f <= 2:
		nf = 2
	case round && f < 7, !round && f <= 5:
		nf = 5
	default:
		nf = 10
	}
	return nf * math.Pow(10, exp)
}

func formatPrice(v float64) string {
	if math.Abs(v) >= 100 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
