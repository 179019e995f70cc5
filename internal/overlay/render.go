// Package overlay draws trendlines, their handles and the creation preview
// on a transparent layer above the chart.
package overlay

import (
	"image"
	"image/color"
	"math"

	"github.com/example/trendlines/internal/bridge"
	"github.com/example/trendlines/internal/geom"
	"github.com/example/trendlines/internal/interaction"
	"github.com/example/trendlines/internal/raster"
	"github.com/example/trendlines/internal/theme"
)

const (
	LineWidth      = 2
	HoverLineWidth = 3
	HandleRadius   = 5
	HandleStroke   = 2
)

// Render clears dst and draws frame onto it through proj. Lines that cannot
// be projected are skipped. Nothing but dst is modified.
func Render(dst *image.RGBA, frame interaction.Frame, proj bridge.Projector, th *theme.Theme) {
	if dst == nil {
		return
	}
	if th == nil {
		th = theme.Default()
	}
	raster.Clear(dst, color.Transparent)

	for _, line := range frame.Lines {
		seg, ok := bridge.ProjectSegment(proj, line.Start, line.End)
		if !ok {
			continue
		}
		col, width := th.Line, LineWidth
		if frame.HoverKind != geom.HitNone && line.ID == frame.Hovered {
			col, width = th.LineHover, HoverLineWidth
		}
		raster.LineF(dst, seg.Start.X, seg.Start.Y, seg.End.X, seg.End.Y, col, width)
		drawHandle(dst, seg.Start, th)
		drawHandle(dst, seg.End, th)
	}

	if p := frame.Preview; p != nil {
		raster.LineF(dst, p.Start.X, p.Start.Y, p.End.X, p.End.Y, th.Preview, LineWidth)
	}
}

func drawHandle(dst *image.RGBA, at geom.PixelPoint, th *theme.Theme) {
	reach := float64(HandleRadius + HandleStroke)
	b := dst.Bounds()
	if at.X < float64(b.Min.X)-reach || at.X > float64(b.Max.X)+reach ||
		at.Y < float64(b.Min.Y)-reach || at.Y > float64(b.Max.Y)+reach {
		return
	}
	cx, cy := int(math.Round(at.X)), int(math.Round(at.Y))
	raster.Handle(dst, cx, cy, HandleRadius, th.HandleFill, th.HandleStroke, HandleStroke)
}
