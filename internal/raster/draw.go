// Package raster draws the primitives the chart and overlay are built from
// onto *image.RGBA surfaces. Everything clips to the destination bounds.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	b := img.Bounds()
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			px := x + dx
			py := y + dy
			if image.Pt(px, py).In(b) {
				img.Set(px, py, col)
			}
		}
	}
}

// Line draws a Bresenham line of the given thickness between two points.
func Line(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// LineF clips a float segment to img and draws it. Segments with non-finite
// ends or entirely outside the image are skipped.
func LineF(img *image.RGBA, x0, y0, x1, y1 float64, col color.Color, thick int) bool {
	pad := float64(thick)
	r := img.Bounds()
	cx0, cy0, cx1, cy1, ok := ClipSegment(x0, y0, x1, y1,
		float64(r.Min.X)-pad, float64(r.Min.Y)-pad, float64(r.Max.X)+pad, float64(r.Max.Y)+pad)
	if !ok {
		return false
	}
	Line(img, round(cx0), round(cy0), round(cx1), round(cy1), col, thick)
	return true
}

func circleThin(img *image.RGBA, cx, cy, r int, col color.Color) {
	x := r
	y := 0
	err := 1 - r
	b := img.Bounds()
	for x >= y {
		pts := [][2]int{{x, y}, {y, x}, {-y, x}, {-x, y}, {-x, -y}, {-y, -x}, {y, -x}, {x, -y}}
		for _, p := range pts {
			px := cx + p[0]
			py := cy + p[1]
			if image.Pt(px, py).In(b) {
				img.Set(px, py, col)
			}
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2 * (y - x + 1)
		}
	}
}

// Circle strokes a circle outline centred on (cx, cy).
func Circle(img *image.RGBA, cx, cy, r int, col color.Color, thick int) {
	if thick <= 0 {
		circleThin(img, cx, cy, r, col)
		return
	}
	start := -thick / 2
	for i := 0; i < thick; i++ {
		rr := r + start + i
		if rr >= 0 {
			circleThin(img, cx, cy, rr, col)
		}
	}
}

// FilledCircle paints a solid disc.
func FilledCircle(img *image.RGBA, cx, cy, r int, col color.Color) {
	b := img.Bounds()
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				px := cx + dx
				py := cy + dy
				if image.Pt(px, py).In(b) {
					img.Set(px, py, col)
				}
			}
		}
	}
}

// Handle draws a filled disc with an outline, the shape used for endpoints.
func Handle(img *image.RGBA, cx, cy, r int, fill, stroke color.Color, thick int) {
	FilledCircle(img, cx, cy, r, fill)
	Circle(img, cx, cy, r, stroke, thick)
}

// Rect strokes the inside edge of rect.
func Rect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	Line(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, col, thick)
	Line(img, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, col, thick)
	Line(img, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, col, thick)
	Line(img, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, col, thick)
}

// FillRect composites col over rect.
func FillRect(img *image.RGBA, rect image.Rectangle, col color.Color) {
	draw.Draw(img, rect.Intersect(img.Bounds()), image.NewUniform(col), image.Point{}, draw.Over)
}

// DashedLine draws an axis-aligned dashed line alternating c1 and c2. It
// only supports horizontal and vertical runs, which is all the grid needs.
func DashedLine(img *image.RGBA, x0, y0, x1, y1, dash, thickness int, c1, c2 color.Color) {
	if dash <= 0 {
		dash = 1
	}
	horiz := y0 == y1
	length := x1 - x0
	if !horiz {
		length = y1 - y0
	}
	step := 1
	if length < 0 {
		length = -length
		step = -1
	}
	b := img.Bounds()
	set := func(i int, col color.Color) {
		if col == nil {
			return
		}
		for t := 0; t < thickness; t++ {
			var p image.Point
			if horiz {
				p = image.Pt(x0+step*i, y0+t)
			} else {
				p = image.Pt(x0+t, y0+step*i)
			}
			if p.In(b) {
				img.Set(p.X, p.Y, col)
			}
		}
	}
	for i := 0; i <= length; i++ {
		if (i/dash)%2 == 0 {
			set(i, c1)
		} else {
			set(i, c2)
		}
	}
}

// Clear fills the whole image with col, replacing existing pixels.
func Clear(img *image.RGBA, col color.Color) {
	draw.Draw(img, img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

func round(v float64) int {
	return int(math.Round(v))
}
