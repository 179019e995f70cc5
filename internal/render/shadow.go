package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configures a drop shadow.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// TooltipShadow is the soft shadow drawn under floating labels.
func TooltipShadow() ShadowOptions {
	return ShadowOptions{
		Radius:  3,
		Offset:  image.Pt(0, 2),
		Opacity: 0.3,
	}
}

// DropShadow composites a blurred shadow of rect onto dst. The shadow covers
// rect moved by opts.Offset and grown by opts.Radius, and is clipped to dst.
// It returns the area of dst that was touched.
func DropShadow(dst *image.RGBA, rect image.Rectangle, opts ShadowOptions) image.Rectangle {
	if dst == nil || rect.Empty() || opts.Opacity <= 0 {
		return image.Rectangle{}
	}
	opacity := opts.Opacity
	if opacity > 1 {
		opacity = 1
	}
	radius := opts.Radius
	if radius < 0 {
		radius = 0
	}

	// The mask needs a margin of radius around the solid area so the blur
	// has room to fall off.
	padded := rect.Inset(-2 * radius)
	mask := image.NewGray(padded.Sub(padded.Min))
	solid := rect.Sub(padded.Min)
	draw.Draw(mask, solid, image.NewUniform(color.Gray{Y: 255}), image.Point{}, draw.Src)

	blurred := blurGray(mask, radius)

	target := padded.Add(opts.Offset)
	clipped := target.Intersect(dst.Bounds())
	if clipped.Empty() {
		return image.Rectangle{}
	}
	shadowAlpha := uint8(opacity*255 + 0.5)
	src := image.NewUniform(color.RGBA{0, 0, 0, shadowAlpha})
	draw.DrawMask(dst, clipped, src, image.Point{}, blurred, clipped.Min.Sub(target.Min), draw.Over)
	return clipped
}

func blurGray(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		out := image.NewGray(src.Bounds())
		copy(out.Pix, src.Pix)
		return out
	}
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	tmp := image.NewGray(bounds)
	dst := image.NewGray(bounds)

	prefix := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		rowStart := y * src.Stride
		tmpStart := y * tmp.Stride
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(src.Pix[rowStart+x])
		}
		for x := 0; x < w; x++ {
			x0 := max(x-radius, 0)
			x1 := min(x+radius, w-1)
			tmp.Pix[tmpStart+x] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0 := max(y-radius, 0)
			y1 := min(y+radius, h-1)
			dst.Pix[y*dst.Stride+x] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}

	return dst
}
