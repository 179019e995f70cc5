package raster

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"
)

var red = color.RGBA{255, 0, 0, 255}

func TestLineEndpointsAndClipping(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	Line(img, -5, 2, 20, 2, red, 1)
	for x := 0; x < 10; x++ {
		assert.Equal(t, red, img.RGBAAt(x, 2), "x=%d", x)
	}
	assert.Equal(t, color.RGBA{}, img.RGBAAt(0, 3))
}

func TestThickLine(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	Line(img, 2, 5, 7, 5, red, 3)
	assert.Equal(t, red, img.RGBAAt(4, 4))
	assert.Equal(t, red, img.RGBAAt(4, 6))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(4, 8))
}

func TestLineFSkipsOutside(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	assert.False(t, LineF(img, 100, 100, 200, 200, red, 1))
	assert.False(t, LineF(img, math.NaN(), 0, 5, 5, red, 1))
	assert.True(t, LineF(img, -1000, 5, 1000, 5, red, 1))
	assert.Equal(t, red, img.RGBAAt(5, 5))
}

func TestClipSegment(t *testing.T) {
	tests := []struct {
		name               string
		x0, y0, x1, y1     float64
		ok                 bool
		wx0, wy0, wx1, wy1 float64
	}{
		{"inside", 1, 1, 5, 5, true, 1, 1, 5, 5},
		{"crosses", -5, 5, 15, 5, true, 0, 5, 10, 5},
		{"outside", 11, 0, 20, 0, false, 0, 0, 0, 0},
		{"parallel outside", -1, -5, -1, 5, false, 0, 0, 0, 0},
		{"diagonal", -10, -10, 20, 20, true, 0, 0, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x0, y0, x1, y1, ok := ClipSegment(tt.x0, tt.y0, tt.x1, tt.y1, 0, 0, 10, 10)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tt.wx0, x0, 1e-9)
			assert.InDelta(t, tt.wy0, y0, 1e-9)
			assert.InDelta(t, tt.wx1, x1, 1e-9)
			assert.InDelta(t, tt.wy1, y1, 1e-9)
		})
	}
}

func TestHandle(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	white := color.RGBA{255, 255, 255, 255}
	Handle(img, 10, 10, 5, white, red, 2)
	assert.Equal(t, white, img.RGBAAt(10, 10))
	assert.Equal(t, red, img.RGBAAt(15, 10))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(0, 0))
}

func TestDashedLineAlternates(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 1))
	blue := color.RGBA{0, 0, 255, 255}
	DashedLine(img, 0, 0, 9, 0, 2, 1, red, blue)
	assert.Equal(t, red, img.RGBAAt(0, 0))
	assert.Equal(t, red, img.RGBAAt(1, 0))
	assert.Equal(t, blue, img.RGBAAt(2, 0))
	assert.Equal(t, red, img.RGBAAt(4, 0))

	img = image.NewRGBA(image.Rect(0, 0, 1, 10))
	DashedLine(img, 0, 9, 0, 0, 3, 1, red, nil)
	assert.Equal(t, red, img.RGBAAt(0, 9))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(0, 6))
}

func TestRectAndFill(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	Rect(img, image.Rect(2, 2, 8, 8), red, 1)
	assert.Equal(t, red, img.RGBAAt(2, 2))
	assert.Equal(t, red, img.RGBAAt(7, 7))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(4, 4))

	FillRect(img, image.Rect(-3, -3, 3, 3), red)
	assert.Equal(t, red, img.RGBAAt(0, 0))
}

func TestTextDrawsPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 20))
	Text(img, basicfont.Face7x13, 1, 1, "Hi", red)
	var painted bool
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			painted = true
			break
		}
	}
	assert.True(t, painted)

	w, h, base := MeasureText(basicfont.Face7x13, "abc")
	assert.Equal(t, 21, w)
	assert.Greater(t, h, base)
}

func TestFaceFallback(t *testing.T) {
	assert.Equal(t, basicfont.Face7x13, Face(0))
	f := Face(12)
	require.NotNil(t, f)
	assert.Same(t, f, Face(12))
}
