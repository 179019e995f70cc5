package raster

import (
	"image"
	"image/color"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	facesMu sync.Mutex
	faces   = map[float64]font.Face{}
	ttf     *opentype.Font
	ttfOnce sync.Once
)

// Face returns a Go Regular face at size points. Sizes of zero or less, or a
// font that fails to load, fall back to basicfont's 7x13 face.
func Face(size float64) font.Face {
	if size <= 0 {
		return basicfont.Face7x13
	}
	ttfOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			log.WithError(err).Warn("parse font")
			return
		}
		ttf = f
	})
	if ttf == nil {
		return basicfont.Face7x13
	}
	facesMu.Lock()
	defer facesMu.Unlock()
	if face, ok := faces[size]; ok {
		return face
	}
	face, err := opentype.NewFace(ttf, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.WithError(err).WithField("size", size).Warn("font face")
		return basicfont.Face7x13
	}
	faces[size] = face
	return face
}

// MeasureText returns the bounding box of text in face. baseline is the
// offset from the top of the box to the text baseline.
func MeasureText(face font.Face, text string) (width, height, baseline int) {
	d := &font.Drawer{Face: face}
	width = d.MeasureString(text).Ceil()
	m := face.Metrics()
	baseline = m.Ascent.Ceil()
	height = baseline + m.Descent.Ceil()
	return
}

// Text renders text with its top-left corner at (x, y).
func Text(img *image.RGBA, face font.Face, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

// TextCentered renders text centred horizontally and vertically on (cx, cy).
func TextCentered(img *image.RGBA, face font.Face, cx, cy int, text string, col color.Color) {
	w, h, _ := MeasureText(face, text)
	Text(img, face, cx-w/2, cy-h/2, text, col)
}
