// Package clipboard publishes rendered chart frames and trendline exports to
// the system clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
)

// ErrUnsupported is returned on platforms without clipboard support.
var ErrUnsupported = errors.New("clipboard is not supported on this platform")

// encodePNG is the payload format for image writes.
func encodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, errors.New("clipboard: nil image")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
