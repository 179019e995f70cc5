//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "image"

func WriteImage(image.Image) error { return ErrUnsupported }

func WriteText(string) error { return ErrUnsupported }
