package tile

import (
	"errors"
	"fmt"
)

// Shades, darkest first
const (
	Black byte = iota
	DarkGray
	LightGray
	White
)

// ErrInvalidGrid is returned when a pixel buffer does not match its dimensions
var ErrInvalidGrid = errors.New("tile: invalid grid")

// Grid holds one shade per pixel in row-major order.
type Grid struct {
	Width  int
	Height int
	Pix    []byte
}

// Luma returns the perceived brightness of an RGB triple.
func Luma(r, g, b byte) float64 {
	return float64(r)*0.3 + float64(g)*0.59 + float64(b)*0.11
}

// Shade maps a luma value to one of the four shades.
//
// The value is first split into thirds at 85 and 170 and each third is then
// split again at 65, 129 and 193 respectively, which collapses to the
// thresholds below.
func Shade(luma float64) byte {
	switch {
	case luma < 65:
		return Black
	case luma < 129:
		return DarkGray
	case luma < 193:
		return LightGray
	default:
		return White
	}
}

// Quantize converts a buffer of RGBA samples into a Grid. Alpha is ignored;
// the buffer is expected to have been composited already.
func Quantize(pix []byte, width, height int) (*Grid, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidGrid, width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d pixels", ErrInvalidGrid, len(pix), width, height)
	}

	g := &Grid{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height),
	}
	for i := range g.Pix {
		p := pix[i*4 : i*4+3]
		g.Pix[i] = Shade(Luma(p[0], p[1], p[2]))
	}

	return g, nil
}
