package tile

import (
	"errors"
	"image"
	"image/color"
	"io"
)

var (
	errNotEnough = errors.New("tile: not enough tile data")
	errBadMap    = errors.New("tile: map does not match dimensions")
)

// Palette holds the four shades as gray levels, indexed by shade.
var Palette = color.Palette{
	color.Gray{Y: 0x00},
	color.Gray{Y: 0x55},
	color.Gray{Y: 0xaa},
	color.Gray{Y: 0xff},
}

// Indexed by high bit << 1 | low bit
var planeShades = [4]byte{White, DarkGray, LightGray, Black}

// Read reads a raw stream of 16 byte tiles from r until EOF.
func Read(r io.Reader) ([]Tile, error) {
	var tiles []Tile
	for {
		var t Tile
		_, err := io.ReadFull(r, t[:])
		switch err {
		case nil:
			tiles = append(tiles, t)
		case io.EOF:
			return tiles, nil
		case io.ErrUnexpectedEOF:
			return nil, errNotEnough
		default:
			return nil, err
		}
	}
}

// Shades returns the shade of each pixel of t in row-major order.
func (t Tile) Shades() [tilePixels]byte {
	var s [tilePixels]byte
	for y := 0; y < tileHeight; y++ {
		hi, lo := t[y<<1], t[y<<1+1]
		for x := 0; x < tileWidth; x++ {
			shift := uint(tileWidth - 1 - x)
			s[y*tileWidth+x] = planeShades[(hi>>shift&1)<<1|lo>>shift&1]
		}
	}
	return s
}

// Render draws the tiles referenced by m onto a width by height tile grid.
// Entries that do not reference a tile, such as map padding, are drawn
// white.
func Render(tiles []Tile, m []int, width, height int) (*image.Paletted, error) {
	if width < 0 || height < 0 || len(m) != width*height {
		return nil, errBadMap
	}

	img := image.NewPaletted(image.Rect(0, 0, width*tileWidth, height*tileHeight), Palette)

	for ty := 0; ty < height; ty++ {
		for tx := 0; tx < width; tx++ {
			i := m[ty*width+tx]

			s := [tilePixels]byte{}
			if i >= 0 && i < len(tiles) {
				s = tiles[i].Shades()
			} else {
				for p := range s {
					s[p] = White
				}
			}

			for y := 0; y < tileHeight; y++ {
				for x := 0; x < tileWidth; x++ {
					img.SetColorIndex(tx*tileWidth+x, ty*tileHeight+y, s[y*tileWidth+x])
				}
			}
		}
	}

	return img, nil
}
