package tile

import (
	"fmt"
	"io"
)

func encodeRow(row []byte) (byte, byte) {
	var hi, lo byte
	for x, bit := 0, byte(0x80); x < tileWidth; x, bit = x+1, bit>>1 {
		switch row[x] {
		case Black:
			hi |= bit
			lo |= bit
		case DarkGray:
			lo |= bit
		case LightGray:
			hi |= bit
		}
	}
	return hi, lo
}

// Encode splits g into tiles in raster order and packs each one into the two
// bitplane format. The grid dimensions must be multiples of the tile size.
func Encode(g *Grid) ([]Tile, error) {
	if g.Width%tileWidth != 0 || g.Height%tileHeight != 0 {
		return nil, fmt.Errorf("%w: %dx%d is not a multiple of %dx%d", ErrInvalidGrid, g.Width, g.Height, tileWidth, tileHeight)
	}
	if len(g.Pix) != g.Width*g.Height {
		return nil, fmt.Errorf("%w: %d shades for %dx%d pixels", ErrInvalidGrid, len(g.Pix), g.Width, g.Height)
	}

	tileX, tileY := g.Width/tileWidth, g.Height/tileHeight
	tiles := make([]Tile, 0, tileX*tileY)

	for ty := 0; ty < tileY; ty++ {
		for tx := 0; tx < tileX; tx++ {
			var t Tile
			for y := 0; y < tileHeight; y++ {
				i := (ty*tileHeight+y)*g.Width + tx*tileWidth
				t[y<<1], t[y<<1+1] = encodeRow(g.Pix[i : i+tileWidth])
			}
			tiles = append(tiles, t)
		}
	}

	return tiles, nil
}

type encoder struct {
	w io.Writer
}

func (e *encoder) encode(tiles []Tile) error {
	for i := range tiles {
		if _, err := e.w.Write(tiles[i][:]); err != nil {
			return err
		}
	}
	return nil
}

// Write writes tiles to w as a raw stream of 16 byte tiles.
func Write(w io.Writer, tiles []Tile) error {
	e := encoder{w: w}

	return e.encode(tiles)
}
