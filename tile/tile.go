/*
Package tile implements the Game Boy (DMG) tile encoder.

An image is split into 8 by 8 pixel tiles, each pixel being one of four
shades. Every tile is stored as 16 bytes, two per pixel row from top to
bottom. The first byte of a row holds the high bit of each pixel's shade and
the second byte holds the low bit, with the leftmost pixel in the most
significant bit.

Shades are numbered from 0 (black) to 3 (white), which is the reverse of
the hardware color number, so black sets both bits and white sets neither.
*/
package tile

const (
	tileWidth  = 8
	tileHeight = tileWidth
	tilePixels = tileWidth * tileHeight

	// Size is the number of bytes used to store one tile
	Size = tileHeight * 2

	// Width and Height are the pixel dimensions of a tile
	Width  = tileWidth
	Height = tileHeight

	// MaxMapLength is the number of distinct tiles that can be addressed
	// by a map using a single byte per entry
	MaxMapLength = 256
)

// Tile is a single encoded 8 by 8 tile. Tiles are compared by value.
type Tile [Size]byte
