/*
Package bitmap prepares images for tile encoding.

Images are decoded, checked against the size limits, composited onto a white
background and padded on the right and bottom edges with white pixels so
that both dimensions are a whole number of 8 by 8 tiles. The result is a
plain buffer of RGBA samples.

The source file may be no more than 128 KiB and the image no larger than
512 by 512 pixels.
*/
package bitmap

const (
	tileWidth  = 8
	tileHeight = tileWidth

	// MaxFileSize is the largest accepted source file in bytes
	MaxFileSize = 128 << 10
	// MaxWidth and MaxHeight are the largest accepted image dimensions
	MaxWidth  = 512
	MaxHeight = 512
)

// Bitmap is a decoded image padded to whole tiles.
type Bitmap struct {
	// Width and Height are multiples of 8
	Width  int
	Height int
	// SourceWidth and SourceHeight are the dimensions before padding
	SourceWidth  int
	SourceHeight int
	// Pix holds 4 bytes per pixel in R, G, B, A order, row by row
	Pix []byte
}

func roundUp(v, n int) int {
	if r := v % n; r != 0 {
		return v + n - r
	}
	return v
}
