package bitmap

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"

	_ "golang.org/x/image/bmp" // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

var (
	// ErrFileTooLarge is returned when the source is bigger than MaxFileSize
	ErrFileTooLarge = errors.New("bitmap: file is too large")
	// ErrDimensionsTooLarge is returned when the image is wider than
	// MaxWidth or taller than MaxHeight
	ErrDimensionsTooLarge = errors.New("bitmap: image dimensions are too large")
)

// Options controls optional processing applied before the image is
// returned.
type Options struct {
	// Colors reduces the image to this many colors first, if non-zero
	Colors int
	// Dither is the name of a dithering algorithm to apply towards the
	// four shades, if not empty
	Dither string
}

func readAll(r io.Reader) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, err
	}
	if len(b) > MaxFileSize {
		return nil, fmt.Errorf("%w: more than %d KB", ErrFileTooLarge, MaxFileSize>>10)
	}
	return b, nil
}

// DecodeConfig returns the dimensions of the image in r after padding,
// without decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	b, err := readAll(r)
	if err != nil {
		return image.Config{}, err
	}
	c, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return image.Config{}, err
	}
	if err := checkDimensions(c.Width, c.Height); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: c.ColorModel,
		Width:      roundUp(c.Width, tileWidth),
		Height:     roundUp(c.Height, tileHeight),
	}, nil
}

func checkDimensions(width, height int) error {
	if width > MaxWidth || height > MaxHeight {
		return fmt.Errorf("%w: %dx%d, maximum is %dx%d", ErrDimensionsTooLarge, width, height, MaxWidth, MaxHeight)
	}
	return nil
}

// Decode reads an image from r and returns it as a Bitmap. Any format with a
// registered decoder is accepted; PNG, GIF, JPEG, BMP and WebP are
// registered by this package.
func Decode(r io.Reader, opts Options) (*Bitmap, error) {
	b, err := readAll(r)
	if err != nil {
		return nil, err
	}

	// Check the dimensions before committing to decoding the image
	c, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	if err := checkDimensions(c.Width, c.Height); err != nil {
		return nil, err
	}

	m, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	return FromImage(m, opts)
}

// FromImage converts m into a Bitmap. The size limits are not applied.
func FromImage(m image.Image, opts Options) (*Bitmap, error) {
	b := m.Bounds()

	rgba := image.NewRGBA(image.Rect(0, 0, roundUp(b.Dx(), tileWidth), roundUp(b.Dy(), tileHeight)))
	draw.Draw(rgba, rgba.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(rgba, b.Sub(b.Min), m, b.Min, draw.Over)

	if opts.Colors > 0 {
		rgba = reduceColors(rgba, opts.Colors)
	}

	if opts.Dither != "" {
		var err error
		if rgba, err = ditherShades(rgba, opts.Dither); err != nil {
			return nil, err
		}
	}

	return &Bitmap{
		Width:        rgba.Rect.Dx(),
		Height:       rgba.Rect.Dy(),
		SourceWidth:  b.Dx(),
		SourceHeight: b.Dy(),
		Pix:          rgba.Pix,
	}, nil
}
