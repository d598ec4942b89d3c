package gbtdg

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/bodgit/gbtdg/bitmap"
	"github.com/bodgit/gbtdg/format"
	"github.com/bodgit/gbtdg/tile"
)

// ErrInvalidArgument is returned for malformed input or options.
var ErrInvalidArgument = errors.New("gbtdg: invalid argument")

// Result is the outcome of converting one image.
type Result struct {
	format.Document

	// RawTiles holds every tile of the image in raster order, before any
	// deduplication
	RawTiles []tile.Tile
	// Dimensions of the image in tiles
	TileWidth, TileHeight int

	Dialect format.Dialect
	// Text is the generated source, empty if the image has no tiles
	Text string
}

// Filename returns the suggested name for the generated source: the source
// filename with its extension replaced by the one for the dialect.
func (r *Result) Filename() string {
	return outputName(r.Document.Filename, r.Dialect)
}

func outputName(file string, d format.Dialect) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base)) + d.Extension()
}

// Empty reports whether the image had no tiles and so nothing was generated.
func (r *Result) Empty() bool {
	return len(r.RawTiles) == 0
}

// Preview draws the result as it would appear on screen. The padded map is
// used when there is one, otherwise the tiles are drawn in their original
// positions.
func (r *Result) Preview() (*image.Paletted, error) {
	if r.Map != nil {
		return tile.Render(r.Tiles, r.Map, r.MapWidth, r.MapHeight)
	}
	return tile.Render(r.RawTiles, tile.Identity(len(r.RawTiles)), r.TileWidth, r.TileHeight)
}

// frame is the encoded form of a bitmap; it is what gets cached
type frame struct {
	width, height             int
	sourceWidth, sourceHeight int
	tiles                     []tile.Tile
}

func encodeBitmap(b *bitmap.Bitmap) (*frame, error) {
	switch {
	case b.Width < 0 || b.Height < 0:
		return nil, fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidArgument, b.Width, b.Height)
	case b.Width%tile.Width != 0 || b.Height%tile.Height != 0:
		return nil, fmt.Errorf("%w: %dx%d is not a whole number of tiles", ErrInvalidArgument, b.Width, b.Height)
	case b.SourceWidth > b.Width || b.SourceHeight > b.Height || b.SourceWidth <= b.Width-tile.Width || b.SourceHeight <= b.Height-tile.Height:
		return nil, fmt.Errorf("%w: %dx%d cannot be padded to %dx%d", ErrInvalidArgument, b.SourceWidth, b.SourceHeight, b.Width, b.Height)
	case len(b.Pix) != b.Width*b.Height*4:
		return nil, fmt.Errorf("%w: %d bytes for %dx%d pixels", ErrInvalidArgument, len(b.Pix), b.Width, b.Height)
	}

	g, err := tile.Quantize(b.Pix, b.Width, b.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	tiles, err := tile.Encode(g)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	return &frame{
		width:        b.Width,
		height:       b.Height,
		sourceWidth:  b.SourceWidth,
		sourceHeight: b.SourceHeight,
		tiles:        tiles,
	}, nil
}

func (f *frame) warnings() []string {
	var w []string
	if d := f.width - f.sourceWidth; d > 0 {
		w = append(w, fmt.Sprintf("WARNING: Width of input image padded %dpx to %dpx", d, f.width))
	}
	if d := f.height - f.sourceHeight; d > 0 {
		w = append(w, fmt.Sprintf("WARNING: Height of input image padded %dpx to %dpx", d, f.height))
	}
	return w
}

// Generate converts b, decoded from the file called name, into tiles, a map
// and the source text describing them.
func Generate(name string, b *bitmap.Bitmap, opts Options) (*Result, error) {
	f, err := encodeBitmap(b)
	if err != nil {
		return nil, err
	}

	return generate(name, f, opts)
}

func generate(name string, f *frame, opts Options) (*Result, error) {
	err := opts.Validate()
	if err != nil {
		return nil, err
	}

	r := &Result{
		Document: format.Document{
			Filename:     name,
			Width:        f.width,
			Height:       f.height,
			Warnings:     f.warnings(),
			RawTileCount: len(f.tiles),
		},
		RawTiles:   f.tiles,
		TileWidth:  f.width / tile.Width,
		TileHeight: f.height / tile.Height,
		Dialect:    opts.Dialect,
	}

	if len(f.tiles) == 0 {
		return r, nil
	}

	if opts.PadMap && (opts.PadWidth < r.TileWidth || opts.PadHeight < r.TileHeight) {
		return nil, fmt.Errorf("%w: %dx%d tiles do not fit in a %dx%d map", ErrInvalidArgument, r.TileWidth, r.TileHeight, opts.PadWidth, opts.PadHeight)
	}

	r.Tiles = f.tiles
	if opts.Dedup {
		r.Tiles = tile.Dedup(f.tiles)
	}

	switch {
	case len(r.Tiles) >= tile.MaxMapLength:
		r.MapOverflow = true
		if opts.Map {
			r.Warnings = append(r.Warnings, fmt.Sprintf("WARNING: %d unique tiles, a tilemap can address no more than %d", len(r.Tiles), tile.MaxMapLength))
		}
	case opts.Dedup:
		if r.Map, err = tile.Resolve(f.tiles, r.Tiles); err != nil {
			return nil, err
		}
	default:
		r.Map = tile.Identity(len(f.tiles))
	}

	r.MapWidth, r.MapHeight = r.TileWidth, r.TileHeight
	if opts.PadMap && !r.MapOverflow {
		if r.Map, err = tile.Pad(r.Map, r.TileWidth, r.TileHeight, opts.PadWidth, opts.PadHeight, opts.PadValue); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		r.MapWidth, r.MapHeight = opts.PadWidth, opts.PadHeight
	}

	b := new(bytes.Buffer)
	if err := format.Write(b, &r.Document, opts.format()); err != nil {
		return nil, err
	}
	r.Text = b.String()

	return r, nil
}
