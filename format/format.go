/*
Package format renders encoded tiles and tile maps as source code that can
be included by an assembler or a C compiler.

The output is made of, in order: a comment block describing the input image,
any warnings, the map and tile data constants, the map data and finally the
tile data. Identifiers are prefixed with a name derived from the input
filename. Data is written sixteen values to a line.
*/
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/bodgit/gbtdg/tile"
)

const (
	valuesPerLine = 16
	newline       = "\r\n"
)

// Identifier suffixes
const (
	SuffixMapSize   = "_tile_map_size"
	SuffixMapWidth  = "_tile_map_width"
	SuffixMapHeight = "_tile_map_height"
	SuffixDataSize  = "_tile_data_size"
	SuffixTileCount = "_tile_count"
	SuffixMapData   = "_map_data"
	SuffixTileData  = "_tile_data"
)

const overflowMessage = "ERROR: Too many unique tiles for one tilemap."

// Document is everything produced by one conversion.
type Document struct {
	// Filename of the input image, also used to derive identifiers
	Filename string
	// Pixel dimensions after padding to whole tiles
	Width, Height int
	Warnings      []string

	Tiles []tile.Tile
	// RawTileCount is the number of tiles in the image before any
	// deduplication, written as the tile count
	RawTileCount int

	// Map and its dimensions in tiles, including any padding
	Map                 []int
	MapWidth, MapHeight int
	// MapOverflow is set when Tiles cannot be addressed by a byte map
	MapOverflow bool
}

// Options controls which sections are written and the syntax used. Empty
// strings select the dialect default.
type Options struct {
	Dialect    Dialect
	HexPrefix  string
	LineLabel  string
	ConstLabel string
	TileData   bool
	Map        bool
}

type writer struct {
	w   io.Writer
	err error

	t          tokens
	hexPrefix  string
	lineLabel  string
	constLabel string
}

func (w *writer) printf(format string, a ...interface{}) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, a...)
}

func (w *writer) line(s string) {
	w.printf("%s%s", s, newline)
}

func (w *writer) comment(s string) {
	w.line(w.t.comment + " " + s)
}

func (w *writer) section(title string) {
	w.comment(title)
	w.line("")
}

func (w *writer) constant(name string, v int) {
	w.line(fmt.Sprintf(w.t.constant, w.constLabel, name, Hex(v, w.hexPrefix)))
}

func (w *writer) array(name string, values []int) {
	w.line(fmt.Sprintf(w.t.arrayBegin, w.lineLabel, name))

	for i := 0; i < len(values); i += valuesPerLine {
		end := i + valuesPerLine
		if end > len(values) {
			end = len(values)
		}

		hex := make([]string, 0, valuesPerLine)
		for _, v := range values[i:end] {
			hex = append(hex, Hex(v, w.hexPrefix))
		}

		var b strings.Builder
		if w.t.labelLines {
			b.WriteString(w.lineLabel + " ")
		} else {
			b.WriteString("\t")
		}
		b.WriteString(strings.Join(hex, ","))
		if end < len(values) {
			b.WriteString(w.t.lineEnd)
		}
		w.line(b.String())
	}

	if w.t.arrayEnd != "" {
		w.line(w.t.arrayEnd)
	}
}

func (w *writer) write(doc *Document, opts Options) {
	base := Sanitize(doc.Filename)
	if base != "" && base[0] >= '0' && base[0] <= '9' {
		base = "_" + base
	}
	guard := strings.ToUpper(base) + "_H"

	w.section("Input Image Attributes --")
	w.comment("Filename:\t" + doc.Filename)
	w.comment(fmt.Sprintf("Pixel Width:\t%dpx", doc.Width))
	w.comment(fmt.Sprintf("Pixel Height:\t%dpx", doc.Height))
	w.line("")

	if len(doc.Warnings) > 0 {
		for _, s := range doc.Warnings {
			w.comment(s)
		}
		w.line("")
	}

	if w.t.includeGuard {
		w.line("#ifndef " + guard)
		w.line("#define " + guard)
		w.line("")
	}

	if opts.Map && !doc.MapOverflow {
		w.section("Map Data Constants --")
		w.constant(base+SuffixMapSize, len(doc.Map))
		w.constant(base+SuffixMapWidth, doc.MapWidth)
		w.constant(base+SuffixMapHeight, doc.MapHeight)
		w.line("")
	}

	if opts.TileData {
		w.section("Tile Data Constants --")
		w.constant(base+SuffixDataSize, len(doc.Tiles)*tile.Size)
		w.constant(base+SuffixTileCount, doc.RawTileCount)
		w.line("")
	}

	if opts.Map {
		w.section("Map Data --")
		if doc.MapOverflow {
			w.comment(overflowMessage)
		} else {
			w.array(base+SuffixMapData, doc.Map)
		}
		w.line("")
	}

	if opts.TileData {
		w.section("Tile Data --")
		data := make([]int, 0, len(doc.Tiles)*tile.Size)
		for _, t := range doc.Tiles {
			for _, b := range t {
				data = append(data, int(b))
			}
		}
		w.array(base+SuffixTileData, data)
	}

	if w.t.includeGuard {
		w.line("")
		w.line("#endif")
	}
}

// Write renders doc to w. Nothing is written if doc has no tiles.
func Write(w io.Writer, doc *Document, opts Options) error {
	if len(doc.Tiles) == 0 {
		return nil
	}

	fw := writer{
		w:          w,
		t:          opts.Dialect.tokens(),
		hexPrefix:  opts.HexPrefix,
		lineLabel:  opts.LineLabel,
		constLabel: opts.ConstLabel,
	}
	if fw.hexPrefix == "" {
		fw.hexPrefix = opts.Dialect.HexPrefix()
	}
	if fw.lineLabel == "" {
		fw.lineLabel = opts.Dialect.LineLabel()
	}
	if fw.constLabel == "" {
		fw.constLabel = opts.Dialect.ConstLabel()
	}

	fw.write(doc, opts)

	return fw.err
}
