package bitmap

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"strings"

	"github.com/bodgit/gbtdg/tile"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/makeworld-the-better-one/dither/v2"
	"golang.org/x/image/draw"
)

var errorDiffusion = map[string]dither.ErrorDiffusionMatrix{
	"atkinson":            dither.Atkinson,
	"burkes":              dither.Burkes,
	"falsefloydsteinberg": dither.FalseFloydSteinberg,
	"floydsteinberg":      dither.FloydSteinberg,
	"jarvisjudiceninke":   dither.JarvisJudiceNinke,
	"sierra":              dither.Sierra,
	"sierra2":             dither.Sierra2,
	"sierra2_4a":          dither.Sierra2_4A,
	"sierra3":             dither.Sierra3,
	"sierralite":          dither.SierraLite,
	"simple2d":            dither.Simple2D,
	"stevenpigeon":        dither.StevenPigeon,
	"stucki":              dither.Stucki,
	"tworowsierra":        dither.TwoRowSierra,
}

var ordered = map[string]dither.PixelMapper{
	"bayer2x2": dither.Bayer(2, 2, 1.0),
	"bayer4x4": dither.Bayer(4, 4, 1.0),
	"bayer8x8": dither.Bayer(8, 8, 1.0),
}

// Ditherers returns the names accepted by Options.Dither.
func Ditherers() []string {
	names := make([]string, 0, len(errorDiffusion)+len(ordered))
	for k := range errorDiffusion {
		names = append(names, k)
	}
	for k := range ordered {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Reduce the image to no more than n colors with a median cut palette
func reduceColors(m *image.RGBA, n int) *image.RGBA {
	b := m.Bounds()

	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, n), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)

	out := image.NewRGBA(b)
	draw.Draw(out, b, pm, b.Min, draw.Src)

	return out
}

// Dither the image towards the four gray levels that the shades map to, so
// that quantizing afterwards is exact
func ditherShades(m *image.RGBA, name string) (*image.RGBA, error) {
	d := dither.NewDitherer(tile.Palette)

	key := strings.ToLower(strings.NewReplacer("-", "", " ", "").Replace(name))
	if matrix, ok := errorDiffusion[key]; ok {
		d.Matrix = matrix
	} else if mapper, ok := ordered[key]; ok {
		d.Mapper = mapper
	} else {
		return nil, fmt.Errorf("bitmap: unknown dither algorithm %q", name)
	}

	return d.DitherCopy(m), nil
}
