package tile_test

import (
	"bytes"
	"testing"

	"github.com/bodgit/gbtdg/tile"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform(width, height int, shade byte) *tile.Grid {
	g := &tile.Grid{Width: width, Height: height, Pix: make([]byte, width*height)}
	for i := range g.Pix {
		g.Pix[i] = shade
	}
	return g
}

func rgba(width, height int, r, g, b byte) []byte {
	pix := make([]byte, 0, width*height*4)
	for i := 0; i < width*height; i++ {
		pix = append(pix, r, g, b, 0xff)
	}
	return pix
}

func TestShadeBoundaries(t *testing.T) {
	for _, tc := range []struct {
		luma float64
		want byte
	}{
		{0, tile.Black},
		{64, tile.Black},
		{64.99, tile.Black},
		{65, tile.DarkGray},
		{84, tile.DarkGray},
		{85, tile.DarkGray},
		{128, tile.DarkGray},
		{129, tile.LightGray},
		{169, tile.LightGray},
		{170, tile.LightGray},
		{192, tile.LightGray},
		{193, tile.White},
		{255, tile.White},
	} {
		assert.Equalf(t, tc.want, tile.Shade(tc.luma), "Shade(%v)", tc.luma)
	}
}

func TestShadeMonotonic(t *testing.T) {
	prev := tile.Shade(0)
	for v := 0.0; v <= 255; v += 0.25 {
		s := tile.Shade(v)
		require.GreaterOrEqualf(t, s, prev, "Shade(%v)", v)
		prev = s
	}
}

func TestLuma(t *testing.T) {
	assert.InDelta(t, 0, tile.Luma(0, 0, 0), 1e-9)
	assert.InDelta(t, 255, tile.Luma(0xff, 0xff, 0xff), 1e-9)
	assert.InDelta(t, 76.5, tile.Luma(0xff, 0, 0), 1e-9)
	assert.InDelta(t, 150.45, tile.Luma(0, 0xff, 0), 1e-9)
	assert.InDelta(t, 28.05, tile.Luma(0, 0, 0xff), 1e-9)
}

func TestQuantize(t *testing.T) {
	// Pure red, green and blue land in three different shades
	pix := append(append(rgba(1, 1, 0xff, 0, 0), rgba(1, 1, 0, 0xff, 0)...), rgba(1, 1, 0, 0, 0xff)...)
	pix = append(pix, rgba(1, 1, 0xff, 0xff, 0xff)...)

	g, err := tile.Quantize(pix, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{tile.DarkGray, tile.LightGray, tile.Black, tile.White}, g.Pix)
}

func TestQuantizeErrors(t *testing.T) {
	_, err := tile.Quantize(make([]byte, 10), 2, 2)
	assert.ErrorIs(t, err, tile.ErrInvalidGrid)

	_, err = tile.Quantize(nil, -1, 8)
	assert.ErrorIs(t, err, tile.ErrInvalidGrid)
}

func TestEncodeUniform(t *testing.T) {
	for _, tc := range []struct {
		shade  byte
		hi, lo byte
	}{
		{tile.Black, 0xff, 0xff},
		{tile.DarkGray, 0x00, 0xff},
		{tile.LightGray, 0xff, 0x00},
		{tile.White, 0x00, 0x00},
	} {
		tiles, err := tile.Encode(uniform(8, 8, tc.shade))
		require.NoError(t, err)
		require.Len(t, tiles, 1)

		want := bytes.Repeat([]byte{tc.hi, tc.lo}, 8)
		assert.Equal(t, want, tiles[0][:], "shade %d", tc.shade)
	}
}

func TestEncodeBitOrder(t *testing.T) {
	g := uniform(8, 8, tile.White)
	// Leftmost pixel of the first row black, rightmost pixel of the last
	// row light gray
	g.Pix[0] = tile.Black
	g.Pix[63] = tile.LightGray

	tiles, err := tile.Encode(g)
	require.NoError(t, err)

	want := tile.Tile{0x80, 0x80, 14: 0x01, 15: 0x00}
	assert.Equal(t, want, tiles[0])
}

func TestEncodeRasterOrder(t *testing.T) {
	// 16x16: tiles are emitted left to right, top to bottom
	g := uniform(16, 16, tile.White)
	for y := 8; y < 16; y++ {
		for x := 0; x < 8; x++ {
			g.Pix[y*16+x] = tile.Black
		}
	}

	tiles, err := tile.Encode(g)
	require.NoError(t, err)
	require.Len(t, tiles, 4)

	var white, black tile.Tile
	for i := range black {
		black[i] = 0xff
	}
	assert.Equal(t, []tile.Tile{white, white, black, white}, tiles)
}

func TestEncodeErrors(t *testing.T) {
	_, err := tile.Encode(uniform(10, 8, tile.White))
	assert.ErrorIs(t, err, tile.ErrInvalidGrid)

	_, err = tile.Encode(&tile.Grid{Width: 8, Height: 8, Pix: make([]byte, 4)})
	assert.ErrorIs(t, err, tile.ErrInvalidGrid)
}

func TestShadesRoundTrip(t *testing.T) {
	g := uniform(8, 8, tile.White)
	for i := range g.Pix {
		g.Pix[i] = byte(i*7) % 4
	}

	tiles, err := tile.Encode(g)
	require.NoError(t, err)

	s := tiles[0].Shades()
	if diff := cmp.Diff(g.Pix, s[:]); diff != "" {
		t.Errorf("Shades() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteRead(t *testing.T) {
	tiles := []tile.Tile{{0x01}, {0x02, 15: 0xff}, {}}

	var b bytes.Buffer
	require.NoError(t, tile.Write(&b, tiles))
	assert.Equal(t, 3*tile.Size, b.Len())

	got, err := tile.Read(&b)
	require.NoError(t, err)
	assert.Equal(t, tiles, got)

	_, err = tile.Read(bytes.NewReader(make([]byte, tile.Size+1)))
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	tiles, err := tile.Encode(uniform(8, 8, tile.LightGray))
	require.NoError(t, err)

	img, err := tile.Render(tiles, []int{0, 5}, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
	assert.Equal(t, tile.LightGray, img.ColorIndexAt(3, 3))
	// Index 5 does not exist so is drawn white
	assert.Equal(t, tile.White, img.ColorIndexAt(12, 3))

	_, err = tile.Render(tiles, []int{0}, 2, 1)
	assert.Error(t, err)
}
