package gbtdg_test

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/bodgit/gbtdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, file string, m image.Image) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0777))
	f, err := os.Create(file)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, m))
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "hero.png")
	writePNG(t, file, strip(color.Black, color.White))

	db, err := gbtdg.NewTileDB(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	defer db.Close()

	b := new(bytes.Buffer)
	c := gbtdg.New(db, log.New(b, "", 0))

	out, r, err := c.Convert(file, "", gbtdg.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "hero.inc"), out)

	text, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, r.Text, string(text))
	assert.Equal(t, []int{0, 1}, r.Map)

	n, err := db.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// A second conversion is served from the cache
	_, cached, err := c.Convert(file, "", gbtdg.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, r.Text, cached.Text)
	assert.Contains(t, b.String(), "Using cached tiles")

	n, err = db.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	preview := filepath.Join(dir, "hero.preview.png")
	require.NoError(t, gbtdg.WritePreview(preview, r))

	f, err := os.Open(preview)
	require.NoError(t, err)
	defer f.Close()

	m, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 8), m.Bounds())
}

func TestConvertNoCache(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "odd.png")
	writePNG(t, file, image.NewRGBA(image.Rect(0, 0, 12, 8)))

	b := new(bytes.Buffer)
	c := gbtdg.New(nil, log.New(b, "", 0))

	r, err := c.ConvertFile(file, gbtdg.DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, r.RawTiles, 2)
	assert.Contains(t, b.String(), "WARNING: Width of input image padded 4px to 16px")
}

func TestConvertErrors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0666))

	c := gbtdg.New(nil, nil)

	_, err := c.ConvertFile(bad, gbtdg.DefaultOptions())
	assert.ErrorIs(t, err, image.ErrFormat)

	_, err = c.ConvertFile(filepath.Join(dir, "missing.png"), gbtdg.DefaultOptions())
	assert.ErrorIs(t, err, os.ErrNotExist)

	opts := gbtdg.DefaultOptions()
	opts.Colors = -1
	_, err = c.ConvertFile(bad, opts)
	assert.ErrorIs(t, err, gbtdg.ErrInvalidArgument)
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	src, dst := filepath.Join(dir, "src"), filepath.Join(dir, "dst")

	writePNG(t, filepath.Join(src, "a.png"), strip(color.Black))
	writePNG(t, filepath.Join(src, "sub", "b.png"), strip(color.White, color.Black))
	writePNG(t, filepath.Join(src, ".hidden", "c.png"), strip(color.Black))
	require.NoError(t, os.WriteFile(filepath.Join(src, "broken.png"), []byte("garbage"), 0666))
	require.NoError(t, os.WriteFile(filepath.Join(src, "notes.txt"), []byte("hello"), 0666))
	require.NoError(t, os.MkdirAll(dst, 0777))

	b := new(bytes.Buffer)
	c := gbtdg.New(nil, log.New(b, "", 0))

	var (
		mu   sync.Mutex
		seen []string
	)
	c.Progress = func(file string) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, filepath.Base(file))
	}

	require.NoError(t, c.Scan(src, dst, gbtdg.DefaultOptions()))

	sort.Strings(seen)
	assert.Equal(t, []string{"a.png", "b.png", "broken.png"}, seen)
	assert.Contains(t, b.String(), "Skipping")

	entries, err := os.ReadDir(dst)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"a.inc", "b.inc"}, names)
}

func TestScanSameOutput(t *testing.T) {
	tables := map[string]bool{
		"alongside": false,
		"output":    true,
	}

	for name, useOutput := range tables {
		t.Run(name, func(t *testing.T) {
			src := filepath.Join(t.TempDir(), "src")
			writePNG(t, filepath.Join(src, "a.png"), strip(color.Black))

			// Walked before a.png, so it claims a.inc
			f, err := os.Create(filepath.Join(src, "a.gif"))
			require.NoError(t, err)
			require.NoError(t, gif.Encode(f, strip(color.White, color.White), nil))
			require.NoError(t, f.Close())

			dst := ""
			if useOutput {
				dst = t.TempDir()
			}

			b := new(bytes.Buffer)
			c := gbtdg.New(nil, log.New(b, "", 0))

			var (
				mu   sync.Mutex
				seen []string
			)
			c.Progress = func(file string) {
				mu.Lock()
				defer mu.Unlock()
				seen = append(seen, filepath.Base(file))
			}

			require.NoError(t, c.Scan(src, dst, gbtdg.DefaultOptions()))
			assert.Equal(t, []string{"a.gif"}, seen)
			assert.Contains(t, b.String(), "Skipping")

			out := filepath.Join(src, "a.inc")
			if useOutput {
				out = filepath.Join(dst, "a.inc")
			}
			text, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.Contains(t, string(text), "Filename:\ta.gif")
			assert.Contains(t, string(text), "a_tile_map_width\tEQU $02")
		})
	}
}

func TestScanInvalidOptions(t *testing.T) {
	opts := gbtdg.DefaultOptions()
	opts.PadMap, opts.PadWidth = true, 0

	assert.ErrorIs(t, gbtdg.New(nil, nil).Scan(t.TempDir(), "", opts), gbtdg.ErrInvalidArgument)
}
