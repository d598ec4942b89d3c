/*
Package gbtdg is a library for converting images into Game Boy tile data.

Each image is reduced to four shades, split into 8 by 8 tiles, optionally
deduplicated, and written out as assembly or C source along with a tile map
that rebuilds the original image from the tiles.
*/
package gbtdg

import (
	"bytes"
	"crypto/sha1"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/gbtdg/bitmap"
	"github.com/bodgit/gbtdg/format"
)

// Converter converts image files, caching the encoded tiles in an optional
// database.
type Converter struct {
	db     *TileDB
	logger *log.Logger

	// Progress, if set, is called after each file converted by Scan. It
	// may be called from several goroutines at once.
	Progress func(file string)
}

// New returns a Converter. db may be nil to disable caching and logger may
// be nil to disable logging.
func New(db *TileDB, logger *log.Logger) *Converter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Converter{
		db:     db,
		logger: logger,
	}
}

func cacheKey(b []byte, opts Options) string {
	return fmt.Sprintf("%X:%d:%s", sha1.Sum(b), opts.Colors, strings.ToLower(opts.Dither))
}

func (c *Converter) frame(file string, opts Options) (*frame, error) {
	info, err := os.Stat(file)
	if err != nil {
		return nil, err
	}
	if info.Size() > bitmap.MaxFileSize {
		return nil, fmt.Errorf("%s: %w", file, bitmap.ErrFileTooLarge)
	}

	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	key := cacheKey(b, opts)
	if c.db != nil {
		f, err := c.db.findFrame(key)
		if err != nil {
			return nil, err
		}
		if f != nil {
			c.logger.Printf("Using cached tiles for \"%s\"\n", file)
			return f, nil
		}
	}

	m, err := bitmap.Decode(bytes.NewReader(b), bitmap.Options{Colors: opts.Colors, Dither: opts.Dither})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	f, err := encodeBitmap(m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	if c.db != nil {
		if err := c.db.addFrame(key, f); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// The generated source for file is written to dir, or alongside file
func outputPath(file, dir string, d format.Dialect) string {
	if dir == "" {
		dir = filepath.Dir(file)
	}
	return filepath.Join(dir, outputName(file, d))
}

// ConvertFile converts the image in file without writing anything.
func (c *Converter) ConvertFile(file string, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	f, err := c.frame(file, opts)
	if err != nil {
		return nil, err
	}

	r, err := generate(filepath.Base(file), f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	for _, w := range r.Warnings {
		c.logger.Printf("%s: %s\n", file, w)
	}

	return r, nil
}

// Convert converts the image in file and writes the generated source to dir,
// or alongside file if dir is empty. The path written to is returned, or an
// empty string if the image had no tiles.
func (c *Converter) Convert(file, dir string, opts Options) (string, *Result, error) {
	r, err := c.ConvertFile(file, opts)
	if err != nil {
		return "", nil, err
	}

	if r.Empty() {
		c.logger.Printf("No tiles in \"%s\", nothing written\n", file)
		return "", r, nil
	}

	out := outputPath(file, dir, opts.Dialect)

	if err := os.WriteFile(out, []byte(r.Text), 0666); err != nil {
		return "", nil, err
	}
	c.logger.Printf("Wrote \"%s\"\n", out)

	return out, r, nil
}

// WritePreview writes a PNG of r to file.
func WritePreview(file string, r *Result) (err error) {
	m, err := r.Preview()
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	return png.Encode(f, m)
}
