package gbtdg

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/bodgit/gbtdg/bitmap"
	"github.com/bodgit/gbtdg/format"
)

var imageExtensions = map[string]struct{}{
	".bmp":  {},
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".webp": {},
}

func isImage(file string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(file))]
	return ok
}

// Problems with an individual image that shouldn't stop a scan
func skippable(err error) bool {
	return errors.Is(err, bitmap.ErrFileTooLarge) ||
		errors.Is(err, bitmap.ErrDimensionsTooLarge) ||
		errors.Is(err, image.ErrFormat) ||
		errors.Is(err, ErrInvalidArgument)
}

func (c *Converter) findImages(ctx context.Context, base, dir string, d format.Dialect) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	// Output path to the image that claimed it
	claimed := make(map[string]string)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() || !isImage(file) {
				return nil
			}

			// Images differing only by extension would overwrite each other
			target := outputPath(file, dir, d)
			if prev, ok := claimed[target]; ok {
				c.logger.Printf("Skipping \"%s\": \"%s\" is already generated from \"%s\"\n", file, target, prev)
				return nil
			}
			claimed[target] = file

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (c *Converter) imageWorker(ctx context.Context, in <-chan string, dir string, opts Options) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			if _, _, err := c.Convert(file, dir, opts); err != nil {
				if !skippable(err) {
					errc <- err
					return
				}
				c.logger.Printf("Skipping \"%s\": %s\n", file, err)
			}

			if c.Progress != nil {
				c.Progress(file)
			}

			select {
			case <-ctx.Done():
				return
			default:
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan converts every image found under path, writing the generated source
// to dir, or alongside each image if dir is empty. Images that cannot be
// decoded or are too large are logged and skipped.
func (c *Converter) Scan(path, dir string, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	base, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := c.findImages(ctx, base, dir, opts.Dialect)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < runtime.NumCPU(); i++ {
		errc, err := c.imageWorker(ctx, files, dir, opts)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
