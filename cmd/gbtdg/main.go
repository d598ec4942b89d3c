package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bodgit/gbtdg"
	"github.com/bodgit/gbtdg/bitmap"
	"github.com/bodgit/gbtdg/format"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

const defaultDB = "gbtdg.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

var optionFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:  "tile-data",
		Value: true,
		Usage: "emit tile data",
	},
	&cli.BoolFlag{
		Name:  "map",
		Value: true,
		Usage: "emit map data",
	},
	&cli.BoolFlag{
		Name:  "dedup",
		Value: true,
		Usage: "remove duplicate tiles",
	},
	&cli.BoolFlag{
		Name:  "pad-map",
		Usage: "pad the map to --pad-width by --pad-height tiles",
	},
	&cli.IntFlag{
		Name:  "pad-width",
		Value: 32,
		Usage: "padded map width in tiles",
	},
	&cli.IntFlag{
		Name:  "pad-height",
		Value: 32,
		Usage: "padded map height in tiles",
	},
	&cli.StringFlag{
		Name:  "pad-value",
		Value: "00",
		Usage: "hex `VALUE` used for map padding",
	},
	&cli.StringFlag{
		Name:    "dialect",
		Aliases: []string{"d"},
		Value:   "asm",
		Usage:   "output `DIALECT`, asm or c",
	},
	&cli.StringFlag{
		Name:  "hex-prefix",
		Usage: "prefix for hex literals (default depends on dialect)",
	},
	&cli.StringFlag{
		Name:  "line-label",
		Usage: "data keyword (default depends on dialect)",
	},
	&cli.StringFlag{
		Name:  "const-label",
		Usage: "constant keyword (default depends on dialect)",
	},
	&cli.IntFlag{
		Name:  "colors",
		Usage: "reduce the image to `N` colors before converting",
	},
	&cli.StringFlag{
		Name:  "dither",
		Usage: "dither with `ALGORITHM` before converting (" + strings.Join(bitmap.Ditherers(), ", ") + ")",
	},
	&cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "write generated files to `DIRECTORY` instead of alongside the images",
	},
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func openDB(c *cli.Context) (*gbtdg.TileDB, error) {
	if c.Bool("no-cache") {
		return nil, nil
	}
	return gbtdg.NewTileDB(c.String("db"))
}

// Start from the last used options and apply any flags given explicitly
func resolveOptions(c *cli.Context, db *gbtdg.TileDB) (gbtdg.Options, error) {
	opts := gbtdg.DefaultOptions()
	if db != nil {
		var err error
		if opts, _, err = db.LoadOptions(); err != nil {
			return opts, err
		}
	}

	bools := map[string]*bool{
		"tile-data": &opts.TileData,
		"map":       &opts.Map,
		"dedup":     &opts.Dedup,
		"pad-map":   &opts.PadMap,
	}
	for name, p := range bools {
		if c.IsSet(name) {
			*p = c.Bool(name)
		}
	}

	ints := map[string]*int{
		"pad-width":  &opts.PadWidth,
		"pad-height": &opts.PadHeight,
		"colors":     &opts.Colors,
	}
	for name, p := range ints {
		if c.IsSet(name) {
			*p = c.Int(name)
		}
	}

	strs := map[string]*string{
		"hex-prefix":  &opts.HexPrefix,
		"line-label":  &opts.LineLabel,
		"const-label": &opts.ConstLabel,
		"dither":      &opts.Dither,
	}
	for name, p := range strs {
		if c.IsSet(name) {
			*p = c.String(name)
		}
	}

	if c.IsSet("pad-value") {
		v, err := strconv.ParseUint(strings.TrimPrefix(c.String("pad-value"), "$"), 16, 8)
		if err != nil {
			return opts, fmt.Errorf("invalid pad value: %w", err)
		}
		opts.PadValue = int(v)
	}

	if c.IsSet("dialect") {
		d, err := format.ParseDialect(c.String("dialect"))
		if err != nil {
			return opts, err
		}
		opts.Dialect = d
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}

	if db != nil {
		if err := db.SaveOptions(opts); err != nil {
			return opts, err
		}
	}

	return opts, nil
}

func main() {
	app := cli.NewApp()

	app.Name = "gbtdg"
	app.Usage = "Game Boy tile data generator"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"GBTDG_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "don't use the database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert images to tile data",
			Description: "Options not given are taken from the previous run.",
			ArgsUsage:   "FILE...",
			Flags: append([]cli.Flag{
				&cli.BoolFlag{
					Name:  "preview",
					Usage: "also write a PNG preview of the converted image",
				},
			}, optionFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, err := openDB(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if db != nil {
					defer db.Close()
				}

				opts, err := resolveOptions(c, db)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				g := gbtdg.New(db, newLogger(c))

				for _, file := range c.Args().Slice() {
					out, r, err := g.Convert(file, c.String("output"), opts)
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					if out == "" || !c.Bool("preview") {
						continue
					}
					if err := gbtdg.WritePreview(strings.TrimSuffix(out, filepath.Ext(out))+".png", r); err != nil {
						return cli.NewExitError(err, 1)
					}
				}

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Convert every image in a directory tree",
			Description: "Images that are too large or cannot be decoded are skipped.",
			ArgsUsage:   "DIRECTORY",
			Flags:       optionFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, err := openDB(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if db != nil {
					defer db.Close()
				}

				opts, err := resolveOptions(c, db)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				g := gbtdg.New(db, newLogger(c))

				if !c.Bool("verbose") && term.IsTerminal(int(os.Stderr.Fd())) {
					bar := progressbar.NewOptions(-1,
						progressbar.OptionSetWriter(os.Stderr),
						progressbar.OptionSetDescription("converting"),
						progressbar.OptionShowIts(),
						progressbar.OptionShowCount(),
					)
					g.Progress = func(string) {
						bar.Add(1)
					}
					defer func() {
						bar.Finish()
						fmt.Fprintln(os.Stderr)
					}()
				}

				if err := g.Scan(c.Args().First(), c.String("output"), opts); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:  "options",
			Usage: "Show the options that will be used by default",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "reset",
					Usage: "forget the previous options",
				},
			},
			Action: func(c *cli.Context) error {
				db, err := gbtdg.NewTileDB(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				if c.Bool("reset") {
					if err := db.ResetOptions(); err != nil {
						return cli.NewExitError(err, 1)
					}
				}

				opts, _, err := db.LoadOptions()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				fmt.Printf("tile-data:   %t\n", opts.TileData)
				fmt.Printf("map:         %t\n", opts.Map)
				fmt.Printf("dedup:       %t\n", opts.Dedup)
				fmt.Printf("pad-map:     %t (%dx%d, %s)\n", opts.PadMap, opts.PadWidth, opts.PadHeight, format.Hex(opts.PadValue, "$"))
				fmt.Printf("dialect:     %s\n", opts.Dialect)
				fmt.Printf("hex-prefix:  %q\n", orDefault(opts.HexPrefix, opts.Dialect.HexPrefix()))
				fmt.Printf("line-label:  %q\n", orDefault(opts.LineLabel, opts.Dialect.LineLabel()))
				fmt.Printf("const-label: %q\n", orDefault(opts.ConstLabel, opts.Dialect.ConstLabel()))
				fmt.Printf("colors:      %d\n", opts.Colors)
				fmt.Printf("dither:      %q\n", opts.Dither)

				return nil
			},
		},
		{
			Name:  "purge",
			Usage: "Remove all cached tiles",
			Action: func(c *cli.Context) error {
				db, err := gbtdg.NewTileDB(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				n, err := db.Count()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := db.Purge(); err != nil {
					return cli.NewExitError(err, 1)
				}

				newLogger(c).Printf("Removed %d cached images\n", n)

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
