package gbtdg

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"github.com/bodgit/gbtdg/format"
	"github.com/bodgit/gbtdg/tile"
)

// Options controls a conversion. The zero value emits nothing; start from
// DefaultOptions.
type Options struct {
	// Sections to emit
	TileData bool
	Map      bool

	// Dedup removes repeated tiles and builds the map against the
	// remaining unique tiles
	Dedup bool

	// PadMap enlarges the map to PadWidth by PadHeight tiles, filling new
	// entries with PadValue
	PadMap    bool
	PadWidth  int
	PadHeight int
	PadValue  int

	Dialect format.Dialect
	// Empty strings select the dialect default
	HexPrefix  string
	LineLabel  string
	ConstLabel string

	// Applied while decoding the source image, see bitmap.Options
	Colors int
	Dither string
}

// DefaultOptions returns the options used when nothing else is specified.
func DefaultOptions() Options {
	return Options{
		TileData:  true,
		Map:       true,
		Dedup:     true,
		PadWidth:  32,
		PadHeight: 32,
		Dialect:   format.Assembly,
	}
}

// Validate checks the options are usable independently of any image.
func (o Options) Validate() error {
	if o.PadMap {
		if o.PadWidth < 1 || o.PadHeight < 1 {
			return fmt.Errorf("%w: pad size %dx%d", ErrInvalidArgument, o.PadWidth, o.PadHeight)
		}
		if o.PadWidth*o.PadHeight > 0xffff {
			return fmt.Errorf("%w: pad size %dx%d is too large", ErrInvalidArgument, o.PadWidth, o.PadHeight)
		}
		if o.PadValue < 0 || o.PadValue >= tile.MaxMapLength {
			return fmt.Errorf("%w: pad value %d does not fit in a byte", ErrInvalidArgument, o.PadValue)
		}
	}
	if o.Colors < 0 {
		return fmt.Errorf("%w: negative color count", ErrInvalidArgument)
	}
	return nil
}

func (o Options) format() format.Options {
	return format.Options{
		Dialect:    o.Dialect,
		HexPrefix:  o.HexPrefix,
		LineLabel:  o.LineLabel,
		ConstLabel: o.ConstLabel,
		TileData:   o.TileData,
		Map:        o.Map,
	}
}

const optionFields = 13

var errBadOptions = errors.New("gbtdg: malformed options")

// MarshalText encodes the options as a single comma-separated record.
func (o Options) MarshalText() ([]byte, error) {
	b := new(bytes.Buffer)
	w := csv.NewWriter(b)
	if err := w.Write([]string{
		strconv.FormatBool(o.TileData),
		strconv.FormatBool(o.Map),
		strconv.FormatBool(o.Dedup),
		strconv.FormatBool(o.PadMap),
		o.LineLabel,
		o.ConstLabel,
		o.HexPrefix,
		strconv.Itoa(o.PadWidth),
		strconv.Itoa(o.PadHeight),
		fmt.Sprintf("%02X", o.PadValue),
		o.Dialect.String(),
		strconv.Itoa(o.Colors),
		o.Dither,
	}); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return bytes.TrimRight(b.Bytes(), "\r\n"), nil
}

// UnmarshalText decodes options previously encoded with MarshalText.
func (o *Options) UnmarshalText(b []byte) error {
	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = optionFields
	record, err := r.Read()
	if err != nil {
		return fmt.Errorf("%w: %v", errBadOptions, err)
	}

	var n Options
	bools := []*bool{&n.TileData, &n.Map, &n.Dedup, &n.PadMap}
	for i, p := range bools {
		if *p, err = strconv.ParseBool(record[i]); err != nil {
			return fmt.Errorf("%w: %v", errBadOptions, err)
		}
	}

	n.LineLabel, n.ConstLabel, n.HexPrefix = record[4], record[5], record[6]

	if n.PadWidth, err = strconv.Atoi(record[7]); err != nil {
		return fmt.Errorf("%w: %v", errBadOptions, err)
	}
	if n.PadHeight, err = strconv.Atoi(record[8]); err != nil {
		return fmt.Errorf("%w: %v", errBadOptions, err)
	}
	v, err := strconv.ParseUint(record[9], 16, 8)
	if err != nil {
		return fmt.Errorf("%w: %v", errBadOptions, err)
	}
	n.PadValue = int(v)

	if n.Dialect, err = format.ParseDialect(record[10]); err != nil {
		return fmt.Errorf("%w: %v", errBadOptions, err)
	}
	if n.Colors, err = strconv.Atoi(record[11]); err != nil {
		return fmt.Errorf("%w: %v", errBadOptions, err)
	}
	n.Dither = record[12]

	*o = n
	return nil
}
