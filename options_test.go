package gbtdg_test

import (
	"testing"

	"github.com/bodgit/gbtdg"
	"github.com/bodgit/gbtdg/format"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsText(t *testing.T) {
	custom := gbtdg.Options{
		TileData:   true,
		Dedup:      true,
		PadMap:     true,
		PadWidth:   20,
		PadHeight:  18,
		PadValue:   0xfe,
		Dialect:    format.C,
		HexPrefix:  "0X",
		LineLabel:  "static const uint8_t",
		ConstLabel: "#define",
		Colors:     8,
		Dither:     "floyd-steinberg, serpentine",
	}

	tables := map[string]gbtdg.Options{
		"default": gbtdg.DefaultOptions(),
		"custom":  custom,
	}

	for name, opts := range tables {
		t.Run(name, func(t *testing.T) {
			b, err := opts.MarshalText()
			require.NoError(t, err)
			assert.NotContains(t, string(b), "\n")

			var got gbtdg.Options
			require.NoError(t, got.UnmarshalText(b))
			if diff := cmp.Diff(opts, got); diff != "" {
				t.Errorf("options (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOptionsTextLayout(t *testing.T) {
	b, err := gbtdg.DefaultOptions().MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "true,true,true,false,,,,32,32,00,asm,0,", string(b))
}

func TestOptionsUnmarshalBad(t *testing.T) {
	for _, s := range []string{
		"",
		"true,true",
		"yes,true,true,false,,,,32,32,00,asm,0,",
		"true,true,true,false,,,,wide,32,00,asm,0,",
		"true,true,true,false,,,,32,32,100,asm,0,",
		"true,true,true,false,,,,32,32,00,pascal,0,",
	} {
		opts := gbtdg.DefaultOptions()
		assert.Errorf(t, opts.UnmarshalText([]byte(s)), "%q", s)
		assert.Equal(t, gbtdg.DefaultOptions(), opts)
	}
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, gbtdg.DefaultOptions().Validate())

	// Padding fields are only checked when padding is enabled
	opts := gbtdg.DefaultOptions()
	opts.PadWidth = 0
	assert.NoError(t, opts.Validate())

	tables := map[string]func(*gbtdg.Options){
		"zero width": func(o *gbtdg.Options) {
			o.PadMap, o.PadWidth = true, 0
		},
		"zero height": func(o *gbtdg.Options) {
			o.PadMap, o.PadHeight = true, 0
		},
		"too large": func(o *gbtdg.Options) {
			o.PadMap, o.PadWidth, o.PadHeight = true, 256, 256
		},
		"negative value": func(o *gbtdg.Options) {
			o.PadMap, o.PadValue = true, -1
		},
		"negative colors": func(o *gbtdg.Options) {
			o.Colors = -1
		},
	}

	for name, f := range tables {
		t.Run(name, func(t *testing.T) {
			opts := gbtdg.DefaultOptions()
			f(&opts)
			assert.ErrorIs(t, opts.Validate(), gbtdg.ErrInvalidArgument)
		})
	}
}
