package format

import (
	"fmt"
	"strings"
)

// Dialect selects the syntax of the generated source.
type Dialect int

const (
	// Assembly emits an include file of EQU constants and DB directives
	Assembly Dialect = iota
	// C emits a header of #define constants and byte arrays
	C
)

type tokens struct {
	name       string
	comment    string
	hexPrefix  string
	lineLabel  string
	constLabel string
	extension  string

	// Formats taking the label and the identifier, in that order
	constant   string
	arrayBegin string

	// Data lines start with the line label rather than an indent
	labelLines bool
	lineEnd    string
	arrayEnd   string

	includeGuard bool
}

var dialects = [...]tokens{
	Assembly: {
		name:       "asm",
		comment:    ";",
		hexPrefix:  "$",
		lineLabel:  "DB",
		constLabel: "EQU",
		extension:  ".inc",
		constant:   "%[2]s\t%[1]s %[3]s",
		arrayBegin: "%[2]s:",
		labelLines: true,
	},
	C: {
		name:         "c",
		comment:      "//",
		hexPrefix:    "0x",
		lineLabel:    "const unsigned char",
		constLabel:   "#define",
		extension:    ".h",
		constant:     "%[1]s %[2]s %[3]s",
		arrayBegin:   "%[1]s %[2]s[] = {",
		lineEnd:      ",",
		arrayEnd:     "};",
		includeGuard: true,
	},
}

func (d Dialect) tokens() tokens {
	if d < 0 || int(d) >= len(dialects) {
		return dialects[Assembly]
	}
	return dialects[d]
}

// String returns the short name of the dialect.
func (d Dialect) String() string {
	return d.tokens().name
}

// Extension returns the conventional file extension, including the dot.
func (d Dialect) Extension() string {
	return d.tokens().extension
}

// HexPrefix returns the default prefix for hexadecimal literals.
func (d Dialect) HexPrefix() string {
	return d.tokens().hexPrefix
}

// LineLabel returns the default keyword used for data.
func (d Dialect) LineLabel() string {
	return d.tokens().lineLabel
}

// ConstLabel returns the default keyword used for constants.
func (d Dialect) ConstLabel() string {
	return d.tokens().constLabel
}

// ParseDialect returns the dialect with the given name.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(s) {
	case "asm", "assembly", "inc":
		return Assembly, nil
	case "c", "h":
		return C, nil
	}
	return Assembly, fmt.Errorf("format: unknown dialect %q", s)
}
