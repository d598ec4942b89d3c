package format

import (
	"strconv"
	"strings"
)

// Hex formats v as uppercase hexadecimal with an even number of digits,
// at least two, following prefix.
func Hex(v int, prefix string) string {
	s := strings.ToUpper(strconv.FormatUint(uint64(v), 16))
	if len(s)%2 != 0 {
		s = "0" + s
	}
	return prefix + s
}

// Sanitize turns a filename into an identifier. Everything from the first dot
// onwards is dropped, as is any character other than an ASCII letter, digit
// or underscore.
func Sanitize(filename string) string {
	var b strings.Builder
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		switch {
		case c == '.':
			return b.String()
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			b.WriteByte(c)
		}
	}
	return b.String()
}
