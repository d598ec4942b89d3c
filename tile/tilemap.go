package tile

import (
	"errors"
	"fmt"
)

var (
	// ErrMapOverflow is returned when there are more unique tiles than a
	// single byte map entry can address
	ErrMapOverflow = errors.New("tile: too many unique tiles for one tilemap")

	// ErrInvalidPadding is returned when the padded map would be smaller
	// than the map it contains
	ErrInvalidPadding = errors.New("tile: padded map is smaller than the image")
)

// Identity returns the map of n tiles where every position refers to its own
// tile.
func Identity(n int) []int {
	m := make([]int, n)
	for i := range m {
		m[i] = i
	}
	return m
}

// Resolve builds the map from each raw tile position to the index of the
// first equal tile in set. ErrMapOverflow is returned if set holds
// MaxMapLength or more tiles.
func Resolve(raw, set []Tile) ([]int, error) {
	if len(set) >= MaxMapLength {
		return nil, fmt.Errorf("%w: %d unique tiles", ErrMapOverflow, len(set))
	}

	index := make(map[Tile]int, len(set))
	for i := len(set) - 1; i >= 0; i-- {
		index[set[i]] = i
	}

	m := make([]int, 0, len(raw))
	for i, t := range raw {
		j, ok := index[t]
		if !ok {
			return nil, fmt.Errorf("tile: tile %d missing from tile set", i)
		}
		m = append(m, j)
	}

	return m, nil
}

// Pad places m, a width by height map, in the top-left corner of a
// padWidth by padHeight map, filling the rest with value.
func Pad(m []int, width, height, padWidth, padHeight, value int) ([]int, error) {
	if len(m) != width*height {
		return nil, errBadMap
	}
	if padWidth < width || padHeight < height {
		return nil, fmt.Errorf("%w: %dx%d into %dx%d", ErrInvalidPadding, width, height, padWidth, padHeight)
	}

	padded := make([]int, 0, padWidth*padHeight)
	for y := 0; y < height; y++ {
		padded = append(padded, m[y*width:(y+1)*width]...)
		for x := width; x < padWidth; x++ {
			padded = append(padded, value)
		}
	}
	for i := height * padWidth; i < padWidth*padHeight; i++ {
		padded = append(padded, value)
	}

	return padded, nil
}
