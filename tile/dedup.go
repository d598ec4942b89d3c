package tile

// Dedup returns the tiles with every repeat of an earlier tile removed. The
// first occurrence of each tile is kept and the relative order is unchanged.
func Dedup(tiles []Tile) []Tile {
	seen := make(map[Tile]struct{}, len(tiles))
	unique := make([]Tile, 0, len(tiles))
	for _, t := range tiles {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		unique = append(unique, t)
	}
	return unique
}
