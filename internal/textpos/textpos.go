package textpos

// Index converts 1-based line/column positions into byte offsets for a fixed
// input buffer. YAML and TOML parsers report positions as line/column; the
// token sources built on them use an Index to recover the byte offsets the
// span protocol works in.
type Index struct {
	lineStart []int
	size      int
}

// NewIndex builds the line index for data.
func NewIndex(data []byte) *Index {
	starts := []int{0}
	for i, c := range data {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{lineStart: starts, size: len(data)}
}

// Offset returns the byte offset of the given 1-based line and column, or -1
// when the position lies outside the indexed input. Columns count bytes from
// the start of the line; multi-byte runes before the position make the
// result approximate.
func (ix *Index) Offset(line, col int) int64 {
	if line < 1 || col < 1 || line > len(ix.lineStart) {
		return -1
	}
	off := ix.lineStart[line-1] + col - 1
	if off > ix.size {
		return -1
	}
	return int64(off)
}

// Size returns the length of the indexed input in bytes.
func (ix *Index) Size() int { return ix.size }
