package gf2

import "strings"

// Render draws m as a grid of 0s and 1s, one line per row, column 0 first.
// Columns are grouped into runs of chunk bits separated by a space, and word
// boundaries are marked with " | ". A chunk of 0 disables chunk grouping.
func Render(m *Matrix, chunk int) string {
	var b strings.Builder
	cols := m.Cols()
	b.Grow(len(m.rows) * (cols + cols/WordSize*3 + 1))
	for _, row := range m.rows {
		for col := 0; col < cols; col++ {
			if col > 0 {
				switch {
				case col%WordSize == 0:
					b.WriteString(" | ")
				case chunk > 0 && col%chunk == 0:
					b.WriteByte(' ')
				}
			}
			if row.bit(col) {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
