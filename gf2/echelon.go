package gf2

import "math/bits"

// Leading returns the column of the lowest set bit of r, or -1 when r is
// zero.
func (r Row) Leading() int {
	for w, x := range r {
		if x != 0 {
			return w*WordSize + bits.TrailingZeros64(x)
		}
	}
	return -1
}

// IsRowEchelonForm reports whether m is in row echelon form:
// nonzero rows come first, each leading column is strictly right of the
// one above it, and every entry below a leading bit is zero.
func IsRowEchelonForm(m *Matrix) bool {
	prev := -1
	for i, row := range m.rows {
		lead := row.Leading()
		if lead == -1 {
			for _, rest := range m.rows[i+1:] {
				if !rest.IsZero() {
					return false
				}
			}
			return true
		}
		if lead <= prev {
			return false
		}
		prev = lead
	}
	return true
}
