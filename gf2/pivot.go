package gf2

// findBlockPivots makes rows start..start+c-1 pivots for columns
// start..start+c-1. Each candidate is first reduced against the pivots
// already fixed in this block, so pivot r ends with zeros in columns
// start..r-1 and a one in column r. A pivot found below its slot is XORed
// into the slot rather than swapped. It reports false when some column has no
// candidate; the rows touched so far are still valid combinations of the
// original rows.
func (rd *reducer) findBlockPivots(start, c int) bool {
	lo := start / WordSize
	for r := start; r < start+c; r++ {
		pivot := -1
		for j := r; j < len(rd.rows); j++ {
			cand := rd.rows[j]
			for k := start; k < r; k++ {
				if cand.bit(k) {
					cand.AddRange(rd.rows[k], lo, rd.words)
				}
			}
			if cand.bit(r) {
				pivot = j
				break
			}
		}
		if pivot < 0 {
			return false
		}
		if pivot != r {
			rd.rows[r].AddRange(rd.rows[pivot], lo, rd.words)
		}
	}
	return true
}
