package gf2

// reduceBelow clears columns start..start+c-1 from every row below the block
// with one table lookup and one row XOR per row.
func (rd *reducer) reduceBelow(start, c int) {
	t := &rd.table
	for r := start + c; r < len(rd.rows); r++ {
		row := rd.rows[r]
		key := row.bits(start, c)
		if key == 0 {
			continue
		}
		row[t.lo:].AddRange(t.entry(key), 0, t.stride)
	}
}

// reduceFallback runs single-pivot forward elimination from the current row
// and column col until the rows or the columns run out.
func (rd *reducer) reduceFallback(col int) {
	cols := rd.words * WordSize
	if rd.row < len(rd.rows) && col < cols {
		log.Debugf("single-pivot elimination from row %d, column %d", rd.row, col)
	}
	for ; rd.row < len(rd.rows) && col < cols; col++ {
		pivot := -1
		for j := rd.row; j < len(rd.rows); j++ {
			if rd.rows[j].bit(col) {
				pivot = j
				break
			}
		}
		if pivot < 0 {
			continue
		}

		lo := col / WordSize
		top := rd.rows[rd.row]
		if pivot != rd.row {
			top.AddRange(rd.rows[pivot], lo, rd.words)
		}
		for j := rd.row + 1; j < len(rd.rows); j++ {
			if rd.rows[j].bit(col) {
				rd.rows[j].AddRange(top, lo, rd.words)
			}
		}
		rd.row++
		rd.stats.FallbackPivots++
	}
}
