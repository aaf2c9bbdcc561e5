package gf2

// lookupTable holds every linear combination of one block's pivot rows,
// restricted to the words from the block's first word onwards. A combination
// is stored under its own pattern in the block columns, so XORing entry
// bits(row, start, c) into a row clears those columns.
type lookupTable struct {
	lo     int    // first word covered by an entry
	stride int    // words per entry
	data   []Word // 2^c entries of stride words
	keys   []Word // block pattern of the combination of pivot subset i
}

func (t *lookupTable) entry(key Word) Row {
	off := int(key) * t.stride
	return Row(t.data[off : off+t.stride : off+t.stride])
}

// build fills the table for pivots rows[start:start+c]. Pass i reads the 2^i
// combinations of pivots 0..i-1 and writes the 2^i combinations that also
// include pivot i. The pivots are unit upper triangular in the block columns,
// so the two sets of patterns are disjoint and together cover [0, 2^c): no
// cell is read and written in the same pass and every cell is overwritten.
func (t *lookupTable) build(rows []Row, start, c, words int) {
	size := 1 << uint(c)
	t.lo = start / WordSize
	t.stride = words - t.lo
	if need := size * t.stride; cap(t.data) < need {
		t.data = make([]Word, need)
	} else {
		t.data = t.data[:need]
	}
	if cap(t.keys) < size {
		t.keys = make([]Word, size)
	} else {
		t.keys = t.keys[:size]
	}

	clear(t.entry(0))
	t.keys[0] = 0
	for i := 0; i < c; i++ {
		pivot := rows[start+i]
		suffix := pivot[t.lo:]
		ii := 1 << uint(i)
		vv := pivot.bits(start, c)
		for j := 0; j < ii; j++ {
			from := t.entry(t.keys[j])
			key := t.keys[j] ^ vv
			t.keys[j|ii] = key
			to := t.entry(key)
			for w := range to {
				to[w] = from[w] ^ suffix[w]
			}
		}
	}
}
