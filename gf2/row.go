package gf2

import "math/bits"

// Word is the storage unit of a row.
type Word = uint64

// WordSize is the number of bits held by one Word.
const WordSize = 64

// Row is one bit-packed matrix row. Bit i lives in word i/WordSize at
// position i%WordSize, counted from the least significant bit.
type Row []Word

// Len returns the number of bits in the row.
func (r Row) Len() int {
	return len(r) * WordSize
}

// Bit returns bit i of the row.
func (r Row) Bit(i int) (bool, error) {
	if i < 0 || i >= r.Len() {
		return false, indexErrorf("gf2: bit %d outside row of %d bits", i, r.Len())
	}
	return r.bit(i), nil
}

// SetBit sets bit i of the row to v.
func (r Row) SetBit(i int, v bool) error {
	if i < 0 || i >= r.Len() {
		return indexErrorf("gf2: bit %d outside row of %d bits", i, r.Len())
	}
	if v {
		r[i/WordSize] |= 1 << uint(i%WordSize)
	} else {
		r[i/WordSize] &^= 1 << uint(i%WordSize)
	}
	return nil
}

// Bits returns the width-bit field starting at bit start. Bit 0 of the
// result is bit start of the row.
func (r Row) Bits(start, width int) (Word, error) {
	if width < 1 || width > WordSize {
		return 0, indexErrorf("gf2: field width %d not in [1, %d]", width, WordSize)
	}
	if start < 0 || start+width > r.Len() {
		return 0, indexErrorf("gf2: bits [%d, %d) outside row of %d bits", start, start+width, r.Len())
	}
	return r.bits(start, width), nil
}

func (r Row) bit(i int) bool {
	return r[i/WordSize]>>uint(i%WordSize)&1 == 1
}

// bits assumes 1 <= width <= WordSize, so the field touches at most two words.
func (r Row) bits(start, width int) Word {
	w0 := start / WordSize
	w1 := (start + width - 1) / WordSize
	shift := uint(start % WordSize)
	x := r[w0] >> shift
	if w0 < w1 {
		x ^= r[w1] << (WordSize - shift)
	}
	return x & lowMask(width)
}

func lowMask(width int) Word {
	if width >= WordSize {
		return ^Word(0)
	}
	return Word(1)<<uint(width) - 1
}

// AddRange XORs src into r for every word index in [lo, hi). It panics if
// either row is shorter than hi.
func (r Row) AddRange(src Row, lo, hi int) {
	dst, s := r[lo:hi], src[lo:hi]
	for w := range dst {
		dst[w] ^= s[w]
	}
}

// Dot returns the GF(2) inner product of two rows of equal length.
func (r Row) Dot(o Row) bool {
	if len(r) != len(o) {
		panic("gf2: dot product of rows with different lengths")
	}
	var parity int
	for w := range r {
		parity += bits.OnesCount64(r[w] & o[w])
	}
	return parity&1 == 1
}

// IsZero reports whether every bit of the row is clear.
func (r Row) IsZero() bool {
	for _, w := range r {
		if w != 0 {
			return false
		}
	}
	return true
}

// OnesCount returns the number of set bits.
func (r Row) OnesCount() int {
	n := 0
	for _, w := range r {
		n += bits.OnesCount64(w)
	}
	return n
}
