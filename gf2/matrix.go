package gf2

import (
	"math/bits"
	"math/rand"
)

// MaxWords bounds the storage of one matrix. A row of zero words counts as
// one word, since it still needs a row header.
const MaxWords = 1 << (bits.UintSize/2 + 11)

// Matrix is a dense matrix over GF(2) stored as bit-packed rows. All rows
// share one backing array and have the same number of words.
type Matrix struct {
	rows        []Row
	wordsPerRow int
}

// NewMatrix returns an all-zero matrix with m rows of n words each.
func NewMatrix(m, n int) (*Matrix, error) {
	if m < 0 || n < 0 {
		return nil, dimensionErrorf("gf2: invalid dimensions %dx%d words", m, n)
	}
	if m > MaxWords/max(n, 1) {
		return nil, dimensionErrorf("gf2: %dx%d-word matrix exceeds limit of %d words", m, n, MaxWords)
	}
	data := make([]Word, m*n)
	rows := make([]Row, m)
	for i := range rows {
		rows[i] = Row(data[i*n : (i+1)*n : (i+1)*n])
	}
	return &Matrix{rows: rows, wordsPerRow: n}, nil
}

// NewMatrixFromRows copies the given rows into a new matrix with n words per
// row. Every row must have exactly n words.
func NewMatrixFromRows(n int, rows ...[]Word) (*Matrix, error) {
	for i, row := range rows {
		if len(row) != n {
			return nil, dimensionErrorf("gf2: row %d has %d words, want %d", i, len(row), n)
		}
	}
	m, err := NewMatrix(len(rows), n)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		copy(m.rows[i], row)
	}
	return m, nil
}

// NewMatrixFromWords builds an m x n-word matrix from words laid out row by
// row.
func NewMatrixFromWords(m, n int, words []Word) (*Matrix, error) {
	if m < 0 || n < 0 || m > MaxWords/max(n, 1) || len(words) != m*n {
		return nil, dimensionErrorf("gf2: %d words do not fill %d rows of %d words", len(words), m, n)
	}
	mat, err := NewMatrix(m, n)
	if err != nil {
		return nil, err
	}
	for i := range mat.rows {
		copy(mat.rows[i], words[i*n:(i+1)*n])
	}
	return mat, nil
}

// Identity returns the n x n identity pattern: row i has only bit i set.
func Identity(n int) *Matrix {
	m, err := NewMatrix(n, (n+WordSize-1)/WordSize)
	if err != nil {
		panic(err)
	}
	for i, row := range m.rows {
		row[i/WordSize] = 1 << uint(i%WordSize)
	}
	return m
}

// Random returns an m x n-word matrix filled from rng.
func Random(rng *rand.Rand, m, n int) (*Matrix, error) {
	mat, err := NewMatrix(m, n)
	if err != nil {
		return nil, err
	}
	for _, row := range mat.rows {
		for w := range row {
			row[w] = rng.Uint64()
		}
	}
	return mat, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int {
	return len(m.rows)
}

// WordsPerRow returns the number of words in every row.
func (m *Matrix) WordsPerRow() int {
	return m.wordsPerRow
}

// Cols returns the number of logical columns, WordsPerRow * WordSize.
func (m *Matrix) Cols() int {
	return m.wordsPerRow * WordSize
}

// Row returns row i. The returned row aliases the matrix storage.
func (m *Matrix) Row(i int) Row {
	return m.rows[i]
}

// Bit returns the bit at (row, col).
func (m *Matrix) Bit(row, col int) (bool, error) {
	if row < 0 || row >= len(m.rows) {
		return false, indexErrorf("gf2: row %d outside matrix of %d rows", row, len(m.rows))
	}
	return m.rows[row].Bit(col)
}

// Bits returns the width-bit field of row starting at column start.
func (m *Matrix) Bits(row, start, width int) (Word, error) {
	if row < 0 || row >= len(m.rows) {
		return 0, indexErrorf("gf2: row %d outside matrix of %d rows", row, len(m.rows))
	}
	return m.rows[row].Bits(start, width)
}

// SetBit sets the bit at (row, col) to v.
func (m *Matrix) SetBit(row, col int, v bool) error {
	if row < 0 || row >= len(m.rows) {
		return indexErrorf("gf2: row %d outside matrix of %d rows", row, len(m.rows))
	}
	return m.rows[row].SetBit(col, v)
}

// AddRow XORs row src into row dst.
func (m *Matrix) AddRow(dst, src int) {
	m.rows[dst].AddRange(m.rows[src], 0, m.wordsPerRow)
}

// AddRowRange XORs words [lo, hi) of row src into row dst.
func (m *Matrix) AddRowRange(dst, src, lo, hi int) {
	m.rows[dst].AddRange(m.rows[src], lo, hi)
}

// SwapRows exchanges the contents of rows i and j.
func (m *Matrix) SwapRows(i, j int) {
	a, b := m.rows[i], m.rows[j]
	for w := range a {
		a[w], b[w] = b[w], a[w]
	}
}

// Words returns a copy of the matrix contents laid out row by row.
func (m *Matrix) Words() []Word {
	words := make([]Word, 0, len(m.rows)*m.wordsPerRow)
	for _, row := range m.rows {
		words = append(words, row...)
	}
	return words
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	c, _ := NewMatrixFromWords(len(m.rows), m.wordsPerRow, m.Words())
	return c
}

// Equal reports whether m and o have the same shape and contents.
func (m *Matrix) Equal(o *Matrix) bool {
	if len(m.rows) != len(o.rows) || m.wordsPerRow != o.wordsPerRow {
		return false
	}
	for i, row := range m.rows {
		for w, x := range row {
			if o.rows[i][w] != x {
				return false
			}
		}
	}
	return true
}

// String renders the matrix with word boundaries marked.
func (m *Matrix) String() string {
	return Render(m, 0)
}
