package gf2

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestNewMatrixFromRowsDimension(t *testing.T) {
	_, err := NewMatrixFromRows(2, []Word{1, 2}, []Word{3})
	require.True(t, errors.Is(err, ErrDimension), "got %v", err)

	_, err = NewMatrix(-1, 2)
	require.True(t, errors.Is(err, ErrDimension))

	_, err = NewMatrixFromWords(2, 2, []Word{1, 2, 3})
	require.True(t, errors.Is(err, ErrDimension))
}

func TestNewMatrixTooLarge(t *testing.T) {
	for _, dims := range [][2]int{
		{math.MaxInt, 2},
		{2, math.MaxInt},
		{1 << 30, 1 << 30},
		{MaxWords + 1, 0},
		{MaxWords/4 + 1, 4},
	} {
		_, err := NewMatrix(dims[0], dims[1])
		require.Truef(t, errors.Is(err, ErrDimension), "%dx%d: %v", dims[0], dims[1], err)
		_, err = NewMatrixFromWords(dims[0], dims[1], nil)
		require.Truef(t, errors.Is(err, ErrDimension), "%dx%d: %v", dims[0], dims[1], err)
	}
}

func TestNewMatrixCopiesRows(t *testing.T) {
	src := []Word{5, 6}
	m, err := NewMatrixFromRows(2, src)
	require.NoError(t, err)
	src[0] = 0
	require.Equal(t, Row{5, 6}, m.Row(0))
	require.Equal(t, 1, m.Rows())
	require.Equal(t, 2, m.WordsPerRow())
	require.Equal(t, 2*WordSize, m.Cols())
}

func TestMatrixRowsDoNotOverlap(t *testing.T) {
	m, err := NewMatrix(3, 2)
	require.NoError(t, err)
	m.Row(0)[1] = 9
	require.True(t, m.Row(1).IsZero())
	// Appending to a row must not spill into the next one.
	_ = append(m.Row(0), 1)
	require.True(t, m.Row(1).IsZero())
}

func TestMatrixAccessors(t *testing.T) {
	m := Identity(70)
	require.Equal(t, 70, m.Rows())
	require.Equal(t, 2, m.WordsPerRow())
	for i := 0; i < 70; i++ {
		bit, err := m.Bit(i, i)
		require.NoError(t, err)
		require.True(t, bit)
		require.Equal(t, 1, m.Row(i).OnesCount())
	}

	_, err := m.Bit(70, 0)
	require.True(t, errors.Is(err, ErrIndex))
	_, err = m.Bit(0, 128)
	require.True(t, errors.Is(err, ErrIndex))
	_, err = m.Bits(0, 120, 9)
	require.True(t, errors.Is(err, ErrIndex))

	v, err := m.Bits(65, 63, 4)
	require.NoError(t, err)
	require.Equal(t, Word(0x4), v)

	require.NoError(t, m.SetBit(3, 100, true))
	bit, err := m.Bit(3, 100)
	require.NoError(t, err)
	require.True(t, bit)
}

func TestMatrixRowOps(t *testing.T) {
	m, err := NewMatrixFromRows(2, []Word{1, 2}, []Word{4, 8}, []Word{0, 1})
	require.NoError(t, err)

	m.AddRow(0, 1)
	require.Equal(t, Row{5, 10}, m.Row(0))
	m.AddRowRange(2, 1, 1, 2)
	require.Equal(t, Row{0, 9}, m.Row(2))
	m.SwapRows(0, 2)
	require.Equal(t, Row{0, 9}, m.Row(0))
	require.Equal(t, Row{5, 10}, m.Row(2))
	require.Equal(t, []Word{0, 9, 4, 8, 5, 10}, m.Words())
}

func TestMatrixCloneEqual(t *testing.T) {
	m, err := Random(rand.New(rand.NewSource(1)), 5, 3)
	require.NoError(t, err)
	c := m.Clone()
	require.True(t, m.Equal(c))
	c.Row(4)[2] ^= 1
	require.False(t, m.Equal(c))

	other, err := NewMatrix(5, 2)
	require.NoError(t, err)
	require.False(t, m.Equal(other))

	empty, err := NewMatrix(0, 4)
	require.NoError(t, err)
	require.True(t, empty.Equal(empty.Clone()))
}
