package gf2

import (
	"math/bits"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("gf2")

// MaxBlockWidth bounds the block width so the 2^c entry lookup table stays
// small. The automatic width never exceeds it either.
const MaxBlockWidth = 16

// Option configures a single rank computation
type Option func(*rankConfig) error

type rankConfig struct {
	width int // -1 selects floor(log2(rows))
	stats *RankStats
}

// WithBlockWidth sets the number of columns eliminated per lookup table.
// Widths 0 and 1 run the single-pivot elimination only. A width above
// WordSize, or above MaxBlockWidth since the table holds 2^c entries, is an
// ErrDimension; the message names which bound was exceeded.
func WithBlockWidth(c int) Option {
	return func(cfg *rankConfig) error {
		if c < 0 {
			return dimensionErrorf("gf2: negative block width %d", c)
		}
		if c > WordSize {
			return dimensionErrorf("gf2: block width %d exceeds word size %d", c, WordSize)
		}
		if c > MaxBlockWidth {
			return dimensionErrorf("gf2: block width %d exceeds table limit %d", c, MaxBlockWidth)
		}
		cfg.width = c
		return nil
	}
}

// WithStats records what the computation did into s.
func WithStats(s *RankStats) Option {
	return func(cfg *rankConfig) error {
		cfg.stats = s
		return nil
	}
}

// RankStats describes how a rank computation split its work between the
// blocked lookup-table path and the single-pivot fallback.
type RankStats struct {
	BlockWidth     int // block width in effect
	Blocks         int // blocks eliminated through a lookup table
	AbortedBlocks  int // blocks that ran out of pivots
	FallbackPivots int // pivots found by single-pivot elimination
}

// ComputeRank returns the rank of m using the automatic block width. The
// matrix is left in row echelon form.
func ComputeRank(m *Matrix) int {
	rank, _ := Rank(m)
	return rank
}

// Rank returns the rank of m over GF(2) using the Method of Four Russians.
// Rows of m are combined in place, never swapped; on return m is in row
// echelon form and the first rank rows are its pivots. Options are validated
// before m is touched.
func Rank(m *Matrix, opts ...Option) (int, error) {
	cfg := rankConfig{width: -1}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return 0, err
		}
	}
	width := cfg.width
	if width < 0 {
		width = autoBlockWidth(m.Rows())
	}

	rd := &reducer{
		rows:  m.rows,
		words: m.wordsPerRow,
		width: width,
	}
	rd.stats.BlockWidth = width
	rank := rd.run()

	if cfg.stats != nil {
		*cfg.stats = rd.stats
	}
	return rank, nil
}

// autoBlockWidth returns floor(log2(rows)), capped at MaxBlockWidth.
func autoBlockWidth(rows int) int {
	if rows < 2 {
		return 0
	}
	c := bits.Len(uint(rows)) - 1
	if c > MaxBlockWidth {
		c = MaxBlockWidth
	}
	return c
}

// reducer holds the state of one rank computation. The invariant is that
// every row at or past row has zeros in all columns before the current
// column.
type reducer struct {
	rows  []Row
	words int
	width int

	row   int // next row to receive a pivot
	table lookupTable
	stats RankStats
}

func (rd *reducer) run() int {
	col := rd.reduceBlocks()
	rd.reduceFallback(col)
	return rd.row
}

// reduceBlocks eliminates full blocks of width columns while enough rows and
// columns remain. It returns the column where the fallback must resume. While
// blocking every column has produced a pivot, so the current row and column
// coincide.
func (rd *reducer) reduceBlocks() int {
	c := rd.width
	if c <= 1 {
		return rd.row
	}
	cols := rd.words * WordSize
	for rd.row+c <= len(rd.rows) && rd.row+c <= cols {
		start := rd.row
		if !rd.findBlockPivots(start, c) {
			rd.stats.AbortedBlocks++
			log.Debugf("block at column %d has fewer than %d pivots, falling back", start, c)
			return start
		}
		rd.table.build(rd.rows, start, c, rd.words)
		rd.reduceBelow(start, c)
		rd.row = start + c
		rd.stats.Blocks++
	}
	return rd.row
}
