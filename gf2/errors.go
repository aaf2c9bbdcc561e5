package gf2

import "github.com/cockroachdb/errors"

var (
	// ErrDimension marks errors caused by rows of the wrong length or by a block
	// width the word size cannot hold.
	ErrDimension = errors.New("gf2: dimension mismatch")

	// ErrIndex marks errors caused by a bit index or bit range outside a row.
	ErrIndex = errors.New("gf2: index out of range")
)

func dimensionErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrDimension)
}

func indexErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrIndex)
}
