// Package matrixio reads and writes GF(2) matrices in a line-oriented text
// format:
//
//	# comment
//	<rows> <words per row>
//	<word> <word> ...   (one line per row)
//
// Words accept any strconv base prefix (0x, 0b, 0o or decimal). Files whose
// name ends in ".zst" are zstd compressed.
package matrixio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	logging "github.com/ipfs/go-log/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/ppopth/gf2-rank/gf2"
)

var log = logging.Logger("matrixio")

// ZstdSuffix marks compressed matrix files.
const ZstdSuffix = ".zst"

const maxLineSize = 64 << 20

// MaxWords bounds the size of a matrix accepted by Read. A row of zero words
// counts as one word.
const MaxWords = 1 << 30

// Read parses one matrix from r.
func Read(r io.Reader) (*gf2.Matrix, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		lineNo     int
		haveHeader bool
		rows       int
		words      int
		data       []gf2.Word
	)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if !haveHeader {
			if len(fields) != 2 {
				return nil, errors.Newf("matrixio: line %d: header needs <rows> <words>, got %q", lineNo, line)
			}
			var err error
			if rows, err = strconv.Atoi(fields[0]); err != nil || rows < 0 {
				return nil, errors.Newf("matrixio: line %d: invalid row count %q", lineNo, fields[0])
			}
			if words, err = strconv.Atoi(fields[1]); err != nil || words < 0 {
				return nil, errors.Newf("matrixio: line %d: invalid word count %q", lineNo, fields[1])
			}
			if words > 0 && rows > MaxWords/words || rows > MaxWords {
				return nil, errors.Mark(
					errors.Newf("matrixio: line %d: %dx%d-word matrix exceeds limit of %d words", lineNo, rows, words, MaxWords),
					gf2.ErrDimension)
			}
			haveHeader = true
			continue
		}

		if len(data) == rows*words {
			return nil, errors.Newf("matrixio: line %d: more than %d rows", lineNo, rows)
		}
		if len(fields) != words {
			return nil, errors.Mark(
				errors.Newf("matrixio: line %d: row has %d words, want %d", lineNo, len(fields), words),
				gf2.ErrDimension)
		}
		for _, field := range fields {
			w, err := strconv.ParseUint(field, 0, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "matrixio: line %d", lineNo)
			}
			data = append(data, w)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "matrixio: reading matrix")
	}
	if !haveHeader {
		return nil, errors.New("matrixio: missing header")
	}
	if words > 0 && len(data) != rows*words {
		return nil, errors.Mark(
			errors.Newf("matrixio: got %d rows, header declares %d", len(data)/words, rows),
			gf2.ErrDimension)
	}
	return gf2.NewMatrixFromWords(rows, words, data)
}

// Write formats m in the text format read by Read.
func Write(w io.Writer, m *gf2.Matrix) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", m.Rows(), m.WordsPerRow())
	for i := 0; i < m.Rows(); i++ {
		for j, word := range m.Row(i) {
			if j > 0 {
				bw.WriteByte(' ')
			}
			fmt.Fprintf(bw, "0x%016x", word)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Open reads the matrix stored at path.
func Open(path string) (*gf2.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ZstdSuffix) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "matrixio: opening %s", path)
		}
		defer dec.Close()
		r = dec
	}
	m, err := Read(r)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	log.Debugf("read %dx%d matrix from %s", m.Rows(), m.Cols(), path)
	return m, nil
}

// Create writes m to path, replacing any existing file.
func Create(path string, m *gf2.Matrix) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if !strings.HasSuffix(path, ZstdSuffix) {
		return Write(f, m)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		return errors.Wrapf(err, "matrixio: creating %s", path)
	}
	if err := Write(enc, m); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
