package gf2

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
)

func TestRankDataDriven(t *testing.T) {
	var m *Matrix
	datadriven.RunTest(t, "testdata/rank", func(t *testing.T, td *datadriven.TestData) string {
		switch td.Cmd {
		case "define":
			var words int
			td.ScanArgs(t, "words", &words)
			var rows [][]Word
			for _, line := range strings.Split(strings.TrimSpace(td.Input), "\n") {
				var row []Word
				for _, field := range strings.Fields(line) {
					w, err := strconv.ParseUint(field, 0, 64)
					if err != nil {
						td.Fatalf(t, "parsing %q: %v", field, err)
					}
					row = append(row, w)
				}
				rows = append(rows, row)
			}
			defined, err := NewMatrixFromRows(words, rows...)
			if err != nil {
				return err.Error()
			}
			m = defined
			return fmt.Sprintf("%d rows, %d columns", m.Rows(), m.Cols())

		case "rank":
			var stats RankStats
			opts := []Option{WithStats(&stats)}
			if td.HasArg("width") {
				var width int
				td.ScanArgs(t, "width", &width)
				opts = append(opts, WithBlockWidth(width))
			}
			rank, err := Rank(m, opts...)
			if err != nil {
				return err.Error()
			}
			return fmt.Sprintf("rank=%d width=%d blocks=%d aborted=%d fallback=%d",
				rank, stats.BlockWidth, stats.Blocks, stats.AbortedBlocks, stats.FallbackPivots)

		case "render":
			var chunk int
			if td.HasArg("chunk") {
				td.ScanArgs(t, "chunk", &chunk)
			}
			return Render(m, chunk)

		case "bit":
			var row, col int
			td.ScanArgs(t, "row", &row)
			td.ScanArgs(t, "col", &col)
			bit, err := m.Bit(row, col)
			if err != nil {
				return err.Error()
			}
			return strconv.FormatBool(bit)

		case "bits":
			var row, start, width int
			td.ScanArgs(t, "row", &row)
			td.ScanArgs(t, "start", &start)
			td.ScanArgs(t, "width", &width)
			v, err := m.Bits(row, start, width)
			if err != nil {
				return err.Error()
			}
			return fmt.Sprintf("%#x", v)

		default:
			return fmt.Sprintf("unknown command: %s", td.Cmd)
		}
	})
}
