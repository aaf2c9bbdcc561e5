package main

import (
	"math/rand"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ppopth/gf2-rank/gf2"
	"github.com/ppopth/gf2-rank/matrixio"
)

var genConfig struct {
	rows      int
	words     int
	seed      int64
	dependent int
}

var genCmd = &cobra.Command{
	Use:   "gen <file>",
	Short: "write a random matrix file",
	Long: `Writes a random matrix. The last --dependent rows are sums of earlier rows,
so the rank is at most rows - dependent. A .zst suffix compresses the output.`,
	Args: cobra.ExactArgs(1),
	RunE: runGen,
}

func runGen(cmd *cobra.Command, args []string) error {
	if genConfig.dependent < 0 || genConfig.dependent > genConfig.rows {
		return errors.Newf("--dependent %d not in [0, %d]", genConfig.dependent, genConfig.rows)
	}
	rng := rand.New(rand.NewSource(genConfig.seed))
	m, err := gf2.Random(rng, genConfig.rows, genConfig.words)
	if err != nil {
		return err
	}
	free := genConfig.rows - genConfig.dependent
	for i := free; i < m.Rows(); i++ {
		for w := range m.Row(i) {
			m.Row(i)[w] = 0
		}
		if free == 0 {
			continue
		}
		// Sum of a random nonempty subset of the free rows
		m.AddRow(i, rng.Intn(free))
		for j := 0; j < free; j++ {
			if rng.Intn(2) == 1 {
				m.AddRow(i, j)
			}
		}
	}
	if err := matrixio.Create(args[0], m); err != nil {
		return err
	}
	log.Infof("wrote %dx%d matrix to %s", m.Rows(), m.Cols(), args[0])
	return nil
}
