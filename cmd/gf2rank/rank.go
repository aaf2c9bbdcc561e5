package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ppopth/gf2-rank/gf2"
	"github.com/ppopth/gf2-rank/matrixio"
)

var rankConfig struct {
	width       int
	concurrency int
	render      bool
	chunk       int
}

var rankCmd = &cobra.Command{
	Use:   "rank <file>...",
	Short: "compute the rank of matrix files",
	Long: `Reads each file (plain text or zstd compressed when the name ends in .zst)
and prints a table with the rank of every matrix.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRank,
}

type rankResult struct {
	path    string
	rows    int
	cols    int
	rank    int
	stats   gf2.RankStats
	elapsed time.Duration
	render  string
}

func runRank(cmd *cobra.Command, args []string) error {
	results := make([]rankResult, len(args))
	var g errgroup.Group
	g.SetLimit(max(rankConfig.concurrency, 1))
	for i, path := range args {
		g.Go(func() error {
			m, err := matrixio.Open(path)
			if err != nil {
				return err
			}
			res := &results[i]
			res.path, res.rows, res.cols = path, m.Rows(), m.Cols()
			if rankConfig.render {
				res.render = gf2.Render(m, rankConfig.chunk)
			}
			opts := []gf2.Option{gf2.WithStats(&res.stats)}
			if rankConfig.width >= 0 {
				opts = append(opts, gf2.WithBlockWidth(rankConfig.width))
			}
			start := time.Now()
			rank, err := gf2.Rank(m, opts...)
			if err != nil {
				return err
			}
			res.rank, res.elapsed = rank, time.Since(start)
			log.Debugf("%s: rank %d in %s", path, rank, res.elapsed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, res := range results {
		if res.render != "" {
			fmt.Fprintf(out, "%s:\n%s\n", res.path, res.render)
		}
	}
	tbl := tablewriter.NewWriter(out)
	tbl.SetHeader([]string{"File", "Rows", "Cols", "Rank", "Width", "Blocks", "Fallback", "Time"})
	for _, res := range results {
		tbl.Append([]string{
			res.path,
			strconv.Itoa(res.rows),
			strconv.Itoa(res.cols),
			strconv.Itoa(res.rank),
			strconv.Itoa(res.stats.BlockWidth),
			strconv.Itoa(res.stats.Blocks),
			strconv.Itoa(res.stats.FallbackPivots),
			res.elapsed.String(),
		})
	}
	tbl.Render()
	return nil
}
