package main

import (
	"fmt"
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"
)

var log = logging.Logger("gf2rank")

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "gf2rank [command] (flags)",
	Short: "rank of dense GF(2) matrices",
	Long:  ``,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := logging.LevelFromString(logLevel)
		if err != nil {
			return err
		}
		logging.SetAllLoggers(lvl)
		return nil
	},
	SilenceUsage: true,
}

func main() {
	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(
		rankCmd,
		genCmd,
		serveCmd,
		queryCmd,
	)

	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rankCmd.Flags().IntVarP(
		&rankConfig.width, "width", "c", -1, "block width (-1 picks floor(log2 rows), 0 disables blocking)")
	rankCmd.Flags().IntVarP(
		&rankConfig.concurrency, "concurrency", "j", 4, "number of files ranked concurrently")
	rankCmd.Flags().BoolVar(
		&rankConfig.render, "render", false, "print the matrix before ranking it")
	rankCmd.Flags().IntVar(
		&rankConfig.chunk, "chunk", 0, "columns between separators when rendering (0 for none)")

	genCmd.Flags().IntVar(
		&genConfig.rows, "rows", 64, "number of rows")
	genCmd.Flags().IntVar(
		&genConfig.words, "words", 2, "number of 64-bit words per row")
	genCmd.Flags().Int64Var(
		&genConfig.seed, "seed", 1, "random seed")
	genCmd.Flags().IntVar(
		&genConfig.dependent, "dependent", 0, "number of rows made dependent on earlier ones")

	serveCmd.Flags().StringVar(
		&serveConfig.listen, "listen", "0.0.0.0:7001", "QUIC listen address")
	serveCmd.Flags().StringVar(
		&serveConfig.metrics, "metrics", "", "HTTP address for the prometheus endpoint (empty to disable)")
	serveCmd.Flags().IntVar(
		&serveConfig.maxWords, "max-words", 0, "largest accepted matrix in words (0 for the default)")

	queryCmd.Flags().IntVarP(
		&queryConfig.width, "width", "c", -1, "block width (-1 lets the server choose)")
	queryCmd.Flags().BoolVar(
		&queryConfig.reduced, "reduced", false, "print the row echelon form returned by the server")
	queryCmd.Flags().DurationVar(
		&queryConfig.timeout, "timeout", queryConfig.timeout, "request timeout")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
