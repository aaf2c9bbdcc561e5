package main

import (
	"context"
	"net"
	"net/netip"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ppopth/gf2-rank/gf2"
	"github.com/ppopth/gf2-rank/host"
	"github.com/ppopth/gf2-rank/matrixio"
	"github.com/ppopth/gf2-rank/rankd"
)

var queryConfig = struct {
	width   int
	reduced bool
	timeout time.Duration
}{
	timeout: 30 * time.Second,
}

var queryCmd = &cobra.Command{
	Use:   "query <addr> <file>...",
	Short: "ask a rank server for the rank of matrix files",
	Long:  ``,
	Args:  cobra.MinimumNArgs(2),
	RunE:  runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	addr, err := net.ResolveUDPAddr("udp", args[0])
	if err != nil {
		return errors.Wrapf(err, "resolving %s", args[0])
	}
	h, err := host.NewHost(host.WithAddrPort(netip.MustParseAddrPort("0.0.0.0:0")))
	if err != nil {
		return err
	}
	defer h.Close()

	ctx, cancel := context.WithTimeout(context.Background(), queryConfig.timeout)
	defer cancel()
	client, err := rankd.Dial(ctx, h, addr)
	if err != nil {
		return err
	}
	log.Infof("connected to %s", client.Server())

	for _, path := range args[1:] {
		m, err := matrixio.Open(path)
		if err != nil {
			return err
		}
		res, err := client.Rank(ctx, m, queryConfig.width, queryConfig.reduced)
		if err != nil {
			return errors.Wrapf(err, "%s", path)
		}
		cmd.Printf("%s: rank %d (width %d, blocks %d, fallback pivots %d)\n",
			path, res.Rank, res.BlockWidth, res.Blocks, res.FallbackPivots)
		if res.Reduced != nil {
			cmd.Println(gf2.Render(res.Reduced, 0))
		}
	}
	return nil
}
