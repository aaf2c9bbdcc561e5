package rankd

import (
	"context"
	"net"

	"github.com/cockroachdb/errors"
	proto "github.com/gogo/protobuf/proto"
	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/ppopth/gf2-rank/gf2"
	"github.com/ppopth/gf2-rank/host"
	"github.com/ppopth/gf2-rank/pb"
)

// ErrRemote marks errors reported by the server for a request.
var ErrRemote = errors.New("rankd: remote error")

// AutoBlockWidth leaves the block width to the server.
const AutoBlockWidth = -1

// Result is the answer to one rank request.
type Result struct {
	Rank           int
	BlockWidth     int
	Blocks         int
	FallbackPivots int
	Reduced        *gf2.Matrix // row echelon form, when requested
}

// Client sends rank requests to one server.
type Client struct {
	host   *host.Host
	server peer.ID
}

// Dial connects h to the server at addr.
func Dial(ctx context.Context, h *host.Host, addr net.Addr) (*Client, error) {
	pid, err := h.Connect(ctx, addr)
	if err != nil {
		return nil, err
	}
	return &Client{host: h, server: pid}, nil
}

// Server returns the peer ID of the server.
func (c *Client) Server() peer.ID {
	return c.server
}

// Rank asks the server for the rank of m. The matrix is not modified. width
// is a block width or AutoBlockWidth.
func (c *Client) Rank(ctx context.Context, m *gf2.Matrix, width int, reduced bool) (*Result, error) {
	req := &pb.RankRequest{
		Rows:          proto.Uint32(uint32(m.Rows())),
		WordsPerRow:   proto.Uint32(uint32(m.WordsPerRow())),
		Words:         m.Words(),
		ReturnReduced: proto.Bool(reduced),
	}
	if width != AutoBlockWidth {
		if width < 0 {
			return nil, errors.Newf("rankd: invalid block width %d", width)
		}
		req.BlockWidth = proto.Uint32(uint32(width))
	}
	buf, err := proto.Marshal(req)
	if err != nil {
		return nil, err
	}

	buf, err = c.host.Request(ctx, c.server, buf)
	if err != nil {
		return nil, err
	}
	var resp pb.RankResponse
	if err := proto.Unmarshal(buf, &resp); err != nil {
		return nil, errors.Wrap(err, "rankd: decoding response")
	}
	if resp.Error != nil {
		return nil, errors.Mark(errors.Newf("rankd: server: %s", resp.GetError()), ErrRemote)
	}

	res := &Result{
		Rank:           int(resp.GetRank()),
		BlockWidth:     int(resp.GetBlockWidth()),
		Blocks:         int(resp.GetBlocks()),
		FallbackPivots: int(resp.GetFallbackPivots()),
	}
	if reduced {
		if res.Reduced, err = gf2.NewMatrixFromWords(m.Rows(), m.WordsPerRow(), resp.GetReduced()); err != nil {
			return nil, errors.Wrap(err, "rankd: reduced matrix")
		}
		if !gf2.IsRowEchelonForm(res.Reduced) {
			return nil, errors.New("rankd: reduced matrix is not in row echelon form")
		}
	}
	return res, nil
}
