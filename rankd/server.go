// Package rankd serves GF(2) rank computations to peers over the QUIC
// request streams of a host.Host.
package rankd

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	proto "github.com/gogo/protobuf/proto"
	logging "github.com/ipfs/go-log/v2"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ppopth/gf2-rank/gf2"
	"github.com/ppopth/gf2-rank/host"
	"github.com/ppopth/gf2-rank/pb"
)

var log = logging.Logger("rankd")

// DefaultMaxWords bounds the size of a matrix accepted in one request. A row
// of zero words counts as one word.
const DefaultMaxWords = 1 << 22

type ServerOption func(*Server) error

// WithRegisterer registers the server metrics with reg instead of a private
// registry.
func WithRegisterer(reg prometheus.Registerer) ServerOption {
	return func(s *Server) error {
		s.registerer = reg
		return nil
	}
}

// WithMaxWords rejects requests whose matrix holds more than n words
func WithMaxWords(n int) ServerOption {
	return func(s *Server) error {
		if n <= 0 {
			return errors.Newf("rankd: invalid word limit %d", n)
		}
		s.maxWords = n
		return nil
	}
}

// Server answers rank requests arriving at a host.
type Server struct {
	host       *host.Host
	registerer prometheus.Registerer
	maxWords   int
	metrics    *metrics
}

// NewServer installs a rank request handler on h.
func NewServer(h *host.Host, opts ...ServerOption) (*Server, error) {
	s := &Server{
		host:       h,
		registerer: prometheus.NewRegistry(),
		maxWords:   DefaultMaxWords,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	var err error
	if s.metrics, err = newMetrics(s.registerer, h); err != nil {
		return nil, errors.Wrap(err, "rankd: registering metrics")
	}
	h.SetHandler(s.handle)
	log.Infof("serving rank requests as %s", h.ID())
	return s, nil
}

func (s *Server) handle(ctx context.Context, from peer.ID, buf []byte) ([]byte, error) {
	var req pb.RankRequest
	if err := proto.Unmarshal(buf, &req); err != nil {
		s.metrics.requests.WithLabelValues("malformed").Inc()
		return nil, errors.Wrap(err, "rankd: decoding request")
	}
	resp := s.Compute(&req)
	if resp.Error != nil {
		log.Debugf("request from %s failed: %s", from, resp.GetError())
	}
	return proto.Marshal(resp)
}

// Compute answers one request. Invalid requests are reported in the
// response's error field.
func (s *Server) Compute(req *pb.RankRequest) *pb.RankResponse {
	m, opts, err := s.decode(req)
	if err != nil {
		s.metrics.requests.WithLabelValues("invalid").Inc()
		return &pb.RankResponse{Error: proto.String(err.Error())}
	}

	var stats gf2.RankStats
	opts = append(opts, gf2.WithStats(&stats))
	start := time.Now()
	rank, err := gf2.Rank(m, opts...)
	if err != nil {
		s.metrics.requests.WithLabelValues("invalid").Inc()
		return &pb.RankResponse{Error: proto.String(err.Error())}
	}
	s.metrics.duration.Observe(time.Since(start).Seconds())
	s.metrics.requests.WithLabelValues("ok").Inc()
	s.metrics.blocks.Add(float64(stats.Blocks))
	s.metrics.fallbackPivots.Add(float64(stats.FallbackPivots))

	resp := &pb.RankResponse{
		Rank:           proto.Uint32(uint32(rank)),
		BlockWidth:     proto.Uint32(uint32(stats.BlockWidth)),
		Blocks:         proto.Uint32(uint32(stats.Blocks)),
		FallbackPivots: proto.Uint32(uint32(stats.FallbackPivots)),
	}
	if req.GetReturnReduced() {
		resp.Reduced = m.Words()
	}
	return resp
}

func (s *Server) decode(req *pb.RankRequest) (*gf2.Matrix, []gf2.Option, error) {
	rows, words := int(req.GetRows()), int(req.GetWordsPerRow())
	// Rows of zero words still cost a row header each
	if uint64(rows)*uint64(max(words, 1)) > uint64(s.maxWords) {
		return nil, nil, errors.Newf("rankd: %dx%d-word matrix exceeds limit of %d words", rows, words, s.maxWords)
	}
	m, err := gf2.NewMatrixFromWords(rows, words, req.GetWords())
	if err != nil {
		return nil, nil, err
	}
	var opts []gf2.Option
	if req.BlockWidth != nil {
		opts = append(opts, gf2.WithBlockWidth(int(req.GetBlockWidth())))
	}
	return m, opts, nil
}
