package host

import (
	"context"
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/tls"
	"net"
	"net/netip"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	logging "github.com/ipfs/go-log/v2"
	ic "github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	quic "github.com/quic-go/quic-go"
)

var log = logging.Logger("host")

const (
	DefaultPort = 7001

	// Protocol is the ALPN identifier negotiated on every connection.
	Protocol = "gf2rank/1"

	// DefaultMaxFrameSize bounds a single request or response.
	DefaultMaxFrameSize = 64 << 20
)

// ErrNotConnected is returned by Request for a peer without a connection.
var ErrNotConnected = errors.New("host: not connected to peer")

// Handler answers one request frame received from a peer with one response
// frame. A returned error resets the stream.
type Handler func(ctx context.Context, from peer.ID, req []byte) ([]byte, error)

// HostOption configures a Host during construction
type HostOption func(*Host) error

// NewHost creates a Host that listens for QUIC connections and serves
// request streams with the handler set by SetHandler.
func NewHost(opts ...HostOption) (*Host, error) {
	ctx, cancel := context.WithCancel(context.Background())

	host := &Host{
		ctx:    ctx,
		cancel: cancel,

		endpoint:     net.UDPAddrFromAddrPort(netip.AddrPortFrom(netip.IPv4Unspecified(), DefaultPort)),
		connections:  make(map[peer.ID]quic.Connection),
		maxFrameSize: DefaultMaxFrameSize,
		idleTimeout:  5 * time.Minute,
	}

	for _, opt := range opts {
		err := opt(host)
		if err != nil {
			cancel()
			return nil, err
		}
	}

	// Generate identity if not provided
	if host.privateKey == nil {
		_, privateKey, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			cancel()
			return nil, err
		}
		if err := WithIdentity(privateKey)(host); err != nil {
			cancel()
			return nil, err
		}
	}

	udpConn, err := net.ListenUDP("udp", host.endpoint)
	if err != nil {
		cancel()
		return nil, errors.Wrapf(err, "host: listening on %s", host.endpoint)
	}
	host.conn = udpConn
	host.transport = &quic.Transport{Conn: udpConn}

	if host.certificate, err = createTLSCertFromKey(host.privateKey); err != nil {
		cancel()
		udpConn.Close()
		return nil, err
	}
	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{*host.certificate},
		ClientAuth:   tls.RequireAnyClientCert,
		NextProtos:   []string{Protocol},
	}
	host.listener, err = host.transport.Listen(tlsConfig, host.quicConfig())
	if err != nil {
		cancel()
		udpConn.Close()
		return nil, err
	}

	host.waitGroup.Add(1)
	go host.acceptLoop()

	return host, nil
}

func (h *Host) quicConfig() *quic.Config {
	return &quic.Config{
		MaxIdleTimeout:  h.idleTimeout,
		KeepAlivePeriod: h.idleTimeout / 2,
	}
}

// Connect establishes an outgoing connection and returns the remote peer ID.
// Connecting to an already connected peer returns its ID without dialing
// again.
func (h *Host) Connect(ctx context.Context, addr net.Addr) (peer.ID, error) {
	// The connection lives as long as the host; ctx only bounds the dial
	dialCtx, cancel := context.WithCancel(h.ctx)
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	tlsConfig := &tls.Config{
		Certificates:       []tls.Certificate{*h.certificate}, // Put a certificate to do client authentication
		InsecureSkipVerify: true,                              // Peers are authenticated by the ID in their certificate
		NextProtos:         []string{Protocol},
	}
	conn, err := h.transport.Dial(dialCtx, addr, tlsConfig, h.quicConfig())
	if err != nil {
		cancel()
		return "", errors.Wrapf(err, "host: dialing %s", addr)
	}

	peerID, err := h.handleConnection(conn)
	if err != nil {
		if errors.Is(err, errDuplicate) {
			conn.CloseWithError(0, "duplicate connection")
			return peerID, nil
		}
		conn.CloseWithError(0, err.Error())
		return "", err
	}
	log.Infof("connected to %s at %s", peerID, addr)
	return peerID, nil
}

// Request sends req to a connected peer on a fresh stream and waits for the
// response frame.
func (h *Host) Request(ctx context.Context, pid peer.ID, req []byte) ([]byte, error) {
	h.mutex.Lock()
	conn, ok := h.connections[pid]
	h.mutex.Unlock()
	if !ok {
		return nil, errors.Wrapf(ErrNotConnected, "%s", pid)
	}

	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "host: opening stream")
	}
	if deadline, ok := ctx.Deadline(); ok {
		stream.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() {
		stream.CancelRead(0)
		stream.CancelWrite(0)
	})
	defer stop()

	n, err := writeFrame(stream, req)
	if err != nil {
		return nil, errors.Wrap(err, "host: writing request")
	}
	h.AddBytesSent(uint64(n))
	// Closing the send side tells the peer the request is complete
	if err := stream.Close(); err != nil {
		return nil, err
	}

	resp, err := readLastFrame(stream, h.maxFrameSize)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(err, "host: reading response")
	}
	h.AddBytesReceived(uint64(frameHeaderSize + len(resp)))
	return resp, nil
}

// SetHandler registers the function that answers incoming requests.
func (h *Host) SetHandler(handler Handler) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.handler = handler
}

func (h *Host) LocalAddr() net.Addr {
	return h.transport.Conn.LocalAddr()
}

func (h *Host) ID() peer.ID {
	return h.peerID
}

// Peers returns the IDs of all connected peers.
func (h *Host) Peers() []peer.ID {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	peers := make([]peer.ID, 0, len(h.connections))
	for pid := range h.connections {
		peers = append(peers, pid)
	}
	return peers
}

// Close closes every connection and waits for in-flight requests.
func (h *Host) Close() error {
	h.cancel()
	err := h.transport.Close()
	h.waitGroup.Wait()
	if cerr := h.conn.Close(); err == nil && !errors.Is(cerr, net.ErrClosed) {
		err = cerr
	}
	return err
}

var errDuplicate = errors.New("host: already connected to peer")

// handleConnection registers a new connection (incoming or outgoing) and
// starts serving its streams.
func (h *Host) handleConnection(conn quic.Connection) (peer.ID, error) {
	// Extract peer ID from TLS certificate
	peerCert := conn.ConnectionState().TLS.PeerCertificates[0]
	peerID, err := parsePeerIDFromCertificate(peerCert)
	if err != nil {
		return "", errors.Wrap(err, "host: parsing peer ID from TLS certificate")
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, exists := h.connections[peerID]; exists {
		return peerID, errors.Wrapf(errDuplicate, "%s", peerID)
	}
	h.connections[peerID] = conn

	h.waitGroup.Add(1)
	go func() {
		defer h.waitGroup.Done()
		h.serveConnection(peerID, conn)

		h.mutex.Lock()
		if h.connections[peerID] == conn {
			delete(h.connections, peerID)
		}
		h.mutex.Unlock()
		log.Debugf("connection to %s closed", peerID)
	}()
	return peerID, nil
}

// serveConnection accepts request streams until the connection closes.
func (h *Host) serveConnection(pid peer.ID, conn quic.Connection) {
	var streams sync.WaitGroup
	defer streams.Wait()
	for {
		stream, err := conn.AcceptStream(h.ctx)
		if err != nil {
			return
		}
		streams.Add(1)
		go func() {
			defer streams.Done()
			h.serveStream(pid, stream)
		}()
	}
}

func (h *Host) serveStream(pid peer.ID, stream quic.Stream) {
	req, err := readLastFrame(stream, h.maxFrameSize)
	if err != nil {
		log.Warnf("bad request from %s: %v", pid, err)
		stream.CancelRead(0)
		stream.CancelWrite(0)
		return
	}
	h.AddBytesReceived(uint64(frameHeaderSize + len(req)))

	h.mutex.Lock()
	handler := h.handler
	h.mutex.Unlock()
	if handler == nil {
		log.Warnf("no handler for request from %s", pid)
		stream.CancelWrite(0)
		return
	}

	resp, err := handler(h.ctx, pid, req)
	if err != nil {
		log.Warnf("handling request from %s: %v", pid, err)
		stream.CancelWrite(0)
		return
	}
	n, err := writeFrame(stream, resp)
	if err != nil {
		log.Warnf("writing response to %s: %v", pid, err)
		stream.CancelWrite(0)
		return
	}
	h.AddBytesSent(uint64(n))
	stream.Close()
}

// acceptLoop handles incoming connections
func (h *Host) acceptLoop() {
	defer h.waitGroup.Done()

	log.Infof("listening on %s", h.LocalAddr())
	log.Infof("peer ID: %s", h.peerID)

	for {
		conn, err := h.listener.Accept(h.ctx)
		if err != nil {
			if h.ctx.Err() == nil {
				log.Warnf("listener accept error: %v", err)
			}
			return
		}

		peerID, err := h.handleConnection(conn)
		if err != nil {
			log.Warnf("failed to handle connection: %v", err)
			conn.CloseWithError(0, err.Error())
			continue
		}
		log.Infof("accepted connection from %s at %s", peerID, conn.RemoteAddr())
	}
}

func WithAddrPort(ep netip.AddrPort) HostOption {
	return func(h *Host) error {
		h.endpoint = net.UDPAddrFromAddrPort(ep)
		return nil
	}
}

// WithMaxFrameSize bounds the size of a request or response frame
func WithMaxFrameSize(n int) HostOption {
	return func(h *Host) error {
		if n <= 0 {
			return errors.Newf("host: invalid max frame size %d", n)
		}
		h.maxFrameSize = n
		return nil
	}
}

// WithIdleTimeout sets how long an idle connection is kept open
func WithIdleTimeout(d time.Duration) HostOption {
	return func(h *Host) error {
		if d <= 0 {
			return errors.Newf("host: invalid idle timeout %s", d)
		}
		h.idleTimeout = d
		return nil
	}
}

// WithIdentity sets the host's identity from a private key
func WithIdentity(privateKey crypto.PrivateKey) HostOption {
	return func(h *Host) error {
		var privkey ic.PrivKey
		var err error

		switch key := privateKey.(type) {
		case ed25519.PrivateKey:
			privkey, err = ic.UnmarshalEd25519PrivateKey(key)
		default:
			return errors.Newf("host: unsupported key type: %T", privateKey)
		}
		if err != nil {
			return err
		}
		peerID, err := peer.IDFromPublicKey(privkey.GetPublic())
		if err != nil {
			return err
		}

		h.privateKey = privateKey
		h.peerID = peerID
		return nil
	}
}

// Host manages QUIC connections to peers and the request streams on them
type Host struct {
	ctx       context.Context
	cancel    context.CancelFunc
	waitGroup sync.WaitGroup

	mutex sync.Mutex // Protects connections and handler

	connections map[peer.ID]quic.Connection
	handler     Handler

	maxFrameSize int
	idleTimeout  time.Duration

	certificate *tls.Certificate  // Self-signed TLS certificate
	endpoint    *net.UDPAddr      // Local UDP endpoint
	peerID      peer.ID           // This host's peer ID
	privateKey  crypto.PrivateKey // Identity private key

	conn      net.PacketConn
	transport *quic.Transport
	listener  *quic.Listener

	// Byte counters
	bytesSent     uint64
	bytesReceived uint64
	statsMutex    sync.Mutex // Protects byte counters
}

// AddBytesSent increments the sent byte counter
func (h *Host) AddBytesSent(n uint64) {
	h.statsMutex.Lock()
	defer h.statsMutex.Unlock()
	h.bytesSent += n
}

// AddBytesReceived increments the received byte counter
func (h *Host) AddBytesReceived(n uint64) {
	h.statsMutex.Lock()
	defer h.statsMutex.Unlock()
	h.bytesReceived += n
}

// GetBytesSent returns the total bytes sent
func (h *Host) GetBytesSent() uint64 {
	h.statsMutex.Lock()
	defer h.statsMutex.Unlock()
	return h.bytesSent
}

// GetBytesReceived returns the total bytes received
func (h *Host) GetBytesReceived() uint64 {
	h.statsMutex.Lock()
	defer h.statsMutex.Unlock()
	return h.bytesReceived
}
