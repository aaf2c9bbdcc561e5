package host

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"net/netip"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	ic "github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/stretchr/testify/require"
)

func newTestHost(t *testing.T, opts ...HostOption) *Host {
	t.Helper()
	opts = append([]HostOption{WithAddrPort(netip.MustParseAddrPort("127.0.0.1:0"))}, opts...)
	h, err := NewHost(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestCertificate(t *testing.T) {
	pk, sk, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	crt, err := createTLSCertFromKey(sk)
	require.NoError(t, err)
	crtPid, err := parsePeerIDFromCertificate(crt.Leaf)
	require.NoError(t, err)

	pubkey, err := ic.UnmarshalEd25519PublicKey(pk)
	require.NoError(t, err)
	p, err := peer.IDFromPublicKey(pubkey)
	require.NoError(t, err)
	require.Equal(t, p, crtPid, "peer id in the created certificate is not correct")
}

func TestFrame(t *testing.T) {
	var buf bytes.Buffer
	n, err := writeFrame(&buf, []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, frameHeaderSize+5, n)
	require.Equal(t, []byte{0, 0, 0, 5}, buf.Bytes()[:frameHeaderSize])

	got, err := readLastFrame(bytes.NewReader(buf.Bytes()), 16)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)

	_, err = readFrame(bytes.NewReader(buf.Bytes()), 4)
	require.ErrorContains(t, err, "exceeds limit")

	_, err = readLastFrame(bytes.NewReader(append(buf.Bytes(), 'x')), 16)
	require.ErrorContains(t, err, "trailing data")

	_, err = readFrame(bytes.NewReader(buf.Bytes()[:6]), 16)
	require.Error(t, err)
}

func TestRequest(t *testing.T) {
	s := newTestHost(t)
	c := newTestHost(t)

	s.SetHandler(func(ctx context.Context, from peer.ID, req []byte) ([]byte, error) {
		if from != c.ID() {
			return nil, errors.Newf("unexpected peer %s", from)
		}
		return append([]byte("re: "), req...), nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pid, err := c.Connect(ctx, s.LocalAddr())
	require.NoError(t, err)
	require.Equal(t, s.ID(), pid)

	resp, err := c.Request(ctx, pid, []byte("rank?"))
	require.NoError(t, err)
	require.Equal(t, "re: rank?", string(resp))

	require.Equal(t, uint64(frameHeaderSize+5), c.GetBytesSent())
	require.Equal(t, uint64(frameHeaderSize+9), c.GetBytesReceived())
	require.Eventually(t, func() bool { return s.GetBytesSent() == c.GetBytesReceived() },
		time.Second, 10*time.Millisecond)

	// Connecting again reuses the connection
	pid2, err := c.Connect(ctx, s.LocalAddr())
	require.NoError(t, err)
	require.Equal(t, pid, pid2)
	require.Len(t, c.Peers(), 1)
}

// TestManyRequests sends more requests than the transport allows open
// streams, so streams must be released after each exchange.
func TestManyRequests(t *testing.T) {
	s := newTestHost(t)
	c := newTestHost(t)
	s.SetHandler(func(ctx context.Context, from peer.ID, req []byte) ([]byte, error) {
		return req, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	pid, err := c.Connect(ctx, s.LocalAddr())
	require.NoError(t, err)

	for i := 0; i < 250; i++ {
		msg := []byte(fmt.Sprintf("request %d", i))
		resp, err := c.Request(ctx, pid, msg)
		require.NoError(t, err)
		require.Equal(t, msg, resp)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			msg := []byte(fmt.Sprintf("concurrent %d", i))
			resp, err := c.Request(ctx, pid, msg)
			if err == nil && !bytes.Equal(resp, msg) {
				err = errors.Newf("got %q, want %q", resp, msg)
			}
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestHandlerError(t *testing.T) {
	s := newTestHost(t)
	c := newTestHost(t)
	s.SetHandler(func(ctx context.Context, from peer.ID, req []byte) ([]byte, error) {
		return nil, errors.New("boom")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pid, err := c.Connect(ctx, s.LocalAddr())
	require.NoError(t, err)

	_, err = c.Request(ctx, pid, []byte("x"))
	require.Error(t, err)
}

func TestRequestNotConnected(t *testing.T) {
	c := newTestHost(t)
	_, err := c.Request(context.Background(), peer.ID("nobody"), nil)
	require.True(t, errors.Is(err, ErrNotConnected))
}

func TestUniqueConnection(t *testing.T) {
	_, sk, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	s := newTestHost(t)
	// Two client hosts sharing one identity
	h1 := newTestHost(t, WithIdentity(sk))
	h2 := newTestHost(t, WithIdentity(sk))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = h1.Connect(ctx, s.LocalAddr())
	require.NoError(t, err)

	// The server rejects the second connection with a duplicated peer id
	_, _ = h2.Connect(ctx, s.LocalAddr())
	require.Eventually(t, func() bool { return len(h2.Peers()) == 0 }, 5*time.Second, 10*time.Millisecond)
	require.Len(t, h1.Peers(), 1)
	require.Len(t, s.Peers(), 1)
}

func TestOptions(t *testing.T) {
	_, err := NewHost(WithMaxFrameSize(0))
	require.Error(t, err)
	_, err = NewHost(WithIdleTimeout(-time.Second))
	require.Error(t, err)
	_, err = NewHost(WithIdentity("not a key"))
	require.Error(t, err)
}
