package host

import (
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
)

// Every request and response is one frame: a 4-byte big-endian length
// followed by the payload.
const frameHeaderSize = 4

// writeFrame writes buf as a single frame and returns the bytes written.
func writeFrame(w io.Writer, buf []byte) (int, error) {
	frame := make([]byte, frameHeaderSize+len(buf))
	binary.BigEndian.PutUint32(frame, uint32(len(buf)))
	copy(frame[frameHeaderSize:], buf)
	return w.Write(frame)
}

// readFrame reads one frame no larger than maxSize.
func readFrame(r io.Reader, maxSize int) ([]byte, error) {
	var header [frameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(header[:])
	if uint64(length) > uint64(maxSize) {
		return nil, errors.Newf("host: frame of %d bytes exceeds limit %d", length, maxSize)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// readLastFrame reads a frame that must be followed by the end of the
// stream. Consuming the end lets the transport release the stream.
func readLastFrame(r io.Reader, maxSize int) ([]byte, error) {
	buf, err := readFrame(r, maxSize)
	if err != nil {
		return nil, err
	}
	var extra [1]byte
	n, err := io.ReadFull(r, extra[:])
	if n > 0 {
		return nil, errors.New("host: trailing data after frame")
	}
	if err != io.EOF {
		return nil, err
	}
	return buf, nil
}
