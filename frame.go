package websocket

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"math"
)

// Message types defined in RFC 6455, section 11.8.
const (
	ContinuationMessage = 0
	TextMessage         = 1
	BinaryMessage       = 2
	CloseMessage        = 8
	PingMessage         = 9
	PongMessage         = 10
)

// Frame header constants per RFC 6455, section 5.2.
const (
	maxFrameHeaderSize = 14 // 2 bytes base + 8 bytes extended length + 4 bytes mask

	// First byte bits.
	finalBit = 1 << 7 // FIN bit indicates final fragment

	// Second byte bits.
	maskBit = 1 << 7 // MASK bit indicates payload is masked

	// Masks and length indicators.
	opcodeMask     = 0x0f // Opcode occupies bits 0-3
	payloadLenMask = 0x7f // Payload length occupies bits 0-6
	payloadLen16   = 126  // Indicates 16-bit extended payload length follows
	payloadLen64   = 127  // Indicates 64-bit extended payload length follows
)

// randReader supplies mask keys. Replaced in tests for deterministic frames.
var randReader io.Reader = rand.Reader

// frame is one decoded wire-level unit. The payload has already been
// unmasked if it arrived masked. Frames are transient: produced by
// readFrame and consumed immediately by the dispatch loop.
type frame struct {
	fin     bool
	opcode  int
	payload []byte
}

// readExact reads exactly n bytes from the stream or fails. A stream that
// ends before delivering n bytes fails with ErrConnectionClosed; n == 0
// returns an empty slice without touching the stream.
func (c *Conn) readExact(n int64) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(c.br, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrConnectionClosed
		}
		return nil, err
	}
	return buf, nil
}

// readFrame decodes the next frame from the stream per RFC 6455, section 5.2.
// ok is false when the stream ended cleanly before the first header byte;
// any short read after that fails with ErrConnectionClosed.
func (c *Conn) readFrame() (f frame, ok bool, err error) {
	var hdr [2]byte
	if _, err := io.ReadFull(c.br, hdr[:]); err != nil {
		if err == io.EOF {
			return frame{}, false, nil
		}
		if err == io.ErrUnexpectedEOF {
			return frame{}, false, ErrConnectionClosed
		}
		return frame{}, false, err
	}

	f.fin = hdr[0]&finalBit != 0
	f.opcode = int(hdr[0] & opcodeMask)
	masked := hdr[1]&maskBit != 0
	payloadLen := int64(hdr[1] & payloadLenMask)

	switch payloadLen {
	case payloadLen16:
		ext, err := c.readExact(2)
		if err != nil {
			return frame{}, false, err
		}
		payloadLen = int64(binary.BigEndian.Uint16(ext))
	case payloadLen64:
		ext, err := c.readExact(8)
		if err != nil {
			return frame{}, false, err
		}
		// The wire allows 64-bit lengths; anything past what a signed
		// length can hold is unsatisfiable, not allocatable.
		v := binary.BigEndian.Uint64(ext)
		if v > math.MaxInt64 {
			return frame{}, false, ErrInvalidFrame
		}
		payloadLen = int64(v)
	}

	var maskKey []byte
	if masked {
		if maskKey, err = c.readExact(4); err != nil {
			return frame{}, false, err
		}
	}

	if f.payload, err = c.readExact(payloadLen); err != nil {
		return frame{}, false, err
	}
	if masked {
		maskBytes(maskKey, f.payload)
	}

	return f, true, nil
}

// encodeFrame builds the exact wire byte sequence for one frame. When
// maskOutgoing is set, a fresh 4-byte key is drawn from randReader and the
// payload is masked; the caller's payload slice is never modified.
func encodeFrame(fin bool, opcode int, payload []byte, maskOutgoing bool) []byte {
	buf := make([]byte, 2, maxFrameHeaderSize+len(payload))
	buf[0] = byte(opcode)
	if fin {
		buf[0] |= finalBit
	}

	var mb byte
	if maskOutgoing {
		mb = maskBit
	}

	switch l := len(payload); {
	case l < payloadLen16:
		buf[1] = byte(l) | mb
	case l <= 0xffff:
		buf[1] = payloadLen16 | mb
		buf = binary.BigEndian.AppendUint16(buf, uint16(l))
	default:
		buf[1] = payloadLen64 | mb
		buf = binary.BigEndian.AppendUint64(buf, uint64(l))
	}

	if maskOutgoing {
		var key [4]byte
		_, _ = io.ReadFull(randReader, key[:])
		buf = append(buf, key[:]...)

		masked := make([]byte, len(payload))
		copy(masked, payload)
		maskBytes(key[:], masked)
		payload = masked
	}

	return append(buf, payload...)
}

// writeFrame encodes one frame and writes it to the stream in a single call.
func (c *Conn) writeFrame(fin bool, opcode int, payload []byte) error {
	if c.closed {
		return ErrConnectionClosed
	}
	_, err := c.conn.Write(encodeFrame(fin, opcode, payload, c.maskOutgoing))
	return err
}
