package websocket

import (
	"bufio"
	"errors"
	"io"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Errors returned by the websocket package.
var (
	ErrConnectionClosed   = errors.New("websocket: connection closed")
	ErrInvalidFrame       = errors.New("websocket: invalid frame")
	ErrInvalidCloseCode   = errors.New("websocket: invalid close code")
	ErrInvalidMessageType = errors.New("websocket: invalid message type")
	ErrBadHandshake       = errors.New("websocket: bad handshake")
)

// Conn is one endpoint of a WebSocket connection over an established byte
// stream. It owns the stream exclusively: no other component reads or writes
// it directly. A Conn supports no concurrent calls; the caller serializes
// access to the send and receive paths.
type Conn struct {
	conn net.Conn
	br   *bufio.Reader

	id             string
	subprotocol    string
	maskOutgoing   bool
	handshakeReply []byte
	closed         bool
	logger         zerolog.Logger
}

// NewConn wraps an established stream. maskOutgoing selects the masking
// role: true for the client side, which must mask every frame it sends,
// false for the server side. handshakeReply, if non-nil, is a pre-built
// handshake response written verbatim by SendHandshakeReply.
func NewConn(conn net.Conn, maskOutgoing bool, handshakeReply []byte) *Conn {
	return newConn(conn, bufio.NewReader(conn), maskOutgoing, handshakeReply)
}

func newConn(conn net.Conn, br *bufio.Reader, maskOutgoing bool, handshakeReply []byte) *Conn {
	return &Conn{
		conn:           conn,
		br:             br,
		id:             uuid.NewString(),
		maskOutgoing:   maskOutgoing,
		handshakeReply: handshakeReply,
		logger:         zerolog.Nop(),
	}
}

// ID returns the connection's unique identifier.
func (c *Conn) ID() string {
	return c.id
}

// Subprotocol returns the negotiated subprotocol for the connection.
func (c *Conn) Subprotocol() string {
	return c.subprotocol
}

// SetLogger installs the logger used for send-boundary failures. The
// connection ID is added to the logger context.
func (c *Conn) SetLogger(l zerolog.Logger) {
	c.logger = l.With().Str("conn_id", c.id).Logger()
}

// LocalAddr returns the local network address.
func (c *Conn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// RemoteAddr returns the remote network address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// UnderlyingConn returns the raw stream the connection owns.
func (c *Conn) UnderlyingConn() net.Conn {
	return c.conn
}

// SendHandshakeReply writes the pre-built handshake response, if any, to the
// stream. The reply is sent at most once; constructing the connection
// without one makes this a no-op.
func (c *Conn) SendHandshakeReply() error {
	if len(c.handshakeReply) == 0 {
		return nil
	}
	if c.closed {
		return ErrConnectionClosed
	}
	_, err := c.conn.Write(c.handshakeReply)
	c.handshakeReply = nil
	return err
}

// Send transmits message as a single text frame. A write failure is logged,
// closes the connection and is not surfaced to the caller; check Closed to
// observe it.
func (c *Conn) Send(message string) {
	c.sendData(TextMessage, []byte(message))
}

// SendBinary transmits data as a single binary frame, with the same failure
// policy as Send.
func (c *Conn) SendBinary(data []byte) {
	c.sendData(BinaryMessage, data)
}

// Ping sends a ping control frame.
func (c *Conn) Ping(payload []byte) {
	c.sendData(PingMessage, payload)
}

// Pong sends a pong control frame.
func (c *Conn) Pong(payload []byte) {
	c.sendData(PongMessage, payload)
}

// SendClose sends a close frame carrying status and reason. status must be
// in [0, 65536); out-of-range values fail with ErrInvalidCloseCode. A write
// failure follows the same policy as Send.
func (c *Conn) SendClose(status int, reason string) error {
	if status < 0 || status >= 1<<16 {
		return ErrInvalidCloseCode
	}
	c.sendData(CloseMessage, FormatCloseMessage(status, reason))
	return nil
}

// sendData is the public send boundary: a write failure terminates the
// connection instead of propagating.
func (c *Conn) sendData(opcode int, payload []byte) {
	if c.closed {
		return
	}
	if err := c.writeFrame(true, opcode, payload); err != nil {
		c.logger.Error().Err(err).Int("opcode", opcode).Msg("write failed, closing connection")
		_ = c.Close()
	}
}

// ReceiveMessage blocks until the next application-visible message arrives
// and returns its opcode and payload. Ping frames are answered with a pong
// and consumed. A close frame closes the connection and yields
// (CloseMessage, nil, nil). Every text or binary frame is delivered as a
// complete message; continuation frames are not reassembled.
func (c *Conn) ReceiveMessage() (int, []byte, error) {
	for {
		if c.closed {
			return 0, nil, ErrConnectionClosed
		}

		f, ok, err := c.readFrame()
		if err != nil {
			return 0, nil, err
		}
		if !ok {
			// Stream end between frames is not a legitimate "no message"
			// signal at this layer.
			return 0, nil, ErrInvalidFrame
		}

		switch f.opcode {
		case TextMessage, BinaryMessage:
			return f.opcode, f.payload, nil
		case CloseMessage:
			if err := c.Close(); err != nil {
				return CloseMessage, nil, err
			}
			return CloseMessage, nil, nil
		case PingMessage:
			c.Pong(f.payload)
		default:
			// Pong, continuation and reserved opcodes carry nothing this
			// core delivers; keep reading.
		}
	}
}

// Recv returns the payload of the next message, discarding its opcode.
func (c *Conn) Recv() ([]byte, error) {
	_, payload, err := c.ReceiveMessage()
	return payload, err
}

// CanReceive reports whether a read would find data within timeout. It is a
// readiness poll only: it cannot cancel or time out a read already in
// progress. An interrupted wait reports not ready rather than failing; a
// stream that has ended reports ready, since the next decode observes the
// end directly.
func (c *Conn) CanReceive(timeout time.Duration) (bool, error) {
	if c.closed {
		return false, ErrConnectionClosed
	}
	if c.br.Buffered() > 0 {
		return true, nil
	}

	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return false, err
	}
	_, err := c.br.Peek(1)
	if derr := c.conn.SetReadDeadline(time.Time{}); derr != nil && err == nil {
		return false, derr
	}

	switch {
	case err == nil:
		return true, nil
	case os.IsTimeout(err):
		return false, nil
	case errors.Is(err, syscall.EINTR):
		return false, nil
	case err == io.EOF:
		return true, nil
	default:
		return false, err
	}
}

// Close marks the connection closed and releases the underlying stream.
// Only the first call releases the stream; later calls are no-ops.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// Closed reports whether the connection has been closed.
func (c *Conn) Closed() bool {
	return c.closed
}
