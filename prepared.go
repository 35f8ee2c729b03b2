package websocket

import "sync"

// PreparedMessage caches the wire bytes of a single-frame message so one
// payload can be broadcast to many connections without re-encoding. A frame
// is built lazily per masking role the first time a connection of that role
// sends it.
type PreparedMessage struct {
	opcode int
	data   []byte

	mu     sync.Mutex
	frames map[bool][]byte // keyed by masking role
}

// NewPreparedMessage returns an initialized PreparedMessage for a text or
// binary payload.
func NewPreparedMessage(opcode int, data []byte) (*PreparedMessage, error) {
	if opcode != TextMessage && opcode != BinaryMessage {
		return nil, ErrInvalidMessageType
	}

	return &PreparedMessage{
		opcode: opcode,
		data:   data,
		frames: make(map[bool][]byte),
	}, nil
}

func (pm *PreparedMessage) frame(maskOutgoing bool) []byte {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if f, ok := pm.frames[maskOutgoing]; ok {
		return f
	}

	f := encodeFrame(true, pm.opcode, pm.data, maskOutgoing)
	pm.frames[maskOutgoing] = f
	return f
}

// SendPrepared writes the cached frame matching this connection's masking
// role, with the same failure policy as Send.
func (c *Conn) SendPrepared(pm *PreparedMessage) {
	if c.closed {
		return
	}
	if _, err := c.conn.Write(pm.frame(c.maskOutgoing)); err != nil {
		c.logger.Error().Err(err).Int("opcode", pm.opcode).Msg("write failed, closing connection")
		_ = c.Close()
	}
}
