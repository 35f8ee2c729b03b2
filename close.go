package websocket

import "encoding/binary"

// Close codes defined in RFC 6455, section 7.4.1. These are named defaults;
// SendClose accepts any code in [0, 65536).
const (
	CloseNormalClosure           = 1000
	CloseGoingAway               = 1001
	CloseProtocolError           = 1002
	CloseUnsupportedData         = 1003
	CloseNoStatusReceived        = 1005
	CloseAbnormalClosure         = 1006
	CloseInvalidFramePayloadData = 1007
	ClosePolicyViolation         = 1008
	CloseMessageTooBig           = 1009
	CloseMandatoryExtension      = 1010
	CloseInternalServerErr       = 1011
	CloseTLSHandshake            = 1015
)

// FormatCloseMessage formats closeCode and text as a close frame payload per
// RFC 6455, section 5.5.1: a 2-byte big-endian status code followed by the
// raw reason bytes.
func FormatCloseMessage(closeCode int, text string) []byte {
	buf := make([]byte, 2+len(text))
	binary.BigEndian.PutUint16(buf, uint16(closeCode))
	copy(buf[2:], text)
	return buf
}

// ParseCloseMessage extracts the status code and reason text from a close
// frame payload. A payload shorter than 2 bytes carries no status and yields
// CloseNoStatusReceived.
func ParseCloseMessage(payload []byte) (code int, text string) {
	if len(payload) < 2 {
		return CloseNoStatusReceived, ""
	}
	return int(binary.BigEndian.Uint16(payload)), string(payload[2:])
}
