package websocket

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"io"
	"net/http"
	"strings"
)

// WebSocket handshake constants per RFC 6455.
const (
	// websocketGUID is the globally unique identifier for the WebSocket
	// handshake per RFC 6455, section 4.2.2, item 5.4.
	websocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

	// websocketVersion is the protocol version per RFC 6455, section 4.2.1, item 6.
	websocketVersion = "13"
)

// computeAcceptKey computes the Sec-WebSocket-Accept value per RFC 6455,
// section 4.2.2, item 5.4: the base64-encoded SHA-1 hash of the challenge
// key concatenated with the GUID.
func computeAcceptKey(challengeKey string) string {
	h := sha1.New()
	h.Write([]byte(challengeKey))
	h.Write([]byte(websocketGUID))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// generateChallengeKey generates a 16-byte random key encoded in base64 per
// RFC 6455, section 4.1.
func generateChallengeKey() string {
	key := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(key)
}

// IsWebSocketUpgrade returns true if the client sent a WebSocket upgrade
// request per RFC 6455, section 4.2.1, items 1 and 2.
func IsWebSocketUpgrade(r *http.Request) bool {
	return headerContainsToken(r.Header, "Connection", "upgrade") &&
		headerContainsToken(r.Header, "Upgrade", "websocket")
}

// Subprotocols returns the subprotocols requested by the client in the
// Sec-WebSocket-Protocol header per RFC 6455, section 11.3.4.
func Subprotocols(r *http.Request) []string {
	h := r.Header.Values("Sec-WebSocket-Protocol")
	if len(h) == 0 {
		return nil
	}
	var protocols []string
	for _, s := range h {
		for _, p := range strings.Split(s, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				protocols = append(protocols, p)
			}
		}
	}
	return protocols
}

// headerContainsToken checks if a header contains a specific token
// (case-insensitive). Tokens may be comma-separated, as in
// "Connection: keep-alive, Upgrade".
func headerContainsToken(h http.Header, name, token string) bool {
	for _, v := range h.Values(name) {
		for _, t := range strings.Split(v, ",") {
			if equalASCIIFold(strings.TrimSpace(t), token) {
				return true
			}
		}
	}
	return false
}

func equalASCIIFold(s, t string) bool {
	if len(s) != len(t) {
		return false
	}
	for i := 0; i < len(s); i++ {
		sr := s[i]
		tr := t[i]
		if sr >= 'A' && sr <= 'Z' {
			sr = sr + 'a' - 'A'
		}
		if tr >= 'A' && tr <= 'Z' {
			tr = tr + 'a' - 'A'
		}
		if sr != tr {
			return false
		}
	}
	return true
}
