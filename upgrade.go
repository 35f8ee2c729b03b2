package websocket

import (
	"bufio"
	"bytes"
	"errors"
	"net/http"
	"slices"
	"time"
)

// Upgrader specifies parameters for upgrading an HTTP connection to a
// WebSocket connection.
type Upgrader struct {
	// Subprotocols specifies the server's supported protocols in order of
	// preference.
	Subprotocols []string

	// Error specifies the function for generating HTTP error responses.
	Error func(w http.ResponseWriter, r *http.Request, status int, reason error)

	// CheckOrigin returns true if the request Origin header is acceptable.
	// If nil, a safe default rejecting cross-origin requests is used.
	CheckOrigin func(r *http.Request) bool
}

func (u *Upgrader) returnError(w http.ResponseWriter, r *http.Request, status int, reason error) {
	if u.Error != nil {
		u.Error(w, r, status, reason)
		return
	}
	http.Error(w, reason.Error(), status)
}

func (u *Upgrader) selectSubprotocol(r *http.Request) string {
	clientProtocols := Subprotocols(r)
	for _, serverProtocol := range u.Subprotocols {
		if slices.Contains(clientProtocols, serverProtocol) {
			return serverProtocol
		}
	}
	return ""
}

// Upgrade validates the client's opening handshake per RFC 6455, section
// 4.2, hijacks the HTTP connection and returns a server-role Conn carrying
// the pre-built 101 handshake reply. The reply is not written here: the
// caller sends it with SendHandshakeReply before exchanging frames.
func (u *Upgrader) Upgrade(w http.ResponseWriter, r *http.Request, responseHeader http.Header) (*Conn, error) {
	if !IsWebSocketUpgrade(r) {
		u.returnError(w, r, http.StatusBadRequest, ErrBadHandshake)
		return nil, ErrBadHandshake
	}

	if r.Method != http.MethodGet {
		u.returnError(w, r, http.StatusMethodNotAllowed, ErrBadHandshake)
		return nil, ErrBadHandshake
	}

	if r.Header.Get("Sec-WebSocket-Version") != websocketVersion {
		u.returnError(w, r, http.StatusBadRequest, errors.New("websocket: unsupported version"))
		return nil, ErrBadHandshake
	}

	checkOrigin := u.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = checkSameOrigin
	}
	if !checkOrigin(r) {
		u.returnError(w, r, http.StatusForbidden, errors.New("websocket: origin not allowed"))
		return nil, ErrBadHandshake
	}

	challengeKey := r.Header.Get("Sec-WebSocket-Key")
	if challengeKey == "" {
		u.returnError(w, r, http.StatusBadRequest, errors.New("websocket: missing Sec-WebSocket-Key"))
		return nil, ErrBadHandshake
	}

	subprotocol := u.selectSubprotocol(r)

	h, ok := w.(http.Hijacker)
	if !ok {
		u.returnError(w, r, http.StatusInternalServerError, errors.New("websocket: response does not implement http.Hijacker"))
		return nil, ErrBadHandshake
	}

	netConn, brw, err := h.Hijack()
	if err != nil {
		u.returnError(w, r, http.StatusInternalServerError, err)
		return nil, err
	}

	// The HTTP server may have armed read/write deadlines for the
	// handshake; the connection outlives them.
	_ = netConn.SetDeadline(time.Time{})

	// Build the handshake reply per RFC 6455, section 4.2.2.
	var reply bytes.Buffer
	reply.WriteString("HTTP/1.1 101 Switching Protocols\r\n")
	reply.WriteString("Upgrade: websocket\r\n")
	reply.WriteString("Connection: Upgrade\r\n")
	reply.WriteString("Sec-WebSocket-Accept: ")
	reply.WriteString(computeAcceptKey(challengeKey))
	reply.WriteString("\r\n")

	if subprotocol != "" {
		reply.WriteString("Sec-WebSocket-Protocol: ")
		reply.WriteString(subprotocol)
		reply.WriteString("\r\n")
	}

	for k, vs := range responseHeader {
		for _, v := range vs {
			reply.WriteString(k)
			reply.WriteString(": ")
			reply.WriteString(v)
			reply.WriteString("\r\n")
		}
	}

	reply.WriteString("\r\n")

	// Keep any bytes the HTTP server read ahead of the handshake.
	br := bufio.NewReader(netConn)
	if brw != nil && brw.Reader.Buffered() > 0 {
		br = brw.Reader
	}

	conn := newConn(netConn, br, false, reply.Bytes())
	conn.subprotocol = subprotocol

	return conn, nil
}

func checkSameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return equalASCIIFold(origin, "http://"+r.Host) || equalASCIIFold(origin, "https://"+r.Host)
}
