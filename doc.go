// Package websocket implements the wire-level framing protocol defined in
// RFC 6455, section 5, for a message-oriented channel over an established
// byte stream.
//
// The package encodes application messages into discrete frames, decodes
// received bytes back into messages, and handles the protocol's control
// signals: ping frames are answered with a pong automatically, and a close
// frame terminates the connection. Companion helpers perform the opening
// handshake on both sides (Upgrader for servers, Dialer for clients), but
// the core works with any established net.Conn and a masking-role flag.
//
// Server Example:
//
//	var upgrader = websocket.Upgrader{}
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    conn, err := upgrader.Upgrade(w, r, nil)
//	    if err != nil {
//	        return
//	    }
//	    defer conn.Close()
//
//	    if err := conn.SendHandshakeReply(); err != nil {
//	        return
//	    }
//	    for {
//	        opcode, p, err := conn.ReceiveMessage()
//	        if err != nil || opcode == websocket.CloseMessage {
//	            return
//	        }
//	        conn.SendBinary(p)
//	    }
//	}
//
// Client Example:
//
//	conn, _, err := websocket.DefaultDialer.Dial("ws://localhost:8080/ws", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
//
//	conn.Send("hello")
//	reply, err := conn.Recv()
//
// Concurrency:
//
// The core is synchronous. All reads and writes are blocking calls against
// one stream; ReceiveMessage blocks the calling goroutine until a complete
// application frame is decoded or an error occurs. A Conn supports no
// concurrent calls: the caller serializes access, for example with one
// goroutine driving receives and a mutex around the send path.
//
// Write failures:
//
// An I/O error during Send, SendBinary, Ping, Pong or SendPrepared is logged
// on the connection's logger and closes the connection instead of
// propagating to the caller. Decode-time and read-time errors are returned
// as-is; the package never retries or reconnects.
//
// Fragmentation:
//
// Each received text or binary frame is surfaced as a complete message
// regardless of its FIN bit. Continuation frames are not reassembled; this
// is a known limitation of the protocol core.
package websocket
