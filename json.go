package websocket

import "encoding/json"

// SendJSON sends the JSON encoding of v as a text message. Encoding errors
// are returned; a write failure follows the Send policy.
func (c *Conn) SendJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.sendData(TextMessage, data)
	return nil
}

// ReceiveJSON reads the next message from the connection and stores the
// decoded value in v. A close frame surfaces as ErrConnectionClosed.
func (c *Conn) ReceiveJSON(v any) error {
	opcode, payload, err := c.ReceiveMessage()
	if err != nil {
		return err
	}
	if opcode == CloseMessage {
		return ErrConnectionClosed
	}
	return json.Unmarshal(payload, v)
}
