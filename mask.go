package websocket

// maskBytes XORs data in place with the 4-byte key per RFC 6455, section 5.3.
// The operation is its own inverse: applying it twice with the same key
// restores the original bytes, so it serves both masking outgoing payloads
// and unmasking incoming ones.
func maskBytes(key, data []byte) {
	for i := range data {
		data[i] ^= key[i%4]
	}
}
