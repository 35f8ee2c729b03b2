package websocket

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskBytes(t *testing.T) {
	t.Run("Known vector", func(t *testing.T) {
		data := []byte("hello")
		key := []byte{0x12, 0x34, 0x56, 0x78}

		maskBytes(key, data)
		assert.Equal(t, []byte{'h' ^ 0x12, 'e' ^ 0x34, 'l' ^ 0x56, 'l' ^ 0x78, 'o' ^ 0x12}, data)
	})

	t.Run("Own inverse", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))

		for i := 0; i < 50; i++ {
			key := make([]byte, 4)
			rng.Read(key)

			data := make([]byte, rng.Intn(512))
			rng.Read(data)
			original := append([]byte(nil), data...)

			maskBytes(key, data)
			maskBytes(key, data)
			require.Equal(t, original, data)
		}
	})

	t.Run("Empty data", func(t *testing.T) {
		assert.NotPanics(t, func() {
			maskBytes([]byte{1, 2, 3, 4}, nil)
		})
	})

	t.Run("Key wraps every four bytes", func(t *testing.T) {
		data := make([]byte, 8)
		key := []byte{0xaa, 0xbb, 0xcc, 0xdd}

		maskBytes(key, data)
		assert.Equal(t, data[:4], data[4:])
	})
}
