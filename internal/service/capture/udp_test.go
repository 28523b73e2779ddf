package capture

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUDPCamera_ReassemblesJPEGFrames(t *testing.T) {
	cam, err := ListenUDPCamera("127.0.0.1:0")
	require.NoError(t, err)
	defer cam.Close()

	frames := make(chan []byte, 2)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- cam.Stream(ctx, func(encode Encode) {
			image, err := encode()
			if err == nil {
				frames <- image
			}
		})
	}()

	conn, err := net.Dial("udp", cam.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	// a stray tail is discarded once the next frame starts
	parts := [][]byte{
		{0x01, 0x02},
		{0xFF, 0xD8, 0x10},
		{0x11, 0x12},
		{0x13, 0xFF, 0xD9},
	}
	for _, p := range parts {
		_, err := conn.Write(p)
		require.NoError(t, err)
	}

	select {
	case image := <-frames:
		assert.Equal(t, []byte{0xFF, 0xD8, 0x10, 0x11, 0x12, 0x13, 0xFF, 0xD9}, image)
	case <-time.After(2 * time.Second):
		t.Fatal("frame not delivered")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop")
	}
}
