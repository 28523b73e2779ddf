package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

var (
	jpegHeader = []byte{0xFF, 0xD8}
	jpegFooter = []byte{0xFF, 0xD9}
)

// UDPCamera receives JPEG frames split over UDP datagrams by a network camera.
// A datagram starting with the JPEG SOI marker begins a frame and one ending
// with the EOI marker completes it.
type UDPCamera struct {
	conn *net.UDPConn
}

// UDPCameraOpener returns a DeviceOpener listening on addr (e.g. ":5005").
func UDPCameraOpener(addr string) DeviceOpener {
	return func() (Device, error) {
		return ListenUDPCamera(addr)
	}
}

func ListenUDPCamera(addr string) (*UDPCamera, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return &UDPCamera{conn: conn}, nil
}

func (c *UDPCamera) Addr() net.Addr { return c.conn.LocalAddr() }

func (c *UDPCamera) MIME() string { return "image/jpeg" }

func (c *UDPCamera) Stream(ctx context.Context, deliver func(encode Encode)) error {
	buffer := make([]byte, 65535)
	var frame bytes.Buffer

	for {
		if ctx.Err() != nil {
			return nil
		}

		c.conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, _, err := c.conn.ReadFromUDP(buffer)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read udp: %w", err)
		}

		data := buffer[:n]
		if bytes.HasPrefix(data, jpegHeader) {
			frame.Reset()
		}
		frame.Write(data)

		if bytes.HasSuffix(data, jpegFooter) {
			deliver(func() ([]byte, error) {
				image := make([]byte, frame.Len())
				copy(image, frame.Bytes())
				return image, nil
			})
			frame.Reset()
		}
	}
}

func (c *UDPCamera) Close() error {
	return c.conn.Close()
}
