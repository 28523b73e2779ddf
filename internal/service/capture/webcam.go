package capture

import (
	"context"
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// Webcam is a local camera opened through OpenCV. Frames are encoded as PNG.
type Webcam struct {
	capture *gocv.VideoCapture
	frame   gocv.Mat
}

// WebcamOpener returns a DeviceOpener for the camera with the given index.
func WebcamOpener(deviceID, width, height int) DeviceOpener {
	return func() (Device, error) {
		return OpenWebcam(deviceID, width, height)
	}
}

func OpenWebcam(deviceID, width, height int) (*Webcam, error) {
	vc, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", deviceID, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("camera %d is not available", deviceID)
	}
	if width > 0 && height > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(width))
		vc.Set(gocv.VideoCaptureFrameHeight, float64(height))
	}
	return &Webcam{capture: vc, frame: gocv.NewMat()}, nil
}

func (w *Webcam) MIME() string { return "image/png" }

// Stream reads frames until ctx is done. An empty frame ends the stream.
// A frame is PNG-encoded only when the receiver asks for it.
func (w *Webcam) Stream(ctx context.Context, deliver func(encode Encode)) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		if ok := w.capture.Read(&w.frame); !ok {
			return errors.New("camera closed")
		}
		if w.frame.Empty() {
			continue
		}

		deliver(w.encode)
	}
}

func (w *Webcam) encode() ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.PNGFileExt, w.frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	image := make([]byte, buf.Len())
	copy(image, buf.GetBytes())
	return image, nil
}

func (w *Webcam) Close() error {
	w.frame.Close()
	return w.capture.Close()
}
