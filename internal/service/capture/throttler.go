// Package capture streams frames from a camera and uploads at most one frame
// per gate period to the backend while capturing is on.
package capture

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"attendance/internal/model"
	"attendance/internal/repository"

	"github.com/google/uuid"
)

type State int

const (
	Idle State = iota
	Capturing
)

func (s State) String() string {
	if s == Capturing {
		return "capturing"
	}
	return "idle"
}

// Encode returns the encoded still of the frame being delivered. It is only
// valid until the deliver call it was passed to returns.
type Encode func() ([]byte, error)

// Device is an acquired camera. Stream calls deliver for every frame until
// ctx is cancelled or the camera fails. Close releases the camera.
type Device interface {
	Stream(ctx context.Context, deliver func(encode Encode)) error
	MIME() string
	Close() error
}

// DeviceOpener acquires the camera. It is called once per Start.
type DeviceOpener func() (Device, error)

// Uploader sends one admitted frame to the backend.
type Uploader interface {
	UploadFrame(ctx context.Context, frame model.CapturedFrame) error
}

// Sink receives upload failures and lifecycle events.
type Sink interface {
	Info(format string, v ...interface{})
	Warning(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Stats are cumulative counters since the throttler was created.
type Stats struct {
	State          string `json:"state"`
	Delivered      uint64 `json:"delivered"`
	Admitted       uint64 `json:"admitted"`
	Dropped        uint64 `json:"dropped"`
	UploadFailures uint64 `json:"upload_failures"`
}

type Options struct {
	GatePeriod time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
	// OnAdmit, if set, sees every admitted frame before its upload starts.
	OnAdmit func(frame model.CapturedFrame)
	// History, if set, records the outcome of every upload.
	History repository.UploadRepository
}

type Throttler struct {
	open     DeviceOpener
	uploader Uploader
	sink     Sink
	period   time.Duration
	now      func() time.Time
	onAdmit  func(model.CapturedFrame)
	history  repository.UploadRepository

	// transition serializes Start and Stop. It is never taken by frame delivery.
	transition sync.Mutex

	mu           sync.Mutex
	state        State
	epoch        uint64
	lastAdmitted time.Time
	hasAdmitted  bool
	mime         string
	cancel       context.CancelFunc
	done         chan struct{}

	delivered atomic.Uint64
	admitted  atomic.Uint64
	dropped   atomic.Uint64
	failed    atomic.Uint64
}

func NewThrottler(open DeviceOpener, uploader Uploader, sink Sink, opts Options) *Throttler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.GatePeriod <= 0 {
		opts.GatePeriod = time.Second
	}
	return &Throttler{
		open:     open,
		uploader: uploader,
		sink:     sink,
		period:   opts.GatePeriod,
		now:      opts.Now,
		onAdmit:  opts.OnAdmit,
		history:  opts.History,
	}
}

func (t *Throttler) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Toggle starts capturing when idle and stops it otherwise.
func (t *Throttler) Toggle() (State, error) {
	if t.State() == Capturing {
		t.Stop()
		return Idle, nil
	}
	if err := t.Start(); err != nil {
		return Idle, err
	}
	return Capturing, nil
}

// Start acquires the camera and begins streaming. Starting while already
// capturing is a no-op. If the camera cannot be acquired the state stays Idle.
func (t *Throttler) Start() error {
	t.transition.Lock()
	defer t.transition.Unlock()

	if t.State() == Capturing {
		return nil
	}

	device, err := t.open()
	if err != nil {
		t.sink.Error("Camera unavailable: %v", err)
		return fmt.Errorf("%w: %v", model.ErrDeviceUnavailable, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	t.mu.Lock()
	t.state = Capturing
	t.epoch++
	epoch := t.epoch
	t.hasAdmitted = false
	t.lastAdmitted = time.Time{}
	t.mime = device.MIME()
	t.cancel = cancel
	t.done = done
	t.mu.Unlock()

	go t.run(ctx, device, epoch, done)

	t.sink.Info("🎥 Capture started (gate %s)", t.period)
	return nil
}

// Stop returns to Idle. After Stop returns no frame of the finished session
// can be admitted and the camera has been released. Uploads already in flight
// are left to finish on their own.
func (t *Throttler) Stop() {
	t.transition.Lock()
	defer t.transition.Unlock()

	t.mu.Lock()
	if t.state == Idle {
		t.mu.Unlock()
		return
	}
	t.state = Idle
	t.epoch++
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	t.sink.Info("🛑 Capture stopped")
}

// Deliver offers a frame to the current capture session and reports whether
// it was admitted.
func (t *Throttler) Deliver(image []byte) bool {
	t.mu.Lock()
	epoch := t.epoch
	t.mu.Unlock()
	return t.deliver(epoch, func() ([]byte, error) { return image, nil })
}

// deliver applies the gate. Only admitted frames are encoded.
func (t *Throttler) deliver(epoch uint64, encode Encode) bool {
	t.delivered.Add(1)

	t.mu.Lock()
	if t.state != Capturing || t.epoch != epoch {
		t.mu.Unlock()
		t.dropped.Add(1)
		return false
	}
	now := t.now()
	if t.hasAdmitted && now.Sub(t.lastAdmitted) < t.period {
		t.mu.Unlock()
		t.dropped.Add(1)
		return false
	}
	t.lastAdmitted = now
	t.hasAdmitted = true
	mime := t.mime
	t.mu.Unlock()

	image, err := encode()
	if err != nil {
		t.dropped.Add(1)
		t.sink.Warning("Cannot encode frame: %v", err)
		return false
	}
	t.admitted.Add(1)

	frame := model.CapturedFrame{
		ID:        uuid.NewString(),
		Image:     image,
		MIME:      mime,
		Timestamp: now,
	}
	if t.onAdmit != nil {
		t.onAdmit(frame)
	}

	go t.upload(frame)
	return true
}

func (t *Throttler) upload(frame model.CapturedFrame) {
	err := t.uploader.UploadFrame(context.Background(), frame)

	record := model.UploadRecord{
		FrameID:    frame.ID,
		CapturedAt: frame.Timestamp,
		Size:       len(frame.Image),
		Status:     model.UploadSucceeded,
	}
	if err != nil {
		t.failed.Add(1)
		t.sink.Error("Frame %s upload failed: %v", frame.ID, err)
		record.Status = model.UploadFailed
		record.Error = err.Error()
	}

	if t.history != nil {
		if _, err := t.history.Insert(&record); err != nil {
			t.sink.Warning("Cannot record upload of frame %s: %v", frame.ID, err)
		}
	}
}

// run owns the device for one capture session and releases it on exit.
func (t *Throttler) run(ctx context.Context, device Device, epoch uint64, done chan struct{}) {
	defer close(done)
	defer func() {
		if err := device.Close(); err != nil {
			t.sink.Warning("Camera release failed: %v", err)
		}
	}()

	err := device.Stream(ctx, func(encode Encode) {
		t.deliver(epoch, encode)
	})
	if ctx.Err() != nil {
		return
	}

	// The stream ended without Stop: the camera failed or ran out of frames.
	if err != nil {
		t.sink.Error("Camera stream ended: %v", err)
	}
	t.mu.Lock()
	if t.epoch == epoch && t.state == Capturing {
		t.state = Idle
		t.epoch++
		t.cancel()
		t.cancel, t.done = nil, nil
	}
	t.mu.Unlock()
}

func (t *Throttler) Stats() Stats {
	return Stats{
		State:          t.State().String(),
		Delivered:      t.delivered.Load(),
		Admitted:       t.admitted.Load(),
		Dropped:        t.dropped.Load(),
		UploadFailures: t.failed.Load(),
	}
}
