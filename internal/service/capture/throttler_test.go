package capture

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"attendance/internal/logger"
	"attendance/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(offset time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC).Add(offset)
}

// fakeDevice hands control of frame delivery to the test.
type fakeDevice struct {
	deliver chan func(encode Encode)
	closed  chan struct{}
	once    sync.Once
	failOn  error
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{deliver: make(chan func(Encode), 1), closed: make(chan struct{})}
}

func (d *fakeDevice) MIME() string { return "image/png" }

func (d *fakeDevice) Stream(ctx context.Context, deliver func(encode Encode)) error {
	d.deliver <- deliver
	select {
	case <-ctx.Done():
		return nil
	case <-d.closed:
		return d.failOn
	}
}

func (d *fakeDevice) Close() error {
	d.once.Do(func() { close(d.closed) })
	return nil
}

func (d *fakeDevice) isClosed() bool {
	select {
	case <-d.closed:
		return true
	default:
		return false
	}
}

type fakeUploader struct {
	frames chan model.CapturedFrame
	err    error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{frames: make(chan model.CapturedFrame, 100)}
}

func (u *fakeUploader) UploadFrame(_ context.Context, frame model.CapturedFrame) error {
	u.frames <- frame
	return u.err
}

func (u *fakeUploader) collect(t *testing.T, n int) []model.CapturedFrame {
	t.Helper()

	var out []model.CapturedFrame
	for len(out) < n {
		select {
		case f := <-u.frames:
			out = append(out, f)
		case <-time.After(2 * time.Second):
			t.Fatalf("expected %d uploads, got %d", n, len(out))
		}
	}
	return out
}

func newThrottler(t *testing.T, devices ...*fakeDevice) (*Throttler, *fakeUploader, *fakeClock) {
	t.Helper()

	clock := newFakeClock()
	uploader := newFakeUploader()
	next := 0
	open := func() (Device, error) {
		if next >= len(devices) {
			return nil, errors.New("no camera")
		}
		d := devices[next]
		next++
		return d, nil
	}
	th := NewThrottler(open, uploader, logger.NewDiscard(), Options{GatePeriod: time.Second, Now: clock.Now})
	t.Cleanup(th.Stop)
	return th, uploader, clock
}

// streamOf returns a deliver func for raw stills of the device's stream.
func streamOf(t *testing.T, d *fakeDevice) func([]byte) {
	t.Helper()

	deliver := encodedStreamOf(t, d)
	return func(image []byte) {
		deliver(func() ([]byte, error) { return image, nil })
	}
}

func encodedStreamOf(t *testing.T, d *fakeDevice) func(Encode) {
	t.Helper()

	select {
	case fn := <-d.deliver:
		return fn
	case <-time.After(2 * time.Second):
		t.Fatal("device was never streamed")
		return nil
	}
}

func TestThrottler_GateAdmitsFirstFrameThenOnePerPeriod(t *testing.T) {
	device := newFakeDevice()
	th, uploader, clock := newThrottler(t, device)

	require.NoError(t, th.Start())
	deliver := streamOf(t, device)

	for _, ms := range []int{0, 400, 1100} {
		clock.Set(time.Duration(ms) * time.Millisecond)
		deliver([]byte{byte(ms / 100)})
	}

	frames := uploader.collect(t, 2)
	stamps := []time.Duration{
		frames[0].Timestamp.Sub(newFakeClock().now),
		frames[1].Timestamp.Sub(newFakeClock().now),
	}
	assert.ElementsMatch(t, []time.Duration{0, 1100 * time.Millisecond}, stamps)

	stats := th.Stats()
	assert.Equal(t, uint64(3), stats.Delivered)
	assert.Equal(t, uint64(2), stats.Admitted)
	assert.Equal(t, uint64(1), stats.Dropped)
}

func TestThrottler_ExactPeriodBoundaryIsAdmitted(t *testing.T) {
	device := newFakeDevice()
	th, _, clock := newThrottler(t, device)
	require.NoError(t, th.Start())
	streamOf(t, device)

	clock.Set(0)
	assert.True(t, th.Deliver([]byte{1}))
	clock.Set(999 * time.Millisecond)
	assert.False(t, th.Deliver([]byte{2}))
	clock.Set(time.Second)
	assert.True(t, th.Deliver([]byte{3}))
}

func TestThrottler_WindowBound(t *testing.T) {
	device := newFakeDevice()
	th, _, clock := newThrottler(t, device)
	require.NoError(t, th.Start())
	streamOf(t, device)

	// 30 fps for 3.5s with a 1s gate admits ceil(3.5/1) = 4 frames.
	admitted := 0
	for i := 0; i < 105; i++ {
		clock.Set(time.Duration(i) * time.Second / 30)
		if th.Deliver([]byte{1}) {
			admitted++
		}
	}
	assert.Equal(t, 4, admitted)
}

func TestThrottler_ReentryResetsClock(t *testing.T) {
	first, second := newFakeDevice(), newFakeDevice()
	th, uploader, clock := newThrottler(t, first, second)

	require.NoError(t, th.Start())
	streamOf(t, first)
	clock.Set(0)
	require.True(t, th.Deliver([]byte{1}))

	th.Stop()
	assert.True(t, first.isClosed())

	require.NoError(t, th.Start())
	streamOf(t, second)
	clock.Set(100 * time.Millisecond)
	assert.True(t, th.Deliver([]byte{2}))

	uploader.collect(t, 2)
}

func TestThrottler_DeviceUnavailable(t *testing.T) {
	th, _, _ := newThrottler(t)

	err := th.Start()
	assert.ErrorIs(t, err, model.ErrDeviceUnavailable)
	assert.Equal(t, Idle, th.State())

	state, err := th.Toggle()
	assert.Error(t, err)
	assert.Equal(t, Idle, state)
}

func TestThrottler_FrameAfterStopIsDropped(t *testing.T) {
	device := newFakeDevice()
	th, uploader, clock := newThrottler(t, device)
	require.NoError(t, th.Start())
	deliver := streamOf(t, device)

	th.Stop()
	assert.Equal(t, Idle, th.State())
	assert.True(t, device.isClosed())

	clock.Set(5 * time.Second)
	deliver([]byte{1})
	assert.False(t, th.Deliver([]byte{2}))

	select {
	case <-uploader.frames:
		t.Fatal("no frame should be uploaded after stop")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestThrottler_Toggle(t *testing.T) {
	device := newFakeDevice()
	th, _, _ := newThrottler(t, device)

	state, err := th.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Capturing, state)
	streamOf(t, device)

	state, err = th.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Idle, state)
	assert.True(t, device.isClosed())
}

func TestThrottler_StreamFailureReturnsToIdle(t *testing.T) {
	device := newFakeDevice()
	device.failOn = errors.New("unplugged")
	th, _, _ := newThrottler(t, device)
	require.NoError(t, th.Start())
	streamOf(t, device)

	device.Close()

	assert.Eventually(t, func() bool { return th.State() == Idle }, 2*time.Second, 10*time.Millisecond)
	assert.False(t, th.Deliver([]byte{1}))
}

func TestThrottler_UploadFailureIsCountedOnly(t *testing.T) {
	device := newFakeDevice()
	th, uploader, _ := newThrottler(t, device)
	uploader.err = errors.New("status 500")
	require.NoError(t, th.Start())
	streamOf(t, device)

	require.True(t, th.Deliver([]byte{1}))
	uploader.collect(t, 1)

	assert.Eventually(t, func() bool { return th.Stats().UploadFailures == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, Capturing, th.State())
}

func TestThrottler_OnAdmitSeesAdmittedFrames(t *testing.T) {
	device := newFakeDevice()
	var mu sync.Mutex
	var seen []string

	clock := newFakeClock()
	th := NewThrottler(func() (Device, error) { return device, nil }, newFakeUploader(), logger.NewDiscard(), Options{
		GatePeriod: time.Second,
		Now:        clock.Now,
		OnAdmit: func(f model.CapturedFrame) {
			mu.Lock()
			seen = append(seen, f.MIME)
			mu.Unlock()
		},
	})
	defer th.Stop()

	require.NoError(t, th.Start())
	streamOf(t, device)
	th.Deliver([]byte{1})
	th.Deliver([]byte{2})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"image/png"}, seen)
}

func TestThrottler_OnlyAdmittedFramesAreEncoded(t *testing.T) {
	device := newFakeDevice()
	th, uploader, clock := newThrottler(t, device)
	require.NoError(t, th.Start())
	deliver := encodedStreamOf(t, device)

	encoded := 0
	encode := func() ([]byte, error) {
		encoded++
		return []byte{byte(encoded)}, nil
	}

	// 30 fps for three seconds
	for i := 0; i < 90; i++ {
		clock.Set(time.Duration(i) * time.Second / 30)
		deliver(encode)
	}

	uploader.collect(t, 3)
	assert.Equal(t, 3, encoded)
	assert.Equal(t, uint64(3), th.Stats().Admitted)
	assert.Equal(t, uint64(87), th.Stats().Dropped)
}

func TestThrottler_EncodeFailureIsDropped(t *testing.T) {
	device := newFakeDevice()
	th, uploader, _ := newThrottler(t, device)
	require.NoError(t, th.Start())
	deliver := encodedStreamOf(t, device)

	deliver(func() ([]byte, error) { return nil, errors.New("bad frame") })

	stats := th.Stats()
	assert.Zero(t, stats.Admitted)
	assert.Equal(t, uint64(1), stats.Dropped)
	select {
	case <-uploader.frames:
		t.Fatal("a frame that failed to encode must not be uploaded")
	case <-time.After(50 * time.Millisecond):
	}
}
