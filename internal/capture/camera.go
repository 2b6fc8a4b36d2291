// Package capture provides camera capture and motion sensing using GoCV
// (OpenCV). The frame loop polls ReadFrame and feeds the hand detector; the
// motion detector lets the loop drop to an idle rate when nothing moves.
package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// Capture defaults. 640x480 keeps hand detection fast enough for an
// interactive instrument on laptop hardware.
const (
	DefaultWidth  = 640
	DefaultHeight = 480
	DefaultFPS    = 15
)

// ErrCameraNotOpen is returned when reading from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// Camera is the frame source driving the play loop.
type Camera interface {
	Open() error
	Close() error
	// ReadFrame returns the next frame. The caller owns the Mat and must
	// close it.
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	Resolution() (width, height int)
	IsOpen() bool
}

// cameraImpl captures from a local video device using GoCV. Frames are
// mirrored horizontally so the on-screen keys line up with the player's
// hands, the way a webcam preview does.
type cameraImpl struct {
	deviceID int
	width    int
	height   int
	mirror   bool

	mu      sync.Mutex
	capture *gocv.VideoCapture
	open    bool
	fps     int
}

// Options configures a camera. Zero values fall back to the defaults.
type Options struct {
	DeviceID int
	Width    int
	Height   int
	FPS      int
	// Mirror flips frames horizontally. On by default for front-facing
	// play; NewCamera honors the explicit value.
	Mirror bool
}

// NewCamera creates a Camera for the given options.
func NewCamera(opts Options) Camera {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}
	return &cameraImpl{
		deviceID: opts.DeviceID,
		width:    opts.Width,
		height:   opts.Height,
		mirror:   opts.Mirror,
		fps:      opts.FPS,
	}
}

// Open opens the device and applies the configured resolution and rate.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return err
	}
	capture.Set(gocv.VideoCaptureFrameWidth, float64(c.width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(c.height))
	capture.Set(gocv.VideoCaptureFPS, float64(c.fps))

	c.capture = capture
	c.open = true
	return nil
}

// Close releases the device.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open || c.capture == nil {
		c.open = false
		return nil
	}
	err := c.capture.Close()
	c.capture = nil
	c.open = false
	return err
}

// ReadFrame grabs the next frame, mirrored when configured. The caller is
// responsible for closing the returned Mat.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}
	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}

	if c.mirror {
		gocv.Flip(mat, &mat, 1)
	}
	return &mat, nil
}

// SetFPS changes the capture rate. Non-positive values are ignored. The play
// loop uses this to drop to an idle rate when no motion is detected.
func (c *cameraImpl) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fps = fps
	if c.capture != nil {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the current capture rate.
func (c *cameraImpl) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

// Resolution returns the configured frame size.
func (c *cameraImpl) Resolution() (int, int) {
	return c.width, c.height
}

// IsOpen reports whether the device is open.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}
