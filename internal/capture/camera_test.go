package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestNewCamera_Defaults(t *testing.T) {
	c := NewCamera(Options{DeviceID: 0})

	if c.FPS() != DefaultFPS {
		t.Errorf("FPS() = %d, want %d", c.FPS(), DefaultFPS)
	}
	w, h := c.Resolution()
	if w != DefaultWidth || h != DefaultHeight {
		t.Errorf("Resolution() = %dx%d, want %dx%d", w, h, DefaultWidth, DefaultHeight)
	}
	if c.IsOpen() {
		t.Error("camera reports open before Open()")
	}
}

func TestCamera_ReadBeforeOpen(t *testing.T) {
	c := NewCamera(Options{DeviceID: 0})

	if _, err := c.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestCamera_SetFPS(t *testing.T) {
	c := NewCamera(Options{DeviceID: 0, FPS: 15})

	c.SetFPS(5)
	if c.FPS() != 5 {
		t.Errorf("FPS() = %d, want 5", c.FPS())
	}

	c.SetFPS(0)
	if c.FPS() != 5 {
		t.Errorf("FPS() = %d after SetFPS(0), want unchanged", c.FPS())
	}
}

func TestMockCamera_Playback(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	a := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
	defer a.Close()
	b := gocv.NewMatWithSize(20, 20, gocv.MatTypeCV8UC3)
	defer b.Close()

	c := NewMockCamera([]*gocv.Mat{&a, &b}, false)
	if _, err := c.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Fatalf("ReadFrame() before Open error = %v, want ErrCameraNotOpen", err)
	}

	if err := c.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	first, err := c.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	defer first.Close()
	if first.Rows() != 10 {
		t.Errorf("first frame rows = %d, want 10", first.Rows())
	}

	second, err := c.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	defer second.Close()
	if second.Rows() != 20 {
		t.Errorf("second frame rows = %d, want 20", second.Rows())
	}

	// Sequence exhausted without looping.
	if _, err := c.ReadFrame(); err == nil {
		t.Error("ReadFrame() after last frame succeeded, want error")
	}

	c.Rewind()
	third, err := c.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() after Rewind error = %v", err)
	}
	defer third.Close()
	if third.Rows() != 10 {
		t.Errorf("frame after Rewind rows = %d, want 10", third.Rows())
	}
}

func TestMockCamera_Loop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	a := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
	defer a.Close()

	c := NewMockCamera([]*gocv.Mat{&a}, true)
	if err := c.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		f, err := c.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() #%d error = %v", i, err)
		}
		f.Close()
	}
}
