package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestNewMotionDetector(t *testing.T) {
	md := NewMotionDetector(1.0)
	if md == nil {
		t.Fatal("NewMotionDetector returned nil")
	}
	defer md.Close()

	if md.threshold != 1.0 {
		t.Errorf("threshold = %f, want 1.0", md.threshold)
	}
	if md.primed {
		t.Error("detector should not be primed before the first frame")
	}
}

func TestMotionDetector_IdenticalFrames(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	a := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer a.Close()
	b := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer b.Close()

	detected, percent := md.Detect(&a)
	if detected || percent != 0 {
		t.Errorf("priming frame reported motion (%v, %f)", detected, percent)
	}

	detected, percent = md.Detect(&b)
	if detected {
		t.Errorf("identical frames reported motion, percent = %f", percent)
	}
}

func TestMotionDetector_SceneChange(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	dark := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer dark.Close()
	bright := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer bright.Close()
	bright.SetTo(gocv.NewScalar(255, 255, 255, 0))

	md.Detect(&dark)
	detected, percent := md.Detect(&bright)
	if !detected {
		t.Errorf("dark to bright not detected, percent = %f", percent)
	}
	if percent < 50.0 {
		t.Errorf("percent = %f, want most pixels changed", percent)
	}
}

func TestMotionDetector_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	md.Detect(&frame)
	if !md.primed {
		t.Fatal("detector not primed after first frame")
	}

	md.Reset()
	if md.primed {
		t.Error("detector still primed after Reset")
	}

	// The frame after a reset primes again instead of reporting motion.
	if detected, _ := md.Detect(&frame); detected {
		t.Error("priming frame after Reset reported motion")
	}
}

func TestMotionDetector_NilAndEmptyFrames(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	if detected, percent := md.Detect(nil); detected || percent != 0 {
		t.Errorf("nil frame reported (%v, %f)", detected, percent)
	}
}

func TestMotionDetector_SetThreshold(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	md.SetThreshold(5.0)
	if md.threshold != 5.0 {
		t.Errorf("threshold = %f, want 5.0", md.threshold)
	}

	md.SetThreshold(0)
	if md.threshold != 5.0 {
		t.Errorf("threshold = %f after SetThreshold(0), want unchanged", md.threshold)
	}
}
