package layout

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestDetectPaper_EmptyImage(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()

	if _, err := DetectPaper(&empty, 4); err == nil {
		t.Error("expected error for empty image")
	}
	if _, err := DetectPaper(nil, 4); err == nil {
		t.Error("expected error for nil image")
	}
}

func TestDetectPaper_BlankImage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test")
	}

	// A uniform image has no contours of key-like size.
	blank := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer blank.Close()

	_, err := DetectPaper(&blank, 4)
	if !errors.Is(err, ErrNoKeysFound) {
		t.Errorf("err = %v, want ErrNoKeysFound", err)
	}
}
