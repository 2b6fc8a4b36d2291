package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface. It
// returns a scripted sequence of hand frames, or a fixed frame when no
// sequence is set.
type MockDetector struct {
	hands [][]Hand
	next  int
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets a single frame of hands returned by every Detect call.
func (m *MockDetector) SetHands(hands []Hand) {
	m.hands = [][]Hand{hands}
	m.next = 0
}

// SetSequence sets a sequence of frames; Detect returns them in order and
// repeats the last one once the sequence is exhausted.
func (m *MockDetector) SetSequence(frames [][]Hand) {
	m.hands = frames
	m.next = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.hands) == 0 {
		return nil, nil
	}
	hands := m.hands[m.next]
	if m.next < len(m.hands)-1 {
		m.next++
	}
	return hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// HandWithFingertip returns a Hand whose given fingertip sits at the
// normalized position (x, y), with the rest of the hand arranged above it.
// Convenient for driving the trigger engine in tests.
func HandWithFingertip(f Fingertip, x, y float64) Hand {
	h := Hand{Handedness: "Right", Score: 0.95}

	// Park every landmark well below the view, then place the wrist under
	// the fingertip and the requested tip at the target. Parked fingertips
	// land outside any sane key layout, so they never assert keys.
	for i := range h.Points {
		h.Points[i] = Point3D{X: x, Y: y + 0.7}
	}
	h.Points[Wrist] = Point3D{X: x, Y: y + 0.75}
	h.Points[f.LandmarkIndex()] = Point3D{X: x, Y: y}
	return h
}

// HandWithFingertips returns a Hand with several fingertips placed at
// normalized positions. Unlisted fingertips are parked below the hand.
func HandWithFingertips(tips map[Fingertip]Point3D) Hand {
	h := HandWithFingertip(FingertipIndex, 0.5, 1.2)
	for f, p := range tips {
		h.Points[f.LandmarkIndex()] = p
	}
	return h
}
