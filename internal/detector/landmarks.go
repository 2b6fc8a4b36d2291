// Package detector provides hand tracking interfaces and landmark types for
// the Veena camera piano.
package detector

// Hand landmark indices following the MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a tracked point in normalized [0,1] image coordinates. Z is the
// tracker's relative depth estimate and is not used for hit-testing.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand is one detected hand: the 21 MediaPipe landmarks plus metadata.
// Hands are indexed positionally within a frame; no persistent identity
// across re-detections is assumed.
type Hand struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Fingertip identifies one of the five tracked fingertips of a hand.
type Fingertip int

const (
	FingertipThumb Fingertip = iota
	FingertipIndex
	FingertipMiddle
	FingertipRing
	FingertipPinky
	NumFingertips
)

// fingertipLandmarks maps each Fingertip to its landmark index.
var fingertipLandmarks = [NumFingertips]int{
	FingertipThumb:  ThumbTip,
	FingertipIndex:  IndexTip,
	FingertipMiddle: MiddleTip,
	FingertipRing:   RingTip,
	FingertipPinky:  PinkyTip,
}

// LandmarkIndex returns the landmark index of the fingertip.
func (f Fingertip) LandmarkIndex() int {
	return fingertipLandmarks[f]
}

// String returns the fingertip name for logging.
func (f Fingertip) String() string {
	switch f {
	case FingertipThumb:
		return "thumb"
	case FingertipIndex:
		return "index"
	case FingertipMiddle:
		return "middle"
	case FingertipRing:
		return "ring"
	case FingertipPinky:
		return "pinky"
	}
	return "unknown"
}

// Fingertip returns the landmark position of the given fingertip.
func (h *Hand) Fingertip(f Fingertip) Point3D {
	return h.Points[f.LandmarkIndex()]
}
