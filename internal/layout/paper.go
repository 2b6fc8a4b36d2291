package layout

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"gocv.io/x/gocv"
)

// Paper detection constants.
const (
	// paperBlurSize is the kernel size for Gaussian blur before thresholding.
	paperBlurSize = 5
	// paperMinAreaFrac is the minimum contour area as a fraction of the image.
	paperMinAreaFrac = 0.001
	// paperMaxAreaFrac is the maximum contour area as a fraction of the image.
	paperMaxAreaFrac = 0.25
	// paperApproxFrac is the polygon approximation tolerance as a fraction of
	// the contour perimeter.
	paperApproxFrac = 0.02
	// paperInkThreshold is the mean gray level below which a key region is
	// classified as a black key.
	paperInkThreshold = 128.0
)

// ErrNoKeysFound is returned when contour analysis finds no usable key shapes.
var ErrNoKeysFound = errors.New("no key shapes found in image")

// blackNames are the accidentals of one octave, left to right.
var blackNames = [5]string{"C#", "D#", "F#", "G#", "A#"}

// DetectPaper extracts a key layout from a photo of a printed keyboard.
//
// Pipeline:
//  1. Convert to grayscale and blur to suppress paper texture
//  2. Adaptive threshold to isolate key outlines
//  3. Find external contours and approximate each to a polygon
//  4. Reject contours that are too small, too large, or degenerate
//  5. Classify each region as black or white by its mean gray level
//  6. Assign note names left to right per class, starting at the given octave
//
// The result uses image pixel coordinates as layout space.
func DetectPaper(img *gocv.Mat, startOctave int) (*Layout, error) {
	if img == nil || img.Empty() {
		return nil, errors.New("empty image")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if img.Channels() > 1 {
		gocv.CvtColor(*img, &gray, gocv.ColorBGRToGray)
	} else {
		img.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(paperBlurSize, paperBlurSize), 0, 0, gocv.BorderDefault)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.AdaptiveThreshold(blurred, &thresh, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinaryInv, 11, 2)

	contours := gocv.FindContours(thresh, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	imgArea := float64(img.Rows() * img.Cols())
	minArea := imgArea * paperMinAreaFrac
	maxArea := imgArea * paperMaxAreaFrac

	type shape struct {
		poly  Polygon
		black bool
	}
	var shapes []shape

	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)

		area := gocv.ContourArea(contour)
		if area < minArea || area > maxArea {
			continue
		}

		perimeter := gocv.ArcLength(contour, true)
		approx := gocv.ApproxPolyDP(contour, paperApproxFrac*perimeter, true)
		if approx.Size() < 3 {
			approx.Close()
			continue
		}

		poly := make(Polygon, approx.Size())
		for j := 0; j < approx.Size(); j++ {
			pt := approx.At(j)
			poly[j] = Point{X: float64(pt.X), Y: float64(pt.Y)}
		}
		approx.Close()

		rect := gocv.BoundingRect(contour)
		region := gray.Region(rect)
		mean := region.Mean()
		region.Close()

		shapes = append(shapes, shape{
			poly:  poly,
			black: mean.Val1 < paperInkThreshold,
		})
	}

	if len(shapes) == 0 {
		return nil, ErrNoKeysFound
	}

	// Left-to-right note assignment per class. White keys cycle through the
	// naturals and black keys through the accidentals, both advancing the
	// octave once per cycle. This assumes the photo shows keys in playing
	// order; skewed or partial keyboards get best-effort names.
	sort.Slice(shapes, func(i, j int) bool {
		return shapes[i].poly.Centroid().X < shapes[j].poly.Centroid().X
	})

	var keys []Key
	whiteCount, blackCount := 0, 0
	for i, s := range shapes {
		k := Key{Polygon: s.poly, Index: i}
		if s.black {
			k.Type = KeyBlack
			k.Note = fmt.Sprintf("%s%d", blackNames[blackCount%len(blackNames)], startOctave+blackCount/len(blackNames))
			blackCount++
		} else {
			k.Type = KeyWhite
			k.Note = fmt.Sprintf("%s%d", whiteNotes[whiteCount%len(whiteNotes)], startOctave+whiteCount/len(whiteNotes))
			whiteCount++
		}
		keys = append(keys, k)
	}

	return New(keys), nil
}
