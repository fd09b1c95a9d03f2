package grid

import (
	"fmt"
	"image"
)

// Policy selects how the light/dark cutoff is derived. Whatever the
// policy, one scalar threshold applies uniformly to all 64 cells of a
// run.
type Policy string

const (
	// PolicyFixed uses a constant cutoff, tuned for typical lighting.
	PolicyFixed Policy = "fixed"
	// PolicyMean uses the global mean intensity of the whole rectified
	// image.
	PolicyMean Policy = "mean"
	// PolicyOtsu picks the cutoff that maximizes between-class
	// variance of the global intensity histogram.
	PolicyOtsu Policy = "otsu"
)

// DefaultFixedThreshold is mid-gray, the usual cutoff for separating
// light squares from dark ones on an evenly lit board.
const DefaultFixedThreshold = 128.0

// Policies lists the recognized threshold policies.
func Policies() []Policy {
	return []Policy{PolicyFixed, PolicyMean, PolicyOtsu}
}

// Histogram counts pixel intensities of an 8-bit grayscale image.
type Histogram [256]int

// BuildHistogram tallies every pixel of the image.
func BuildHistogram(gray *image.Gray) Histogram {
	var hist Histogram
	w := gray.Rect.Dx()
	h := gray.Rect.Dy()
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for _, v := range row {
			hist[v]++
		}
	}
	return hist
}

// Total returns the number of pixels counted.
func (h Histogram) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}

// Mean returns the intensity-weighted mean, or 0 for an empty
// histogram.
func (h Histogram) Mean() float64 {
	var total, sum int
	for i, n := range h {
		total += n
		sum += i * n
	}
	if total == 0 {
		return 0
	}
	return float64(sum) / float64(total)
}

// Otsu returns the threshold t maximizing the between-class variance
// of the split [0,t) vs [t,255]. A histogram with all mass at a single
// level has no split and yields 0, classifying everything as light.
func (h Histogram) Otsu() float64 {
	var total, sum1 int
	for i, n := range h {
		total += n
		sum1 += i * n
	}
	if total == 0 {
		return 0
	}

	best := 0
	maxVariance := 0.0
	wB, sumB := 0, 0
	for t := 1; t < 256; t++ {
		wB += h[t-1]
		sumB += (t - 1) * h[t-1]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}

		mB := float64(sumB) / float64(wB)
		mF := float64(sum1-sumB) / float64(wF)
		variance := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if variance > maxVariance {
			maxVariance = variance
			best = t
		}
	}
	return float64(best)
}

// Threshold derives the scalar cutoff for a policy from the global
// histogram. The fixed value is only consulted under PolicyFixed.
func Threshold(policy Policy, hist Histogram, fixed float64) (float64, error) {
	switch policy {
	case PolicyFixed:
		return fixed, nil
	case PolicyMean:
		return hist.Mean(), nil
	case PolicyOtsu:
		return hist.Otsu(), nil
	default:
		return 0, fmt.Errorf("unknown threshold policy %q", policy)
	}
}
