package vision

import (
	"math"

	"github.com/estimmo/backend/internal/domain"
	"github.com/estimmo/backend/pkg/utils"
)

// Resolution thresholds for the usability score. Below minUsableDim the
// photo contributes nothing; above goodDim it scores full marks.
const (
	minUsableDim = 200
	goodDim      = 1000
)

// Blur and exposure normalization constants. Laplacian variance above
// sharpVariance reads as fully sharp; luminance spread below
// flatLuminanceStdDev reads as a uniform, unusable frame.
const (
	sharpVariance       = 500.0
	flatLuminanceStdDev = 2.0
)

// QualityScore rates a decoded photo in [0,1] from its resolution, a
// Laplacian blur proxy, and a luminance exposure proxy. Degenerate
// images score 0 rather than failing.
func QualityScore(s domain.ImageSample) float64 {
	if !s.Valid() || s.Width < 2 || s.Height < 2 {
		return 0
	}

	mean, stddev := luminanceStats(s)
	if stddev < flatLuminanceStdDev {
		// Fully uniform frame: nothing to analyze.
		return 0
	}

	res := resolutionScore(s.Width, s.Height)
	sharp := utils.Clamp(laplacianVariance(s)/sharpVariance, 0, 1)
	exposure := exposureScore(mean, stddev)

	return utils.Clamp(0.40*res+0.35*sharp+0.25*exposure, 0, 1)
}

func resolutionScore(w, h int) float64 {
	minDim := float64(w)
	if h < w {
		minDim = float64(h)
	}
	return utils.Clamp((minDim-minUsableDim)/(goodDim-minUsableDim), 0, 1)
}

// laplacianVariance measures high-frequency energy with a discrete
// 4-neighbor Laplacian on the luminance plane. Higher variance of the
// edge response means a sharper photo.
func laplacianVariance(s domain.ImageSample) float64 {
	var sum, sumSq float64
	var n int

	step := sampleStep(s)
	for y := step; y < s.Height-step; y += step {
		for x := step; x < s.Width-step; x += step {
			c := s.LuminanceAt(x, y)
			lap := s.LuminanceAt(x-step, y) + s.LuminanceAt(x+step, y) +
				s.LuminanceAt(x, y-step) + s.LuminanceAt(x, y+step) - 4*c
			sum += lap
			sumSq += lap * lap
			n++
		}
	}
	if n == 0 {
		return 0
	}
	meanLap := sum / float64(n)
	return sumSq/float64(n) - meanLap*meanLap
}

// exposureScore rewards a mid-range mean luminance and a usable spread.
// Extreme over- or under-exposure pushes the score toward zero.
func exposureScore(mean, stddev float64) float64 {
	var meanScore float64
	switch {
	case mean >= 60 && mean <= 190:
		meanScore = 1
	case mean < 60:
		meanScore = utils.Clamp((mean-20)/40, 0, 1)
	default:
		meanScore = utils.Clamp((235-mean)/45, 0, 1)
	}

	spreadScore := utils.Clamp(stddev/40, 0, 1)
	return meanScore * (0.5 + 0.5*spreadScore)
}

func luminanceStats(s domain.ImageSample) (mean, stddev float64) {
	var sum, sumSq float64
	var n int

	step := sampleStep(s)
	for y := 0; y < s.Height; y += step {
		for x := 0; x < s.Width; x += step {
			l := s.LuminanceAt(x, y)
			sum += l
			sumSq += l * l
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	mean = sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}

// sampleStep subsamples large photos so analysis stays cheap without
// changing the verdict on small ones.
func sampleStep(s domain.ImageSample) int {
	longest := s.Width
	if s.Height > longest {
		longest = s.Height
	}
	step := longest / 400
	if step < 1 {
		step = 1
	}
	return step
}
