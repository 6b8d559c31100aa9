package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/estimmo/backend/internal/domain"
)

// makeSample builds a synthetic photo from a per-pixel color function.
func makeSample(w, h int, color func(x, y int) (r, g, b uint8)) domain.ImageSample {
	s := domain.ImageSample{Width: w, Height: h, Pix: make([]uint8, 0, w*h*4)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b := color(x, y)
			s.Pix = append(s.Pix, r, g, b, 255)
		}
	}
	return s
}

func flatGray(v uint8) func(x, y int) (uint8, uint8, uint8) {
	return func(x, y int) (uint8, uint8, uint8) { return v, v, v }
}

// checkerboard is a sharp, well-exposed pattern of 8x8 blocks.
func checkerboard(x, y int) (uint8, uint8, uint8) {
	if (x/8+y/8)%2 == 0 {
		return 230, 230, 230
	}
	return 40, 40, 40
}

// softGradient is smooth and low-frequency: well exposed but blurry.
func softGradient(x, y int) (uint8, uint8, uint8) {
	v := uint8(60 + (x+y)%130)
	return v, v, v
}

func TestQualityScore_DegenerateImages(t *testing.T) {
	assert.Equal(t, 0.0, QualityScore(domain.ImageSample{}))
	assert.Equal(t, 0.0, QualityScore(domain.ImageSample{Width: 1, Height: 1, Pix: []uint8{0, 0, 0, 255}}))
}

func TestQualityScore_UniformLuminanceScoresZero(t *testing.T) {
	assert.Equal(t, 0.0, QualityScore(makeSample(400, 400, flatGray(128))))
	assert.Equal(t, 0.0, QualityScore(makeSample(400, 400, flatGray(255))))
}

func TestQualityScore_StaysInUnitInterval(t *testing.T) {
	samples := []domain.ImageSample{
		makeSample(50, 50, checkerboard),
		makeSample(1200, 900, checkerboard),
		makeSample(640, 480, softGradient),
	}
	for _, s := range samples {
		got := QualityScore(s)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}

func TestQualityScore_SharpBeatsBlurry(t *testing.T) {
	sharp := QualityScore(makeSample(800, 600, checkerboard))
	blurry := QualityScore(makeSample(800, 600, softGradient))
	assert.Greater(t, sharp, blurry)
}

func TestQualityScore_ResolutionMatters(t *testing.T) {
	big := QualityScore(makeSample(1200, 1000, checkerboard))
	small := QualityScore(makeSample(240, 240, checkerboard))
	assert.Greater(t, big, small)
}

func TestExposureScore_PenalizesExtremes(t *testing.T) {
	mid := exposureScore(120, 40)
	dark := exposureScore(25, 40)
	bright := exposureScore(240, 40)

	assert.Greater(t, mid, dark)
	assert.Greater(t, mid, bright)
}
