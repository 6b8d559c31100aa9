package vision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estimmo/backend/internal/domain"
)

func TestEstimateFloors_WeakSignalDefaultsToOne(t *testing.T) {
	count, defaulted := estimateFloors(bandProfile{height: 600})
	assert.Equal(t, 1, count)
	assert.True(t, defaulted)

	count, defaulted = estimateFloors(bandProfile{filtered: []int{100}, height: 600})
	assert.Equal(t, 1, count)
	assert.True(t, defaulted)
}

func TestEstimateFloors_ThreeBandsPerFloor(t *testing.T) {
	count, defaulted := estimateFloors(bandProfile{
		filtered: []int{50, 120, 190, 260, 330, 400},
		height:   600,
	})
	assert.Equal(t, 2, count)
	assert.False(t, defaulted)
}

func TestEstimateFloors_ClampedToSix(t *testing.T) {
	bands := make([]int, 30)
	for i := range bands {
		bands[i] = i * 20
	}
	count, _ := estimateFloors(bandProfile{filtered: bands, height: 600})
	assert.Equal(t, maxFloors, count)
}

func TestGuessCondition_WalksDownWithTexture(t *testing.T) {
	light := colorProfile{class: colorLight, variance: 1000}

	order := []domain.Condition{
		guessCondition(light, 10),
		guessCondition(light, 20),
		guessCondition(light, 30),
		guessCondition(light, 45),
		guessCondition(light, 60),
		guessCondition(light, 80),
		guessCondition(light, 120),
	}

	want := []domain.Condition{
		domain.ConditionNew,
		domain.ConditionVeryGood,
		domain.ConditionGood,
		domain.ConditionFair,
		domain.ConditionLightWork,
		domain.ConditionRenovation,
		domain.ConditionMajorWork,
	}
	assert.Equal(t, want, order)
}

func TestAnalyzeImage_ProducesBoundedAssessment(t *testing.T) {
	a := NewAnalyzer()
	s := makeSample(640, 480, checkerboard)

	got := a.AnalyzeImage(s, QualityScore(s))

	assert.GreaterOrEqual(t, got.FloorCount, minFloors)
	assert.LessOrEqual(t, got.FloorCount, maxFloors)
	assert.GreaterOrEqual(t, got.Confidence, 0.0)
	assert.LessOrEqual(t, got.Confidence, 100.0)
	assert.NotEmpty(t, got.BuildingType)
	assert.NotEmpty(t, got.Condition)
}

func TestAnalyze_NoImagesIsFatal(t *testing.T) {
	a := NewAnalyzer()
	_, err := a.Analyze(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrNoImages)
}

func TestAnalyze_AllImagesUnusableIsFatal(t *testing.T) {
	a := NewAnalyzer()
	_, err := a.Analyze(context.Background(), []domain.ImageSample{
		makeSample(300, 300, flatGray(128)),
		{}, // undecodable zero sample
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientVisionInput)
}

func TestAnalyze_MixedUsabilityKeepsGoodImages(t *testing.T) {
	a := NewAnalyzer()
	got, err := a.Analyze(context.Background(), []domain.ImageSample{
		makeSample(300, 300, flatGray(128)), // unusable, silently dropped
		makeSample(640, 480, checkerboard),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, got.ImageCount)
}

func TestAnalyze_MultipleImagesAggregates(t *testing.T) {
	a := NewAnalyzer()
	got, err := a.Analyze(context.Background(), []domain.ImageSample{
		makeSample(640, 480, checkerboard),
		makeSample(640, 480, checkerboard),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, got.ImageCount)
	assert.Equal(t, "heuristic", got.AnalysisMethod)
	assert.GreaterOrEqual(t, got.Confidence, 0.0)
	assert.LessOrEqual(t, got.Confidence, 100.0)
}
