package service

import (
	"context"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estimmo/backend/internal/domain"
	"github.com/estimmo/backend/internal/pricing"
	"github.com/estimmo/backend/internal/vision"
)

// recordingRepo captures asynchronous saves so tests can assert on them
// after WaitBackground.
type recordingRepo struct {
	mu    sync.Mutex
	saved []domain.EstimationResult
}

func (r *recordingRepo) SaveEstimation(ctx context.Context, location domain.GeoPoint, result domain.EstimationResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, result)
	return nil
}

func (r *recordingRepo) GetHistory(ctx context.Context, from, to time.Time, limit int) ([]domain.HistoryEntry, error) {
	return nil, nil
}

func (r *recordingRepo) Health(ctx context.Context) error {
	return nil
}

func (r *recordingRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

// offlineService wires the orchestrator with no registry URLs: every
// external source runs its degraded path.
func offlineService(repo EstimationRepository) *EstimateService {
	return NewEstimateService(
		NewCadastreService(""),
		NewSalesService(""),
		NewEnergyService("", ""),
		vision.NewAnalyzer(),
		pricing.NewEngine(),
		repo,
	)
}

// facadeSample builds a sharp, well-exposed sample that passes the
// analyzer's usability gate.
func facadeSample(w, h int) domain.ImageSample {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: 180, G: 160, B: 140, A: 255}
			if (x/8+y/8)%2 == 0 {
				c = color.RGBA{R: 70, G: 60, B: 55, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return domain.NewImageSample(img)
}

func TestEstimate_RejectsInvalidLocation(t *testing.T) {
	svc := offlineService(&recordingRepo{})

	_, err := svc.Estimate(context.Background(), domain.GeoPoint{}, []domain.ImageSample{facadeSample(400, 300)})
	assert.ErrorIs(t, err, domain.ErrInvalidLocation)

	_, err = svc.Estimate(context.Background(), domain.GeoPoint{Latitude: 12, Longitude: 200}, []domain.ImageSample{facadeSample(400, 300)})
	assert.ErrorIs(t, err, domain.ErrInvalidLocation)
}

func TestEstimate_RejectsEmptyImageSet(t *testing.T) {
	svc := offlineService(&recordingRepo{})

	_, err := svc.Estimate(context.Background(), domain.GeoPoint{Latitude: 45.76, Longitude: 4.85}, nil)
	assert.ErrorIs(t, err, domain.ErrNoImages)
}

func TestEstimate_AllSourcesOfflineStillProducesPrice(t *testing.T) {
	repo := &recordingRepo{}
	svc := offlineService(repo)

	lyon := domain.GeoPoint{Latitude: 45.76, Longitude: 4.85}
	result, err := svc.Estimate(context.Background(), lyon, []domain.ImageSample{facadeSample(480, 400)})
	require.NoError(t, err)

	// No registry reachable: the sector default price carries the
	// estimate and the fallback parcel marks the cadastre as missing.
	assert.InDelta(t, 5000, result.BasePricePerSqm, 0.001)
	assert.Equal(t, domain.TierNone, result.Sales.Tier)
	require.NotNil(t, result.Parcel)
	assert.True(t, result.Parcel.FromFallback())
	assert.Nil(t, result.Energy)

	assert.Greater(t, result.TotalPrice, 0.0)
	assert.True(t, result.PriceLow <= result.TotalPrice && result.TotalPrice <= result.PriceHigh)
	assert.GreaterOrEqual(t, result.Coefficients.Margin, 0.20)
	assert.True(t, domain.GradeLimited.AtLeast(result.Grade))
	assert.NotEmpty(t, result.Caveats)

	// The save runs in the background; it must land before shutdown.
	svc.WaitBackground()
	assert.Equal(t, 1, repo.count())
}

func TestEstimate_MultipleImagesRaiseConfidence(t *testing.T) {
	repo := &recordingRepo{}
	svc := offlineService(repo)

	lyon := domain.GeoPoint{Latitude: 45.76, Longitude: 4.85}
	one, err := svc.Estimate(context.Background(), lyon, []domain.ImageSample{facadeSample(480, 400)})
	require.NoError(t, err)

	many, err := svc.Estimate(context.Background(), lyon, []domain.ImageSample{
		facadeSample(480, 400),
		facadeSample(480, 400),
		facadeSample(480, 400),
	})
	require.NoError(t, err)

	// Identical photos agree perfectly, so more of them can only add
	// confidence.
	assert.GreaterOrEqual(t, many.Confidence, one.Confidence)
	assert.Equal(t, 3, many.Vision.ImageCount)

	svc.WaitBackground()
}

func TestGetSalesStats_RejectsInvalidLocation(t *testing.T) {
	svc := offlineService(&recordingRepo{})

	_, err := svc.GetSalesStats(context.Background(), domain.GeoPoint{}, 500, 12)
	assert.ErrorIs(t, err, domain.ErrInvalidLocation)
}

func TestGetSalesStats_OfflineRegistryIsEmptyNotError(t *testing.T) {
	svc := offlineService(&recordingRepo{})

	stats, err := svc.GetSalesStats(context.Background(), domain.GeoPoint{Latitude: 48.86, Longitude: 2.35}, 500, 12)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TransactionCount)
	assert.Equal(t, domain.TierNone, stats.Tier)
	assert.InDelta(t, 500, stats.RadiusMeters, 0.001)
	assert.Equal(t, 12, stats.PeriodMonths)
}

func TestGetParcel_FallsBackWhenOffline(t *testing.T) {
	svc := offlineService(&recordingRepo{})

	parcel, err := svc.GetParcel(context.Background(), domain.GeoPoint{Latitude: 48.86, Longitude: 2.35})
	require.NoError(t, err)
	require.NotNil(t, parcel)
	assert.True(t, parcel.FromFallback())
	// The fallback carries no surface; the engine substitutes the
	// per-type default habitable area instead.
	assert.Zero(t, parcel.LandAreaSqm)
}
