package postgres

import (
	"context"
	"time"

	"github.com/estimmo/backend/internal/domain"
)

// MockRepository implements domain.EstimationRepository for testing/demo mode
type MockRepository struct{}

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{}
}

// SaveEstimation is a no-op in mock mode
func (r *MockRepository) SaveEstimation(ctx context.Context, location domain.GeoPoint, result domain.EstimationResult) error {
	return nil
}

// GetHistory returns mock historical data
func (r *MockRepository) GetHistory(ctx context.Context, from, to time.Time, limit int) ([]domain.HistoryEntry, error) {
	return []domain.HistoryEntry{
		{
			ID:          1,
			Location:    domain.GeoPoint{Latitude: 48.8566, Longitude: 2.3522},
			TotalPrice:  441000,
			PriceLow:    396900,
			PriceHigh:   485100,
			Confidence:  72.5,
			Grade:       domain.GradeGood,
			EstimatedAt: time.Now().Add(-24 * time.Hour),
		},
	}, nil
}

// Health always returns nil in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}
