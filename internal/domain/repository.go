package domain

import (
	"context"
	"time"
)

// HistoryEntry is one persisted estimation, kept for the history feed.
type HistoryEntry struct {
	ID          int64        `json:"id"`
	Location    GeoPoint     `json:"location"`
	TotalPrice  float64      `json:"total_price"`
	PriceLow    float64      `json:"price_low"`
	PriceHigh   float64      `json:"price_high"`
	Confidence  float64      `json:"confidence"`
	Grade       QualityGrade `json:"quality_grade"`
	EstimatedAt time.Time    `json:"estimated_at"`
}

// EstimationRepository defines the interface for estimation persistence
// This follows the Dependency Inversion Principle - domain defines the interface
type EstimationRepository interface {
	// SaveEstimation persists a completed estimation
	SaveEstimation(ctx context.Context, location GeoPoint, result EstimationResult) error

	// GetHistory retrieves recent estimations, newest first
	GetHistory(ctx context.Context, from, to time.Time, limit int) ([]HistoryEntry, error)

	// Health checks database connectivity
	Health(ctx context.Context) error
}
