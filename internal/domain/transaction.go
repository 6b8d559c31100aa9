package domain

import "time"

// TransactionRecord is one comparable sale near the subject property.
type TransactionRecord struct {
	Date           time.Time `json:"date"`
	Price          float64   `json:"price"`
	LivingAreaSqm  float64   `json:"living_area_sqm"`
	DistanceMeters float64   `json:"distance_meters"`
	PropertyType   string    `json:"property_type,omitempty"`
	Address        string    `json:"address,omitempty"`
}

// PricePerSqm returns the sale price per square meter of living area.
func (t TransactionRecord) PricePerSqm() float64 {
	if t.LivingAreaSqm <= 0 {
		return 0
	}
	return t.Price / t.LivingAreaSqm
}

// ReliabilityTier grades how trustworthy the comparable-sales signal is,
// based purely on how many usable transactions were found.
type ReliabilityTier string

const (
	TierNone     ReliabilityTier = "none"
	TierLow      ReliabilityTier = "low"
	TierModerate ReliabilityTier = "moderate"
	TierHigh     ReliabilityTier = "high"
)

// TierForCount maps a transaction count onto a reliability tier.
func TierForCount(count int) ReliabilityTier {
	switch {
	case count >= 15:
		return TierHigh
	case count >= 5:
		return TierModerate
	case count >= 1:
		return TierLow
	default:
		return TierNone
	}
}

// rank orders tiers so callers can compare reliability monotonically.
func (t ReliabilityTier) rank() int {
	switch t {
	case TierHigh:
		return 3
	case TierModerate:
		return 2
	case TierLow:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether t is at least as reliable as other.
func (t ReliabilityTier) AtLeast(other ReliabilityTier) bool {
	return t.rank() >= other.rank()
}

// SalesStats summarizes the comparable sales around the subject.
type SalesStats struct {
	MedianPricePerSqm float64         `json:"median_price_per_sqm"`
	MeanPricePerSqm   float64         `json:"mean_price_per_sqm"`
	MinPricePerSqm    float64         `json:"min_price_per_sqm"`
	MaxPricePerSqm    float64         `json:"max_price_per_sqm"`
	StdDevPricePerSqm float64         `json:"stddev_price_per_sqm"`
	TransactionCount  int             `json:"transaction_count"`
	Tier              ReliabilityTier `json:"reliability_tier"`
	RadiusMeters      float64         `json:"radius_meters,omitempty"`
	PeriodMonths      int             `json:"period_months,omitempty"`
}
