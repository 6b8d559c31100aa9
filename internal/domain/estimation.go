package domain

import "time"

// QualityGrade is the discrete label summarizing how trustworthy an
// estimation is, best first.
type QualityGrade string

const (
	GradeExcellent QualityGrade = "excellent"
	GradeGood      QualityGrade = "good"
	GradeModerate  QualityGrade = "moderate"
	GradeLimited   QualityGrade = "limited"
	GradePoor      QualityGrade = "poor"
)

// rank orders grades so callers can compare them monotonically.
func (g QualityGrade) rank() int {
	switch g {
	case GradeExcellent:
		return 4
	case GradeGood:
		return 3
	case GradeModerate:
		return 2
	case GradeLimited:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether g is at least as good as other.
func (g QualityGrade) AtLeast(other QualityGrade) bool {
	return g.rank() >= other.rank()
}

// Coefficients records the four dimensionless multipliers actually
// applied, plus their product and the margin fraction, so a caller can
// reconstruct the arithmetic behind the estimate.
type Coefficients struct {
	Condition   float64 `json:"condition"`
	Energy      float64 `json:"energy"`
	Floors      float64 `json:"floors"`
	Seasonality float64 `json:"seasonality"`
	Combined    float64 `json:"combined"`
	Margin      float64 `json:"margin"`
}

// EstimationResult is the final output of one estimation request.
type EstimationResult struct {
	// Surfaces
	LandAreaSqm        float64 `json:"land_area_sqm"`
	HabitableAreaSqm   float64 `json:"habitable_area_sqm"`
	HabitableEstimated bool    `json:"habitable_area_estimated"`

	// Prices
	BasePricePerSqm     float64 `json:"base_price_per_sqm"`
	AdjustedPricePerSqm float64 `json:"adjusted_price_per_sqm"`
	TotalPrice          float64 `json:"total_price"`
	PriceLow            float64 `json:"price_low"`
	PriceHigh           float64 `json:"price_high"`

	// Trust
	Confidence float64      `json:"confidence"`
	Grade      QualityGrade `json:"quality_grade"`

	// Per-source sub-records
	Parcel *ParcelRecord    `json:"parcel,omitempty"`
	Sales  SalesStats       `json:"sales"`
	Energy *EnergyRecord    `json:"energy,omitempty"`
	Vision VisionAssessment `json:"vision"`

	// Audit trail
	Coefficients Coefficients `json:"coefficients"`
	Caveats      []string     `json:"caveats"`
	Sources      []string     `json:"sources"`
	EstimatedAt  time.Time    `json:"estimated_at"`
}

// EstimationResponse wraps an estimation result with metadata.
type EstimationResponse struct {
	Data    EstimationResult `json:"data"`
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
}
