package pricing

import (
	"fmt"
	"time"

	"github.com/estimmo/backend/internal/domain"
	"github.com/estimmo/backend/pkg/utils"
)

// Margin bounds. The interval never tightens below marginFloor, never
// widens past marginCap, and never drops under marginDegradedFloor when
// both the comparable sales and the energy rating are absent.
const (
	marginBase          = 0.15
	marginFloor         = 0.08
	marginCap           = 0.30
	marginDegradedFloor = 0.20
)

// habitableRatio estimates the habitable share of the land surface when
// the cadastre carries no built area, by building type.
var habitableRatio = map[domain.BuildingType]float64{
	domain.TypeHouse:      0.35,
	domain.TypeApartment:  1.00,
	domain.TypeCollective: 0.60,
	domain.TypeLand:       0.00,
	domain.TypeCommercial: 0.50,
	domain.TypeUnknown:    0.30,
}

// defaultHabitableArea is the last-resort surface when neither built
// nor land area is known, by building type.
var defaultHabitableArea = map[domain.BuildingType]float64{
	domain.TypeHouse:      100,
	domain.TypeApartment:  70,
	domain.TypeCollective: 500,
	domain.TypeLand:       0,
	domain.TypeCommercial: 150,
	domain.TypeUnknown:    80,
}

// Inputs carries everything the fusion engine needs for one estimation.
// Optional sources arrive as nil when their fetch failed or returned
// nothing; their absence degrades the result instead of aborting it.
type Inputs struct {
	Location                 domain.GeoPoint
	Parcel                   *domain.ParcelRecord
	Sales                    domain.SalesStats
	SectorDefaultPricePerSqm float64
	Energy                   *domain.EnergyRecord
	Vision                   domain.VisionAssessment
}

// Engine fuses the four source signals into a point price, an interval,
// a confidence score, and a quality grade. It holds no per-request
// state; concurrent estimations need no locking.
type Engine struct {
	now func() time.Time
}

// NewEngine creates a fusion engine using the wall clock for the
// seasonality coefficient.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineAt creates a fusion engine with a fixed clock, for tests.
func NewEngineAt(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// Estimate runs the fusion algorithm. The single fatal precondition
// here is a missing or out-of-range location; every other degradation
// widens the margin, downgrades the grade, and appends a caveat.
func (e *Engine) Estimate(in Inputs) (domain.EstimationResult, error) {
	if in.Location.IsZero() || !in.Location.Valid() {
		return domain.EstimationResult{}, domain.ErrInvalidLocation
	}

	now := e.now()

	// Base price: the aggregator's median, or the caller-supplied
	// sector default when no comparable sale was usable.
	basePrice := in.Sales.MedianPricePerSqm
	if in.Sales.Tier == domain.TierNone || basePrice <= 0 {
		basePrice = in.SectorDefaultPricePerSqm
	}

	energyKnown := in.Energy != nil && in.Energy.EnergyClass.Known()

	coeffs := domain.Coefficients{
		Condition:   ConditionCoefficient(in.Vision.Condition),
		Energy:      EnergyCoefficient(in.Energy),
		Floors:      FloorsCoefficient(in.Vision.FloorCount),
		Seasonality: SeasonCoefficient(now.Month()),
	}
	coeffs.Combined = utils.RoundTo(coeffs.Condition*coeffs.Energy*coeffs.Floors*coeffs.Seasonality, 4)
	coeffs.Margin = marginFraction(in.Sales.Tier, in.Vision.Confidence, energyKnown)

	area, areaEstimated := habitableArea(in.Parcel, in.Vision)

	adjusted, total, low, high := Combine(basePrice, coeffs, area)

	result := domain.EstimationResult{
		HabitableAreaSqm:    utils.RoundTo(area, 2),
		HabitableEstimated:  areaEstimated,
		BasePricePerSqm:     utils.RoundTo(basePrice, 2),
		AdjustedPricePerSqm: utils.RoundTo(adjusted, 2),
		TotalPrice:          utils.RoundTo(total, 0),
		PriceLow:            utils.RoundTo(low, 0),
		PriceHigh:           utils.RoundTo(high, 0),
		Confidence:          confidence(in, energyKnown),
		Grade:               grade(in, energyKnown),
		Parcel:              in.Parcel,
		Sales:               in.Sales,
		Energy:              in.Energy,
		Vision:              in.Vision,
		Coefficients:        coeffs,
		Caveats:             caveats(in, energyKnown, areaEstimated, basePrice),
		Sources:             sources(in, energyKnown),
		EstimatedAt:         now,
	}
	if in.Parcel != nil {
		result.LandAreaSqm = in.Parcel.LandAreaSqm
	}
	return result, nil
}

// Combine applies the fusion arithmetic: adjusted price per area, total
// price over the habitable area, and the symmetric interval given the
// margin fraction in c.Margin.
func Combine(basePricePerSqm float64, c domain.Coefficients, areaSqm float64) (adjusted, total, low, high float64) {
	adjusted = basePricePerSqm * c.Condition * c.Energy * c.Floors * c.Seasonality
	total = areaSqm * adjusted
	low = total * (1 - c.Margin)
	high = total * (1 + c.Margin)
	return adjusted, total, low, high
}

// marginFraction shrinks with source reliability and never leaves
// [marginFloor, marginCap]. When both the transaction and energy
// signals are entirely absent the margin is floored at
// marginDegradedFloor instead of producing an unbounded interval.
func marginFraction(tier domain.ReliabilityTier, visionConfidence float64, energyKnown bool) float64 {
	m := marginBase

	switch tier {
	case domain.TierHigh:
		m -= 0.04
	case domain.TierModerate:
		m -= 0.02
	case domain.TierNone:
		m += 0.07
	}

	switch {
	case visionConfidence >= 80:
		m -= 0.02
	case visionConfidence < 50:
		m += 0.03
	}

	if energyKnown {
		m -= 0.01
	} else {
		m += 0.03
	}

	if tier == domain.TierNone && !energyKnown && m < marginDegradedFloor {
		m = marginDegradedFloor
	}
	return utils.RoundTo(utils.Clamp(m, marginFloor, marginCap), 4)
}

// habitableArea derives the habitable surface. A cadastral built area
// counts as measured (walls and stairwells take roughly 15%); anything
// derived from land area or defaults is flagged estimated.
func habitableArea(parcel *domain.ParcelRecord, vision domain.VisionAssessment) (area float64, estimated bool) {
	floors := vision.FloorCount
	if floors < 1 {
		floors = 1
	}

	if parcel != nil && parcel.BuiltAreaSqm != nil && *parcel.BuiltAreaSqm > 0 {
		return *parcel.BuiltAreaSqm * 0.85 * float64(floors), false
	}

	if parcel != nil && parcel.LandAreaSqm > 0 {
		ratio, ok := habitableRatio[vision.BuildingType]
		if !ok {
			ratio = habitableRatio[domain.TypeUnknown]
		}
		base := parcel.LandAreaSqm * ratio
		if vision.BuildingType == domain.TypeHouse {
			// Footprint times floors, discounted for stairs and eaves.
			return base * float64(floors) * 0.8, true
		}
		return base, true
	}

	if def, ok := defaultHabitableArea[vision.BuildingType]; ok {
		return def, true
	}
	return defaultHabitableArea[domain.TypeUnknown], true
}

// confidence blends data completeness across the four sources into a
// 0-100 score.
func confidence(in Inputs, energyKnown bool) float64 {
	score := 40.0

	switch in.Sales.Tier {
	case domain.TierHigh:
		score += 20
	case domain.TierModerate:
		score += 12
	case domain.TierLow:
		score += 5
	default:
		score -= 10
	}

	score += (in.Vision.Confidence - 50) * 0.2

	if in.Parcel != nil {
		if in.Parcel.LandAreaSqm > 0 {
			score += 5
		}
		if in.Parcel.BuiltAreaSqm != nil && *in.Parcel.BuiltAreaSqm > 0 {
			score += 5
		}
		if in.Parcel.ConstructionYear != nil {
			score += 3
		}
		if in.Parcel.FromFallback() {
			score -= 10
		}
	} else {
		score -= 10
	}

	if energyKnown {
		score += 7
	}
	if in.Vision.ImageCount > 1 {
		score += 5
	}

	return utils.RoundTo(utils.Clamp(score, 15, 95), 1)
}

// grade maps the three reliability signals onto the discrete scale. The
// thresholds are fixed, and a request with zero comparable sales never
// grades above Limited regardless of the other sources.
func grade(in Inputs, energyKnown bool) domain.QualityGrade {
	points := 0

	switch in.Sales.Tier {
	case domain.TierHigh:
		points += 4
	case domain.TierModerate:
		points += 3
	case domain.TierLow:
		points++
	}

	switch {
	case in.Vision.Confidence >= 70:
		points += 2
	case in.Vision.Confidence >= 50:
		points++
	}

	if energyKnown {
		points += 2
	}
	if in.Parcel != nil && !in.Parcel.FromFallback() {
		points++
	}

	var g domain.QualityGrade
	switch {
	case points >= 8:
		g = domain.GradeExcellent
	case points >= 6:
		g = domain.GradeGood
	case points >= 4:
		g = domain.GradeModerate
	case points >= 2:
		g = domain.GradeLimited
	default:
		g = domain.GradePoor
	}

	if in.Sales.Tier == domain.TierNone && g.AtLeast(domain.GradeModerate) {
		g = domain.GradeLimited
	}
	return g
}

// caveats appends one human-readable note per degraded input.
func caveats(in Inputs, energyKnown, areaEstimated bool, basePrice float64) []string {
	notes := []string{}

	switch {
	case in.Sales.Tier == domain.TierNone:
		notes = append(notes, "No recent comparable sale in the area - estimate based on sector average prices")
	case in.Sales.TransactionCount < 5:
		notes = append(notes, "Few comparable sales nearby - precision is limited")
	}

	if in.Parcel == nil || in.Parcel.FromFallback() {
		notes = append(notes, "Cadastral data unavailable - land surface approximated")
	}

	if in.Vision.Confidence < 50 {
		notes = append(notes, "Low image analysis confidence - add more photos to improve the estimate")
	}

	switch {
	case !energyKnown:
		notes = append(notes, "No energy rating available - the estimate ignores energy performance")
	case in.Energy.EnergyClass.ThermalSieve():
		notes = append(notes, fmt.Sprintf("High energy consumption (class %s) - renovation work is likely required", in.Energy.EnergyClass))
	}
	if energyKnown && in.Energy.IsAreaAverage {
		notes = append(notes, "Energy rating is a neighborhood average - an actual diagnosis may change the estimate")
	}

	if areaEstimated {
		notes = append(notes, "Habitable area estimated from land surface, not measured")
	}

	switch {
	case basePrice > 0 && basePrice < 1000:
		notes = append(notes, "Very low-price area - check local constraints before relying on the estimate")
	case basePrice > 8000:
		notes = append(notes, "High-price area - the local market can be volatile")
	}

	return notes
}

// sources lists the registries that actually contributed to the result.
func sources(in Inputs, energyKnown bool) []string {
	out := []string{}
	if in.Parcel != nil && !in.Parcel.FromFallback() {
		out = append(out, fmt.Sprintf("Cadastre (%s)", in.Parcel.Source))
	}
	if in.Sales.Tier != domain.TierNone {
		out = append(out, "Comparable sales registry")
	}
	if energyKnown {
		src := in.Energy.Source
		if src == "" {
			src = "registry"
		}
		out = append(out, fmt.Sprintf("Energy rating (%s)", src))
	}
	out = append(out, "Vision analysis (heuristic)")
	return out
}
