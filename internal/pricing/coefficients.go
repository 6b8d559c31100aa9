package pricing

import (
	"time"

	"github.com/estimmo/backend/internal/domain"
)

// Each resolver returns a multiplier inside a fixed documented range and
// never fails: anything outside its expected domain resolves to the
// neutral 1.00.

// conditionCoefficients spans [0.55, 1.15], monotone along the ordered
// condition scale.
var conditionCoefficients = map[domain.Condition]float64{
	domain.ConditionNew:        1.15,
	domain.ConditionVeryGood:   1.10,
	domain.ConditionGood:       1.00,
	domain.ConditionFair:       0.95,
	domain.ConditionLightWork:  0.85,
	domain.ConditionRenovation: 0.70,
	domain.ConditionMajorWork:  0.55,
}

// energyCoefficients spans [0.82, 1.08]. F and G carry the rental-ban
// discount applied to high-consumption properties.
var energyCoefficients = map[domain.EnergyClass]float64{
	domain.EnergyA: 1.08,
	domain.EnergyB: 1.05,
	domain.EnergyC: 1.02,
	domain.EnergyD: 1.00,
	domain.EnergyE: 0.95,
	domain.EnergyF: 0.88,
	domain.EnergyG: 0.82,
}

// seasonCoefficients spans [0.98, 1.03], peaking in the spring listing
// season with a secondary bump at the September re-entry.
var seasonCoefficients = map[time.Month]float64{
	time.January:   0.98,
	time.February:  0.99,
	time.March:     1.01,
	time.April:     1.02,
	time.May:       1.03,
	time.June:      1.02,
	time.July:      1.00,
	time.August:    0.99,
	time.September: 1.02,
	time.October:   1.01,
	time.November:  0.99,
	time.December:  0.98,
}

// ConditionCoefficient maps an exterior condition onto [0.55, 1.15].
func ConditionCoefficient(c domain.Condition) float64 {
	if coef, ok := conditionCoefficients[c]; ok {
		return coef
	}
	return 1.00
}

// EnergyCoefficient maps an energy class onto [0.82, 1.08]. A nil
// record or unknown class is neutral.
func EnergyCoefficient(rec *domain.EnergyRecord) float64 {
	if rec == nil {
		return 1.00
	}
	if coef, ok := energyCoefficients[rec.EnergyClass]; ok {
		return coef
	}
	return 1.00
}

// FloorsCoefficient maps a floor count onto [1.00, 1.05], monotone and
// saturating beyond three floors.
func FloorsCoefficient(floors int) float64 {
	switch {
	case floors <= 1:
		return 1.00
	case floors == 2:
		return 1.03
	default:
		return 1.05
	}
}

// SeasonCoefficient maps a calendar month onto [0.98, 1.03].
func SeasonCoefficient(month time.Month) float64 {
	if coef, ok := seasonCoefficients[month]; ok {
		return coef
	}
	return 1.00
}
