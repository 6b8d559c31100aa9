package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/estimmo/backend/internal/domain"
)

func TestConditionCoefficient_BoundsAndMonotonicity(t *testing.T) {
	ordered := []domain.Condition{
		domain.ConditionNew,
		domain.ConditionVeryGood,
		domain.ConditionGood,
		domain.ConditionFair,
		domain.ConditionLightWork,
		domain.ConditionRenovation,
		domain.ConditionMajorWork,
	}

	prev := 1.16
	for _, c := range ordered {
		coef := ConditionCoefficient(c)
		assert.GreaterOrEqual(t, coef, 0.55)
		assert.LessOrEqual(t, coef, 1.15)
		assert.Less(t, coef, prev, "scale must be strictly decreasing at %s", c)
		prev = coef
	}

	assert.Equal(t, 1.15, ConditionCoefficient(domain.ConditionNew))
	assert.Equal(t, 0.55, ConditionCoefficient(domain.ConditionMajorWork))
}

func TestConditionCoefficient_UnknownIsNeutral(t *testing.T) {
	assert.Equal(t, 1.00, ConditionCoefficient(domain.Condition("gilded")))
	assert.Equal(t, 1.00, ConditionCoefficient(domain.Condition("")))
}

func TestEnergyCoefficient_BoundsForEveryClass(t *testing.T) {
	for _, class := range []domain.EnergyClass{
		domain.EnergyA, domain.EnergyB, domain.EnergyC, domain.EnergyD,
		domain.EnergyE, domain.EnergyF, domain.EnergyG,
	} {
		coef := EnergyCoefficient(&domain.EnergyRecord{EnergyClass: class})
		assert.GreaterOrEqual(t, coef, 0.82, "class %s", class)
		assert.LessOrEqual(t, coef, 1.08, "class %s", class)
	}

	assert.Equal(t, 1.08, EnergyCoefficient(&domain.EnergyRecord{EnergyClass: domain.EnergyA}))
	assert.Equal(t, 0.82, EnergyCoefficient(&domain.EnergyRecord{EnergyClass: domain.EnergyG}))
}

func TestEnergyCoefficient_MissingOrUnknownIsNeutral(t *testing.T) {
	assert.Equal(t, 1.00, EnergyCoefficient(nil))
	assert.Equal(t, 1.00, EnergyCoefficient(&domain.EnergyRecord{EnergyClass: "Z"}))
	assert.Equal(t, 1.00, EnergyCoefficient(&domain.EnergyRecord{}))
}

func TestFloorsCoefficient_MonotonicAndSaturating(t *testing.T) {
	prev := 0.0
	for floors := 0; floors <= 10; floors++ {
		coef := FloorsCoefficient(floors)
		assert.GreaterOrEqual(t, coef, 1.00)
		assert.LessOrEqual(t, coef, 1.05)
		assert.GreaterOrEqual(t, coef, prev, "floors=%d", floors)
		prev = coef
	}

	// Saturates beyond three floors.
	assert.Equal(t, FloorsCoefficient(3), FloorsCoefficient(6))
	assert.Equal(t, 1.05, FloorsCoefficient(4))
}

func TestSeasonCoefficient_AllMonthsInRange(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		coef := SeasonCoefficient(m)
		assert.GreaterOrEqual(t, coef, 0.98, "month %s", m)
		assert.LessOrEqual(t, coef, 1.03, "month %s", m)
	}

	// Spring listing season peaks.
	assert.Equal(t, 1.03, SeasonCoefficient(time.May))
	assert.Equal(t, 0.98, SeasonCoefficient(time.January))
}
