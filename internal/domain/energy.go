package domain

// EnergyClass is an ordered A (best) to G (worst) performance letter.
type EnergyClass string

const (
	EnergyA EnergyClass = "A"
	EnergyB EnergyClass = "B"
	EnergyC EnergyClass = "C"
	EnergyD EnergyClass = "D"
	EnergyE EnergyClass = "E"
	EnergyF EnergyClass = "F"
	EnergyG EnergyClass = "G"
)

// Known reports whether the class is one of the seven letter grades.
func (c EnergyClass) Known() bool {
	switch c {
	case EnergyA, EnergyB, EnergyC, EnergyD, EnergyE, EnergyF, EnergyG:
		return true
	}
	return false
}

// ThermalSieve reports whether the rating marks the building as a
// high-consumption property (F or G).
func (c EnergyClass) ThermalSieve() bool {
	return c == EnergyF || c == EnergyG
}

// EnergyRecord is an energy-performance diagnosis near the subject.
type EnergyRecord struct {
	EnergyClass       EnergyClass `json:"energy_class"`
	GESClass          EnergyClass `json:"ges_class,omitempty"`
	ConsumptionKwhSqm *float64    `json:"consumption_kwh_sqm,omitempty"`
	IsAreaAverage     bool        `json:"is_area_average,omitempty"`
	Source            string      `json:"source,omitempty"`
}
