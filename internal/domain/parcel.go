package domain

// ParcelRecord is a cadastral parcel resolved from a location.
type ParcelRecord struct {
	ParcelNumber     string   `json:"parcel_number,omitempty"`
	Section          string   `json:"section,omitempty"`
	Commune          string   `json:"commune,omitempty"`
	InseeCode        string   `json:"insee_code,omitempty"`
	LandAreaSqm      float64  `json:"land_area_sqm"`
	BuiltAreaSqm     *float64 `json:"built_area_sqm,omitempty"`
	ConstructionYear *int     `json:"construction_year,omitempty"`
	Source           string   `json:"source"`
}

// FromFallback reports whether the record was synthesized because the
// cadastral registry was unreachable or returned no parcel.
func (p ParcelRecord) FromFallback() bool {
	return p.Source == "fallback"
}
