package domain

// BuildingType is the closed set of property categories the analyzer
// distinguishes from a street photo.
type BuildingType string

const (
	TypeHouse      BuildingType = "house"
	TypeApartment  BuildingType = "apartment"
	TypeCollective BuildingType = "collective"
	TypeLand       BuildingType = "land"
	TypeCommercial BuildingType = "commercial"
	TypeUnknown    BuildingType = "unknown"
)

// Condition is the ordered exterior-condition scale, best first.
type Condition string

const (
	ConditionNew        Condition = "new"
	ConditionVeryGood   Condition = "very_good"
	ConditionGood       Condition = "good"
	ConditionFair       Condition = "fair"
	ConditionLightWork  Condition = "light_work"
	ConditionRenovation Condition = "renovation"
	ConditionMajorWork  Condition = "major_work"
)

// Label returns the user-facing description of the condition.
func (c Condition) Label() string {
	switch c {
	case ConditionNew:
		return "New / recent"
	case ConditionVeryGood:
		return "Very good condition"
	case ConditionGood:
		return "Good condition"
	case ConditionFair:
		return "Fair condition"
	case ConditionLightWork:
		return "Light work needed"
	case ConditionRenovation:
		return "Renovation needed"
	case ConditionMajorWork:
		return "Major work needed"
	}
	return "Undetermined"
}

// VisionAssessment is the fused output of analyzing all supplied photos.
type VisionAssessment struct {
	BuildingType   BuildingType `json:"building_type"`
	Condition      Condition    `json:"condition"`
	ConditionLabel string       `json:"condition_label"`
	FloorCount     int          `json:"floor_count"`
	Confidence     float64      `json:"confidence"`
	ImageCount     int          `json:"image_count"`
	PerImageScores []float64    `json:"per_image_scores"`
	AnalysisMethod string       `json:"analysis_method"`
}
