package vision

import (
	"context"
	"math"
	"sync"

	"github.com/estimmo/backend/internal/domain"
	"github.com/estimmo/backend/pkg/utils"
)

// FloorCount bounds. Street photos rarely frame more than six floors
// usefully, and a weak band signal defaults to a single level.
const (
	minFloors = 1
	maxFloors = 6
)

// colorClass is the dominant-color family of a photo, used as a coarse
// scene cue (render vs masonry vs vegetation-heavy).
type colorClass int

const (
	colorLight colorClass = iota
	colorDark
	colorWarm
	colorVegetation
	colorCool
	colorNeutral
)

// ImageAssessment is the verdict on a single photo before aggregation.
type ImageAssessment struct {
	BuildingType domain.BuildingType
	Condition    domain.Condition
	FloorCount   int
	Confidence   float64
	Quality      float64
}

// Analyzer derives structured building facts from street photos using
// color, texture, and edge heuristics. It is stateless and safe for
// concurrent use.
type Analyzer struct{}

// NewAnalyzer creates a heuristic analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze scores every supplied photo in parallel, drops the unusable
// ones, and aggregates the rest into a single assessment. It fails only
// when no photo survives quality filtering.
func (a *Analyzer) Analyze(ctx context.Context, samples []domain.ImageSample) (domain.VisionAssessment, error) {
	if len(samples) == 0 {
		return domain.VisionAssessment{}, domain.ErrNoImages
	}

	assessments := make([]*ImageAssessment, len(samples))
	var wg sync.WaitGroup
	for i := range samples {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			q := QualityScore(samples[i])
			if q <= 0 {
				return
			}
			ia := a.AnalyzeImage(samples[i], q)
			assessments[i] = &ia
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return domain.VisionAssessment{}, err
	}

	usable := make([]ImageAssessment, 0, len(assessments))
	for _, ia := range assessments {
		if ia != nil {
			usable = append(usable, *ia)
		}
	}
	return Aggregate(usable)
}

// AnalyzeImage classifies one photo of known quality.
func (a *Analyzer) AnalyzeImage(s domain.ImageSample, quality float64) ImageAssessment {
	colors := analyzeColors(s)
	texture := textureScore(s)
	bands := horizontalBands(s)

	aspect := float64(s.Width) / float64(s.Height)
	typeFromEdges := guessTypeFromStructure(len(bands.raw), aspect, colors.variance)
	typeFromColor := guessTypeFromColor(colors.class, aspect)
	buildingType := reconcileType(typeFromColor, typeFromEdges)

	floors, floorsDefaulted := estimateFloors(bands)
	condition := guessCondition(colors, texture)

	consistency := 0.5
	if typeFromColor == typeFromEdges {
		consistency = 1.0
	}

	confidence := (0.6*quality + 0.4*consistency) * 100
	if floorsDefaulted {
		confidence -= 8
	}
	confidence = utils.Clamp(confidence, 0, 100)

	return ImageAssessment{
		BuildingType: buildingType,
		Condition:    condition,
		FloorCount:   floors,
		Confidence:   confidence,
		Quality:      quality,
	}
}

type colorProfile struct {
	class    colorClass
	variance float64
}

// analyzeColors averages a subsampled pixel grid and buckets the result
// into a coarse color family, along with the overall luminance variance.
func analyzeColors(s domain.ImageSample) colorProfile {
	var rSum, gSum, bSum float64
	var lumSum, lumSumSq float64
	var n int

	step := sampleStep(s)
	for y := 0; y < s.Height; y += step {
		for x := 0; x < s.Width; x += step {
			r, g, b := s.RGBAAt(x, y)
			rSum += float64(r)
			gSum += float64(g)
			bSum += float64(b)
			l := s.LuminanceAt(x, y)
			lumSum += l
			lumSumSq += l * l
			n++
		}
	}
	if n == 0 {
		return colorProfile{class: colorNeutral}
	}

	r := rSum / float64(n)
	g := gSum / float64(n)
	b := bSum / float64(n)
	meanLum := lumSum / float64(n)
	variance := lumSumSq/float64(n) - meanLum*meanLum
	if variance < 0 {
		variance = 0
	}

	var class colorClass
	switch {
	case r > 180 && g > 180 && b > 180:
		class = colorLight
	case r < 80 && g < 80 && b < 80:
		class = colorDark
	case r > g && r > b:
		class = colorWarm
	case g > r && g > b:
		class = colorVegetation
	case b > r && b > g:
		class = colorCool
	default:
		class = colorNeutral
	}

	return colorProfile{class: class, variance: variance}
}

// textureScore is the mean absolute luminance gradient. High values
// read as crack/peel irregularity, very low values as flat render.
func textureScore(s domain.ImageSample) float64 {
	var sum float64
	var n int

	step := sampleStep(s)
	for y := 0; y < s.Height-step; y += step {
		for x := 0; x < s.Width-step; x += step {
			c := s.LuminanceAt(x, y)
			gx := s.LuminanceAt(x+step, y) - c
			gy := s.LuminanceAt(x, y+step) - c
			if gx < 0 {
				gx = -gx
			}
			if gy < 0 {
				gy = -gy
			}
			sum += (gx + gy) / 2
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

type bandProfile struct {
	raw      []int // rows with an abrupt horizontal-sum change
	filtered []int // raw rows at least height/10 apart
	height   int
}

// horizontalBands finds rows where the horizontal luminance sum changes
// abruptly — window rows and floor lines produce exactly that signature.
func horizontalBands(s domain.ImageSample) bandProfile {
	step := sampleStep(s)

	rows := make([]float64, 0, s.Height/step+1)
	for y := 0; y < s.Height; y += step {
		var sum float64
		for x := 0; x < s.Width; x += step {
			sum += s.LuminanceAt(x, y)
		}
		rows = append(rows, sum)
	}
	if len(rows) < 3 {
		return bandProfile{height: s.Height}
	}

	diffs := make([]float64, len(rows)-1)
	var mean float64
	for i := 1; i < len(rows); i++ {
		d := rows[i] - rows[i-1]
		if d < 0 {
			d = -d
		}
		diffs[i-1] = d
		mean += d
	}
	mean /= float64(len(diffs))

	var variance float64
	for _, d := range diffs {
		variance += (d - mean) * (d - mean)
	}
	variance /= float64(len(diffs))
	threshold := mean + 2*math.Sqrt(variance)

	var raw []int
	for i, d := range diffs {
		if d > threshold {
			raw = append(raw, i*step)
		}
	}

	// Merge bands closer than a tenth of the frame: one floor line can
	// trigger several adjacent rows.
	minGap := s.Height / 10
	var filtered []int
	for _, y := range raw {
		if len(filtered) == 0 || y-filtered[len(filtered)-1] > minGap {
			filtered = append(filtered, y)
		}
	}

	return bandProfile{raw: raw, filtered: filtered, height: s.Height}
}

// estimateFloors turns detected bands into a floor count. A window row
// produces bands at its top and bottom plus a floor line, so roughly
// three filtered bands mark one level. A weak signal defaults to one
// floor, which the caller penalizes.
func estimateFloors(b bandProfile) (count int, defaulted bool) {
	if len(b.filtered) < 2 {
		return minFloors, true
	}
	count = len(b.filtered) / 3
	if count < minFloors {
		return minFloors, true
	}
	if count > maxFloors {
		count = maxFloors
	}
	return count, false
}

func guessTypeFromStructure(rawBands int, aspect, variance float64) domain.BuildingType {
	manyBands := rawBands > 15
	tall := aspect < 0.8
	wide := aspect > 1.5

	switch {
	case manyBands && tall:
		return domain.TypeCollective
	case manyBands && !wide:
		return domain.TypeApartment
	case !manyBands && variance < 500:
		return domain.TypeLand
	default:
		return domain.TypeHouse
	}
}

func guessTypeFromColor(class colorClass, aspect float64) domain.BuildingType {
	switch {
	case class == colorVegetation && aspect > 1.5:
		return domain.TypeHouse
	case class == colorVegetation:
		return domain.TypeLand
	case class == colorDark:
		return domain.TypeCommercial
	case class == colorLight || class == colorWarm:
		return domain.TypeHouse
	default:
		return domain.TypeApartment
	}
}

// reconcileType prefers the structural (edge-based) read; the color
// read only overrides it for vegetation-dominated land scenes.
func reconcileType(fromColor, fromEdges domain.BuildingType) domain.BuildingType {
	if fromColor == domain.TypeLand && fromEdges == domain.TypeHouse {
		return domain.TypeLand
	}
	return fromEdges
}

// guessCondition maps texture irregularity onto the ordered condition
// scale. Cracks and peeling read as high local edge density, so rising
// texture walks down the scale.
func guessCondition(colors colorProfile, texture float64) domain.Condition {
	light := colors.class == colorLight

	switch {
	case light && texture < 15 && colors.variance < 2000:
		return domain.ConditionNew
	case light && texture < 25:
		return domain.ConditionVeryGood
	case texture < 35:
		return domain.ConditionGood
	case texture < 50:
		return domain.ConditionFair
	case texture < 70:
		return domain.ConditionLightWork
	case texture < 90:
		return domain.ConditionRenovation
	default:
		return domain.ConditionMajorWork
	}
}
