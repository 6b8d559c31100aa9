package vision

import (
	"github.com/estimmo/backend/internal/domain"
	"github.com/estimmo/backend/pkg/utils"
)

// disagreementWeight scales how hard conflicting per-image votes pull
// the aggregated confidence down.
const disagreementWeight = 0.35

// Aggregate reduces per-image assessments into one VisionAssessment.
//
// Type and condition are decided by majority vote weighted by per-image
// confidence, ties broken by the highest single-image confidence. Floor
// count takes the maximum observed across photos: an oblique angle can
// only undercount floors, so averaging would smooth real floors away.
// Overall confidence is the mean of per-image confidences scaled down
// by a penalty proportional to how split the votes were.
func Aggregate(assessments []ImageAssessment) (domain.VisionAssessment, error) {
	if len(assessments) == 0 {
		return domain.VisionAssessment{}, domain.ErrInsufficientVisionInput
	}

	typeVotes := make(map[domain.BuildingType]*vote)
	condVotes := make(map[domain.Condition]*vote)

	floors := minFloors
	var confSum float64
	scores := make([]float64, 0, len(assessments))

	for _, a := range assessments {
		addVote(typeVotes, a.BuildingType, a.Confidence)
		addVote(condVotes, a.Condition, a.Confidence)
		if a.FloorCount > floors {
			floors = a.FloorCount
		}
		confSum += a.Confidence
		scores = append(scores, utils.RoundTo(a.Confidence, 1))
	}

	winnerType, typeAgreement := winner(typeVotes)
	winnerCond, condAgreement := winner(condVotes)

	disagreement := 1 - (typeAgreement+condAgreement)/2
	confidence := confSum / float64(len(assessments))
	confidence *= 1 - disagreementWeight*disagreement
	confidence = utils.Clamp(confidence, 0, 100)

	return domain.VisionAssessment{
		BuildingType:   winnerType,
		Condition:      winnerCond,
		ConditionLabel: winnerCond.Label(),
		FloorCount:     floors,
		Confidence:     utils.RoundTo(confidence, 1),
		ImageCount:     len(assessments),
		PerImageScores: scores,
		AnalysisMethod: "heuristic",
	}, nil
}

type vote struct {
	weight float64
	best   float64
}

func addVote[K comparable](votes map[K]*vote, key K, confidence float64) {
	v := votes[key]
	if v == nil {
		v = &vote{}
		votes[key] = v
	}
	// A zero-confidence image still counts as a voter, just a weak one.
	v.weight += confidence + 1
	if confidence > v.best {
		v.best = confidence
	}
}

// winner returns the key holding the most weight and the share of total
// weight it holds. Ties go to the key with the highest single vote.
func winner[K comparable](votes map[K]*vote) (K, float64) {
	var best K
	var bestVote *vote
	var total float64

	for key, v := range votes {
		total += v.weight
		switch {
		case bestVote == nil,
			v.weight > bestVote.weight,
			v.weight == bestVote.weight && v.best > bestVote.best:
			best = key
			bestVote = v
		}
	}
	if total == 0 {
		return best, 1
	}
	return best, bestVote.weight / total
}
