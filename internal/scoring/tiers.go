package scoring

import "github.com/spigell/guest-tracker/internal/guest"

type Recommendation string

const (
	HighlyRecommended Recommendation = "HIGHLY_RECOMMENDED"
	Recommended       Recommendation = "RECOMMENDED"
	Consider          Recommendation = "CONSIDER"
	LowPriority       Recommendation = "LOW_PRIORITY"
	NotRecommended    Recommendation = "NOT_RECOMMENDED"
)

// Recommendations lists the tiers from best to worst.
var Recommendations = []Recommendation{HighlyRecommended, Recommended, Consider, LowPriority, NotRecommended}

// Positive reports whether the tier suggests inviting the guest.
func (r Recommendation) Positive() bool {
	return r == HighlyRecommended || r == Recommended
}

func RecommendationFor(score int) Recommendation {
	switch {
	case score >= 85:
		return HighlyRecommended
	case score >= 70:
		return Recommended
	case score >= 55:
		return Consider
	case score >= 40:
		return LowPriority
	default:
		return NotRecommended
	}
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// confidenceFor grades how much the inputs can be trusted.
func confidenceFor(meta guest.Metadata, videosAnalyzed int) Confidence {
	quality, confidence := meta.DataQualityScore, meta.ConfidenceScore
	switch {
	case quality >= 70 && confidence >= 70 && videosAnalyzed >= 20:
		return ConfidenceHigh
	case quality >= 50 && confidence >= 50 && videosAnalyzed >= 10:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func keyStrengths(values map[Factor]float64) []string {
	strengths := labelsWhere(values, strongStrengths, func(v float64) bool { return v*100 >= 80 })
	if len(strengths) == 0 {
		strengths = labelsWhere(values, softStrengths, func(v float64) bool { return v*100 >= 70 })
	}
	return strengths
}

func areasOfConcern(values map[Factor]float64) []string {
	return labelsWhere(values, concerns, func(v float64) bool { return v*100 <= 40 })
}

func labelsWhere(values map[Factor]float64, labels map[Factor]string, match func(float64) bool) []string {
	out := []string{}
	for _, f := range Factors {
		if match(values[f]) {
			out = append(out, labels[f])
		}
	}
	return out
}
