package scoring

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidWeights = errors.New("invalid scoring weights")

const weightTolerance = 1e-9

// Weights are the factor multipliers of the overall score. They must sum to 1.
type Weights struct {
	TopicAlignment      float64 `json:"topic_alignment" mapstructure:"topic-alignment"`
	AuthorityScore      float64 `json:"authority_score" mapstructure:"authority-score"`
	AudienceAppeal      float64 `json:"audience_appeal" mapstructure:"audience-appeal"`
	UniquenessFactor    float64 `json:"uniqueness_factor" mapstructure:"uniqueness-factor"`
	EngagementPotential float64 `json:"engagement_potential" mapstructure:"engagement-potential"`
}

func DefaultWeights() Weights {
	return Weights{
		TopicAlignment:      0.35,
		AuthorityScore:      0.25,
		AudienceAppeal:      0.20,
		UniquenessFactor:    0.10,
		EngagementPotential: 0.10,
	}
}

// Of returns the weight of a single factor.
func (w Weights) Of(f Factor) float64 {
	switch f {
	case TopicAlignment:
		return w.TopicAlignment
	case AuthorityScore:
		return w.AuthorityScore
	case AudienceAppeal:
		return w.AudienceAppeal
	case UniquenessFactor:
		return w.UniquenessFactor
	case EngagementPotential:
		return w.EngagementPotential
	}
	return 0
}

func (w Weights) Validate() error {
	sum := 0.0
	for _, f := range Factors {
		v := w.Of(f)
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: %s weight %v is negative", ErrInvalidWeights, f, v)
		}
		sum += v
	}
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %v, want 1.0", ErrInvalidWeights, sum)
	}
	return nil
}
