package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/spigell/guest-tracker/internal/guest"
	"github.com/spigell/guest-tracker/internal/host"
	"github.com/spigell/guest-tracker/internal/utils"
)

var ErrMissingInput = errors.New("scoring input is missing")

const unknownGuest = "Unknown Guest"

// FactorScore is one entry of the score breakdown.
type FactorScore struct {
	Score  int     `json:"score"`
	Weight float64 `json:"weight"`
	Value  float64 `json:"value"`
}

type Breakdown struct {
	TopicAlignment      FactorScore `json:"topic_alignment"`
	AuthorityScore      FactorScore `json:"authority_score"`
	AudienceAppeal      FactorScore `json:"audience_appeal"`
	UniquenessFactor    FactorScore `json:"uniqueness_factor"`
	EngagementPotential FactorScore `json:"engagement_potential"`
}

// Get returns the breakdown entry of a factor.
func (b Breakdown) Get(f Factor) FactorScore {
	switch f {
	case TopicAlignment:
		return b.TopicAlignment
	case AuthorityScore:
		return b.AuthorityScore
	case AudienceAppeal:
		return b.AudienceAppeal
	case UniquenessFactor:
		return b.UniquenessFactor
	case EngagementPotential:
		return b.EngagementPotential
	}
	return FactorScore{}
}

func (b *Breakdown) set(f Factor, score FactorScore) {
	switch f {
	case TopicAlignment:
		b.TopicAlignment = score
	case AuthorityScore:
		b.AuthorityScore = score
	case AudienceAppeal:
		b.AudienceAppeal = score
	case UniquenessFactor:
		b.UniquenessFactor = score
	case EngagementPotential:
		b.EngagementPotential = score
	}
}

// Result is the relevance verdict for one guest and one channel.
type Result struct {
	GuestName      string                   `json:"guest_name"`
	OverallScore   int                      `json:"overall_relevance_score"`
	Recommendation Recommendation           `json:"recommendation"`
	Confidence     Confidence               `json:"confidence_level"`
	Breakdown      Breakdown                `json:"score_breakdown"`
	KeyStrengths   []string                 `json:"key_strengths"`
	AreasOfConcern []string                 `json:"areas_of_concern"`
	Interview      InterviewRecommendations `json:"interview_recommendations"`
}

// Scorer computes relevance results. It holds no mutable state.
type Scorer struct {
	weights Weights
}

func NewScorer(weights Weights) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: weights}, nil
}

func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score rates how well the guest fits the channel. Missing nested data
// falls back to neutral sub-scores; only absent records are an error.
func (s *Scorer) Score(g *guest.Profile, h *host.Analysis) (*Result, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: guest profile", ErrMissingInput)
	}
	if h == nil {
		return nil, fmt.Errorf("%w: host analysis", ErrMissingInput)
	}

	dna := h.ChannelDNA.DNA
	values := map[Factor]float64{
		TopicAlignment:      topicAlignment(g, dna),
		AuthorityScore:      authority(g),
		AudienceAppeal:      audienceAppeal(g, dna),
		UniquenessFactor:    uniqueness(g, dna, h.RawVideoData),
		EngagementPotential: engagement(g, dna),
	}

	result := &Result{
		GuestName:      g.Name,
		Confidence:     confidenceFor(g.Metadata, h.VideosAnalyzed),
		KeyStrengths:   keyStrengths(values),
		AreasOfConcern: areasOfConcern(values),
	}
	if result.GuestName == "" {
		result.GuestName = unknownGuest
	}

	weighted := 0.0
	for _, f := range Factors {
		weight := s.weights.Of(f)
		weighted += values[f] * weight
		result.Breakdown.set(f, FactorScore{
			Score:  percent(values[f]),
			Weight: weight,
			Value:  utils.Round(values[f], 4),
		})
	}

	result.OverallScore = min(100, max(0, int(math.RoundToEven(weighted*100))))
	result.Recommendation = RecommendationFor(result.OverallScore)
	result.Interview = interviewRecommendations(g, dna, result.OverallScore, values[TopicAlignment])

	return result, nil
}

func percent(v float64) int {
	return int(math.RoundToEven(v * 100))
}
