package scoring

import (
	"testing"

	"github.com/spigell/guest-tracker/internal/guest"
)

func TestRecommendationFor(t *testing.T) {
	tests := []struct {
		score int
		want  Recommendation
	}{
		{100, HighlyRecommended},
		{85, HighlyRecommended},
		{84, Recommended},
		{70, Recommended},
		{69, Consider},
		{55, Consider},
		{54, LowPriority},
		{40, LowPriority},
		{39, NotRecommended},
		{0, NotRecommended},
	}

	for _, tt := range tests {
		if got := RecommendationFor(tt.score); got != tt.want {
			t.Fatalf("score %d: expected %s, got %s", tt.score, tt.want, got)
		}
	}
}

func TestRecommendationIsMonotonic(t *testing.T) {
	rank := make(map[Recommendation]int, len(Recommendations))
	for i, r := range Recommendations {
		rank[r] = len(Recommendations) - i
	}

	prev := rank[RecommendationFor(0)]
	for score := 1; score <= 100; score++ {
		cur := rank[RecommendationFor(score)]
		if cur < prev {
			t.Fatalf("tier dropped at score %d", score)
		}
		prev = cur
	}
}

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		name    string
		quality int
		conf    int
		videos  int
		want    Confidence
	}{
		{"high", 70, 70, 20, ConfidenceHigh},
		{"few videos", 90, 90, 19, ConfidenceMedium},
		{"medium", 50, 50, 10, ConfidenceMedium},
		{"low quality", 49, 90, 50, ConfidenceLow},
		{"no videos", 90, 90, 9, ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := confidenceFor(guest.Metadata{DataQualityScore: tt.quality, ConfidenceScore: tt.conf}, tt.videos)
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestStrengthsAndConcerns(t *testing.T) {
	values := map[Factor]float64{
		TopicAlignment:      0.75,
		AuthorityScore:      0.4,
		AudienceAppeal:      0.6,
		UniquenessFactor:    0.7,
		EngagementPotential: 0.1,
	}

	strengths := keyStrengths(values)
	if len(strengths) != 2 || strengths[0] != "Good alignment with channel topics" || strengths[1] != "Relatively fresh perspective" {
		t.Fatalf("unexpected soft strengths: %v", strengths)
	}

	got := areasOfConcern(values)
	if len(got) != 2 || got[0] != "Limited authority/credibility in relevant fields" || got[1] != "Limited potential for audience engagement" {
		t.Fatalf("unexpected concerns: %v", got)
	}

	values[AudienceAppeal] = 0.8
	strengths = keyStrengths(values)
	if len(strengths) != 1 || strengths[0] != "Strong potential audience appeal" {
		t.Fatalf("expected only strong strengths, got %v", strengths)
	}
}
