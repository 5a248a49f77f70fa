package scoring

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/spigell/guest-tracker/internal/guest"
	"github.com/spigell/guest-tracker/internal/host"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func fitGuest() *guest.Profile {
	return &guest.Profile{
		Name:                     "Alex Rivera",
		Industry:                 "Technology",
		BioSummary:               "Builds AI tools for founders",
		ExpertiseAreas:           []string{"artificial intelligence", "startups"},
		KeyTopics:                []string{"technology", "entrepreneurship"},
		AuthorityIndicators:      []string{"Founder of Acme AI", "CEO"},
		SocialFollowing:          map[string]string{"twitter": "2M", "linkedin": "500+"},
		PreviousPodcasts:         []string{"Show A", "Show B", "Show C"},
		PopularityIndicators:     []string{"Bestselling author", "Keynote speaker"},
		RecentActivities:         []string{"Recently launched a new product"},
		PotentialInterviewTopics: []string{"Technology trends in AI", "Scaling startups"},
		Metadata:                 guest.Metadata{DataQualityScore: 80, ConfidenceScore: 75},
	}
}

func fitChannel() *host.Analysis {
	return &host.Analysis{
		ChannelURL:     "https://youtube.com/@builders",
		VideosAnalyzed: 25,
		ChannelDNA: host.Report{DNA: host.DNA{
			PrimaryTopics:     []string{"Technology", "Entrepreneurship"},
			AudienceProfile:   "tech entrepreneurs and founders",
			EngagementDrivers: []string{"technology trends"},
		}},
		RawVideoData: []host.Video{{Title: "The future of work"}, {Title: "Interview with Jane"}},
	}
}

func newDefaultScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := NewScorer(DefaultWeights())
	if err != nil {
		t.Fatalf("new scorer: %v", err)
	}
	return s
}

func TestScoreStrongFit(t *testing.T) {
	result, err := newDefaultScorer(t).Score(fitGuest(), fitChannel())
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	if v := result.Breakdown.TopicAlignment.Value; v < 0.7 {
		t.Fatalf("expected topic alignment >= 0.7, got %v", v)
	}
	if v := result.Breakdown.AuthorityScore.Value; v != 1 {
		t.Fatalf("expected capped authority, got %v", v)
	}
	if result.OverallScore < 85 || result.Recommendation != HighlyRecommended {
		t.Fatalf("expected highly recommended, got %d %s", result.OverallScore, result.Recommendation)
	}
	if result.OverallScore != 92 {
		t.Fatalf("expected overall 92, got %d", result.OverallScore)
	}
	if result.Confidence != ConfidenceHigh {
		t.Fatalf("expected high confidence, got %s", result.Confidence)
	}

	wantScores := map[Factor]int{
		TopicAlignment:      100,
		AuthorityScore:      100,
		AudienceAppeal:      88,
		UniquenessFactor:    70,
		EngagementPotential: 71,
	}
	for f, want := range wantScores {
		got := result.Breakdown.Get(f)
		if got.Score != want {
			t.Fatalf("%s: expected %d, got %d", f, want, got.Score)
		}
		if got.Weight != DefaultWeights().Of(f) {
			t.Fatalf("%s: unexpected weight %v", f, got.Weight)
		}
	}

	wantStrengths := []string{
		"Strong alignment with channel topics",
		"High authority/credibility in their field",
		"Strong potential audience appeal",
	}
	if !reflect.DeepEqual(result.KeyStrengths, wantStrengths) {
		t.Fatalf("unexpected strengths: %v", result.KeyStrengths)
	}
	if len(result.AreasOfConcern) != 0 {
		t.Fatalf("expected no concerns, got %v", result.AreasOfConcern)
	}

	interview := result.Interview
	if interview.EstimatedEngagement != EngagementHigh {
		t.Fatalf("expected high engagement, got %s", interview.EstimatedEngagement)
	}
	wantNotes := []string{
		"Research guest's recent work and publications",
		"Focus on Technology trends in AI which aligns with channel interests",
	}
	if !reflect.DeepEqual(interview.PreparationNotes, wantNotes) {
		t.Fatalf("unexpected notes: %v", interview.PreparationNotes)
	}
	if !reflect.DeepEqual(interview.FocusTopics, []string{"Technology trends in AI", "Scaling startups"}) {
		t.Fatalf("unexpected focus topics: %v", interview.FocusTopics)
	}
}

func TestScoreEmptyProfile(t *testing.T) {
	result, err := newDefaultScorer(t).Score(&guest.Profile{}, &host.Analysis{})
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	if result.GuestName != "Unknown Guest" {
		t.Fatalf("unexpected name %q", result.GuestName)
	}
	if v := result.Breakdown.TopicAlignment.Value; v != 0.5 {
		t.Fatalf("expected neutral topic alignment, got %v", v)
	}
	// 0.35*0.5 + 0.25*0.5 + 0.2*0.6 + 0.1*0.7 + 0.1*0.5
	if result.OverallScore != 54 || result.Recommendation != LowPriority {
		t.Fatalf("expected 54 LOW_PRIORITY, got %d %s", result.OverallScore, result.Recommendation)
	}
	if result.Confidence != ConfidenceLow {
		t.Fatalf("expected low confidence, got %s", result.Confidence)
	}
	if !reflect.DeepEqual(result.KeyStrengths, []string{"Relatively fresh perspective"}) {
		t.Fatalf("unexpected strengths: %v", result.KeyStrengths)
	}
	if result.AreasOfConcern == nil || len(result.AreasOfConcern) != 0 {
		t.Fatalf("expected empty concerns, got %#v", result.AreasOfConcern)
	}
	if result.Interview.FocusTopics == nil || len(result.Interview.FocusTopics) != 0 {
		t.Fatalf("expected empty focus topics, got %#v", result.Interview.FocusTopics)
	}
	wantNotes := []string{"Carefully prepare to bridge guest expertise with channel topics"}
	if !reflect.DeepEqual(result.Interview.PreparationNotes, wantNotes) {
		t.Fatalf("unexpected notes: %v", result.Interview.PreparationNotes)
	}
}

func TestScoreWeakFitNotes(t *testing.T) {
	g := &guest.Profile{
		Name:             "Pat Lee",
		ExpertiseAreas:   []string{"gardening"},
		PreviousPodcasts: []string{guest.UndeterminedPodcasts},
	}
	analysis := fitChannel()

	result, err := newDefaultScorer(t).Score(g, analysis)
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	if v := result.Breakdown.TopicAlignment.Value; v != 0 {
		t.Fatalf("expected no topic alignment, got %v", v)
	}
	if result.AreasOfConcern[0] != "Limited alignment with channel topics" {
		t.Fatalf("unexpected concerns: %v", result.AreasOfConcern)
	}
	wantNotes := []string{
		"Carefully prepare to bridge guest expertise with channel topics",
		"Consider narrowing interview focus to most relevant topics",
		"Guest may have limited podcast experience - prepare accordingly",
	}
	if !reflect.DeepEqual(result.Interview.PreparationNotes, wantNotes) {
		t.Fatalf("unexpected notes: %v", result.Interview.PreparationNotes)
	}
	if !reflect.DeepEqual(result.Interview.FocusTopics, []string{"gardening"}) {
		t.Fatalf("expected expertise as focus topics, got %v", result.Interview.FocusTopics)
	}
	if result.Interview.EstimatedEngagement != EngagementLow {
		t.Fatalf("expected low engagement, got %s", result.Interview.EstimatedEngagement)
	}
}

func TestScoreIsIdempotent(t *testing.T) {
	s := newDefaultScorer(t)
	g, h := fitGuest(), fitChannel()

	first, err := s.Score(g, h)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	second, err := s.Score(g, h)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results:\n%+v\n%+v", first, second)
	}
}

func TestScoreMissingInput(t *testing.T) {
	s := newDefaultScorer(t)

	if _, err := s.Score(nil, &host.Analysis{}); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput for guest, got %v", err)
	}
	if _, err := s.Score(&guest.Profile{}, nil); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput for host, got %v", err)
	}
}

func TestScoreCustomWeights(t *testing.T) {
	s, err := NewScorer(Weights{TopicAlignment: 1})
	if err != nil {
		t.Fatalf("new scorer: %v", err)
	}

	result, err := s.Score(&guest.Profile{}, &host.Analysis{})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.OverallScore != 50 {
		t.Fatalf("expected overall driven by topic only, got %d", result.OverallScore)
	}
}

func TestWeightsValidate(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
		wantErr bool
	}{
		{name: "defaults", weights: DefaultWeights()},
		{name: "single factor", weights: Weights{AudienceAppeal: 1}},
		{name: "sum above one", weights: Weights{TopicAlignment: 0.5, AuthorityScore: 0.5, AudienceAppeal: 0.5}, wantErr: true},
		{name: "sum below one", weights: Weights{TopicAlignment: 0.2}, wantErr: true},
		{name: "negative", weights: Weights{TopicAlignment: 1.2, AuthorityScore: -0.2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidWeights) {
					t.Fatalf("expected ErrInvalidWeights, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}

	if _, err := NewScorer(Weights{}); !errors.Is(err, ErrInvalidWeights) {
		t.Fatalf("expected NewScorer to reject zero weights, got %v", err)
	}
}

func TestScoreStaysInRangeForExtremeInputs(t *testing.T) {
	weightSets := map[string]Weights{
		"default":    DefaultWeights(),
		"topic":      {TopicAlignment: 1},
		"authority":  {AuthorityScore: 1},
		"audience":   {AudienceAppeal: 1},
		"uniqueness": {UniquenessFactor: 1},
		"engagement": {EngagementPotential: 1},
		"even":       {TopicAlignment: 0.2, AuthorityScore: 0.2, AudienceAppeal: 0.2, UniquenessFactor: 0.2, EngagementPotential: 0.2},
		"skewed":     {TopicAlignment: 0.7, AuthorityScore: 0.1, AudienceAppeal: 0.1, UniquenessFactor: 0.05, EngagementPotential: 0.05},
	}

	loaded := fitGuest()
	loaded.SocialFollowing = map[string]string{"twitter": "900M", "youtube": "50M", "linkedin": "10 billion"}
	loaded.PreviousPodcasts = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}
	loaded.AuthorityIndicators = []string{"Founder", "CEO", "Professor", "Author", "Nobel laureate", "Investor", "Advisor"}
	loaded.PopularityIndicators = []string{"Bestselling author", "Keynote speaker", "TED speaker", "Viral", "Award winner"}
	loaded.RecentActivities = []string{"Launched", "Published", "Announced", "Released", "Keynote"}

	repeated := fitChannel()
	repeated.RawVideoData = []host.Video{
		{Title: "Alex Rivera on AI"},
		{Title: "Alex Rivera returns"},
		{Title: "Technology trends in AI"},
	}

	inputs := map[string]struct {
		guest   *guest.Profile
		channel *host.Analysis
	}{
		"empty":           {guest: &guest.Profile{}, channel: &host.Analysis{}},
		"strong fit":      {guest: fitGuest(), channel: fitChannel()},
		"weak fit":        {guest: &guest.Profile{ExpertiseAreas: []string{"gardening"}, PreviousPodcasts: []string{guest.UndeterminedPodcasts}}, channel: fitChannel()},
		"loaded guest":    {guest: loaded, channel: fitChannel()},
		"repeated guest":  {guest: fitGuest(), channel: repeated},
		"empty channel":   {guest: loaded, channel: &host.Analysis{}},
		"malformed count": {guest: &guest.Profile{SocialFollowing: map[string]string{"x": "-5M", "y": "lots"}}, channel: fitChannel()},
	}

	for wname, weights := range weightSets {
		s, err := NewScorer(weights)
		if err != nil {
			t.Fatalf("%s: new scorer: %v", wname, err)
		}
		for iname, in := range inputs {
			result, err := s.Score(in.guest, in.channel)
			if err != nil {
				t.Fatalf("%s/%s: score: %v", wname, iname, err)
			}

			if result.OverallScore < 0 || result.OverallScore > 100 {
				t.Fatalf("%s/%s: overall %d out of range", wname, iname, result.OverallScore)
			}
			if want := RecommendationFor(result.OverallScore); result.Recommendation != want {
				t.Fatalf("%s/%s: recommendation %s for overall %d, want %s", wname, iname, result.Recommendation, result.OverallScore, want)
			}
			for _, f := range Factors {
				entry := result.Breakdown.Get(f)
				if entry.Score < 0 || entry.Score > 100 {
					t.Fatalf("%s/%s: %s score %d out of range", wname, iname, f, entry.Score)
				}
				if entry.Value < 0 || entry.Value > 1 {
					t.Fatalf("%s/%s: %s value %v out of range", wname, iname, f, entry.Value)
				}
				if entry.Weight != weights.Of(f) {
					t.Fatalf("%s/%s: %s weight %v, want %v", wname, iname, f, entry.Weight, weights.Of(f))
				}
			}
		}
	}
}
