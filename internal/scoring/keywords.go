package scoring

import (
	"strings"
	"unicode/utf8"
)

// Factor names one of the five sub-scores.
type Factor string

const (
	TopicAlignment      Factor = "topic_alignment"
	AuthorityScore      Factor = "authority_score"
	AudienceAppeal      Factor = "audience_appeal"
	UniquenessFactor    Factor = "uniqueness_factor"
	EngagementPotential Factor = "engagement_potential"
)

// Factors lists every factor in reporting order.
var Factors = []Factor{TopicAlignment, AuthorityScore, AudienceAppeal, UniquenessFactor, EngagementPotential}

var factorTitles = map[Factor]string{
	TopicAlignment:      "Topic Alignment",
	AuthorityScore:      "Authority Score",
	AudienceAppeal:      "Audience Appeal",
	UniquenessFactor:    "Uniqueness Factor",
	EngagementPotential: "Engagement Potential",
}

// Title is the human readable factor name.
func (f Factor) Title() string {
	if title, ok := factorTitles[f]; ok {
		return title
	}
	return string(f)
}

// authorityTerms mark an authority indicator as strong.
var authorityTerms = []string{"founder", "ceo", "author", "expert", "award", "professor", "phd", "leader"}

// timelyTerms mark a recent activity as timely.
var timelyTerms = []string{"recent", "new", "launch", "announce", "publish", "release"}

var (
	strongStrengths = map[Factor]string{
		TopicAlignment:      "Strong alignment with channel topics",
		AuthorityScore:      "High authority/credibility in their field",
		AudienceAppeal:      "Strong potential audience appeal",
		UniquenessFactor:    "Brings fresh perspective to the channel",
		EngagementPotential: "High potential for audience engagement",
	}
	softStrengths = map[Factor]string{
		TopicAlignment:      "Good alignment with channel topics",
		AuthorityScore:      "Solid credentials in their field",
		AudienceAppeal:      "Appealing to channel audience",
		UniquenessFactor:    "Relatively fresh perspective",
		EngagementPotential: "Good potential for engagement",
	}
	concerns = map[Factor]string{
		TopicAlignment:      "Limited alignment with channel topics",
		AuthorityScore:      "Limited authority/credibility in relevant fields",
		AudienceAppeal:      "May not appeal to channel audience",
		UniquenessFactor:    "Similar to previous guests/content",
		EngagementPotential: "Limited potential for audience engagement",
	}
)

// minTokenRunes is the shortest word considered meaningful for matching.
const minTokenRunes = 4

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// overlaps reports whether either string contains the other.
func overlaps(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// tokens collects the distinct meaningful lowercase words of items.
func tokens(items ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, list := range items {
		for _, item := range list {
			for _, word := range strings.Fields(strings.ToLower(item)) {
				if utf8.RuneCountInString(word) >= minTokenRunes {
					set[word] = struct{}{}
				}
			}
		}
	}
	return set
}

func lowerAll(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = strings.ToLower(item)
	}
	return out
}
