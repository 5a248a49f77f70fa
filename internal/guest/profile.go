package guest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/guest-tracker/internal/utils"
)

// UndeterminedPodcasts marks a previous_podcasts list the producer could not fill.
const UndeterminedPodcasts = "Unable to determine"

var (
	ErrProfileMissing = errors.New("guest profile is missing")
	ErrNameRequired   = errors.New("guest profile name is required")
)

// Profile is the normalized description of a prospective guest.
type Profile struct {
	Name                     string            `json:"name" mapstructure:"name"`
	Designation              string            `json:"designation" mapstructure:"designation"`
	Company                  string            `json:"company" mapstructure:"company"`
	Industry                 string            `json:"industry" mapstructure:"industry"`
	BioSummary               string            `json:"bio_summary" mapstructure:"bio_summary"`
	ExpertiseAreas           []string          `json:"expertise_areas" mapstructure:"expertise_areas"`
	KeyTopics                []string          `json:"key_topics" mapstructure:"key_topics"`
	AuthorityIndicators      []string          `json:"authority_indicators" mapstructure:"authority_indicators"`
	SocialFollowing          map[string]string `json:"social_following" mapstructure:"social_following"`
	PreviousPodcasts         []string          `json:"previous_podcasts" mapstructure:"previous_podcasts"`
	PopularityIndicators     []string          `json:"popularity_indicators" mapstructure:"popularity_indicators"`
	RecentActivities         []string          `json:"recent_activities" mapstructure:"recent_activities"`
	PotentialInterviewTopics []string          `json:"potential_interview_topics" mapstructure:"potential_interview_topics"`
	Metadata                 Metadata          `json:"extraction_metadata" mapstructure:"extraction_metadata"`
}

// Metadata describes how a profile was produced. Scores are 0-100.
type Metadata struct {
	Timestamp        string   `json:"timestamp" mapstructure:"timestamp"`
	DataQualityScore int      `json:"data_quality_score" mapstructure:"data_quality_score"`
	ConfidenceScore  int      `json:"confidence_score" mapstructure:"confidence_score"`
	SourcesUsed      []string `json:"sources_used" mapstructure:"sources_used"`
	Error            string   `json:"error,omitempty" mapstructure:"error"`
}

// HasPodcastHistory is false when the producer marked the history as unknown.
func (p *Profile) HasPodcastHistory() bool {
	return len(p.PreviousPodcasts) == 0 || p.PreviousPodcasts[0] != UndeterminedPodcasts
}

// aliases maps keys emitted by older producers to the normalized field names.
var aliases = map[string]string{
	"expertise":            "expertise_areas",
	"current_designation":  "designation",
	"title":                "designation",
	"bio":                  "bio_summary",
	"topics":               "key_topics",
	"notable_achievements": "authority_indicators",
	"interview_topics":     "potential_interview_topics",
	"podcasts":             "previous_podcasts",
}

// Decode converts a loose producer mapping into a Profile. Absent keys
// decode to empty values, comma separated strings become lists and numeric
// follower counts become strings.
func Decode(raw map[string]any) (*Profile, error) {
	if raw == nil {
		return nil, ErrProfileMissing
	}

	normalized := make(map[string]any, len(raw))
	for key, value := range raw {
		key = strings.ToLower(strings.TrimSpace(key))
		if alias, ok := aliases[key]; ok {
			if _, exists := raw[alias]; exists {
				continue
			}
			key = alias
		}
		normalized[key] = value
	}

	var profile Profile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       utils.SplitStringHook,
		WeaklyTypedInput: true,
		Result:           &profile,
	})
	if err != nil {
		return nil, fmt.Errorf("create profile decoder: %w", err)
	}

	if err := decoder.Decode(normalized); err != nil {
		return nil, fmt.Errorf("decode guest profile: %w", err)
	}

	profile.normalize()
	if profile.Name == "" {
		return nil, ErrNameRequired
	}

	return &profile, nil
}

// Minimal returns a profile holding only identity, used when nothing else is known.
func Minimal(name, cause string) *Profile {
	p := &Profile{
		Name:             strings.TrimSpace(name),
		PreviousPodcasts: []string{UndeterminedPodcasts},
		Metadata:         Metadata{Error: cause},
	}
	p.normalize()
	return p
}

func (p *Profile) normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.ExpertiseAreas = utils.CleanList(p.ExpertiseAreas)
	p.KeyTopics = utils.CleanList(p.KeyTopics)
	p.AuthorityIndicators = utils.CleanList(p.AuthorityIndicators)
	p.PreviousPodcasts = utils.CleanList(p.PreviousPodcasts)
	p.PopularityIndicators = utils.CleanList(p.PopularityIndicators)
	p.RecentActivities = utils.CleanList(p.RecentActivities)
	p.PotentialInterviewTopics = utils.CleanList(p.PotentialInterviewTopics)
	p.Metadata.SourcesUsed = utils.CleanList(p.Metadata.SourcesUsed)
	if p.SocialFollowing == nil {
		p.SocialFollowing = map[string]string{}
	}
	for platform, count := range p.SocialFollowing {
		p.SocialFollowing[platform] = strings.TrimSpace(count)
	}
}
