package host

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/guest-tracker/internal/utils"
)

// Video is a single upload of the host channel.
type Video struct {
	Title        string   `json:"title"`
	VideoID      string   `json:"video_id"`
	ViewCount    int64    `json:"view_count"`
	LikeCount    int64    `json:"like_count"`
	CommentCount int64    `json:"comment_count"`
	Duration     int      `json:"duration"`
	UploadDate   string   `json:"upload_date"`
	Description  string   `json:"description,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	URL          string   `json:"url,omitempty"`
}

// Analysis is everything known about a host channel at one point in time.
type Analysis struct {
	ChannelURL     string    `json:"channel_url"`
	AnalyzedAt     time.Time `json:"analysis_timestamp"`
	VideosAnalyzed int       `json:"videos_analyzed"`
	Performance    Metrics   `json:"performance_metrics"`
	ChannelDNA     Report    `json:"channel_dna"`
	RawVideoData   []Video   `json:"raw_video_data"`

	// Degraded is set when the videos could not be fetched.
	Degraded bool   `json:"degraded,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Report is the channel DNA together with guest and content guidance.
type Report struct {
	DNA      DNA                    `json:"channel_dna" mapstructure:"channel_dna"`
	Criteria GuestCriteria          `json:"guest_selection_criteria" mapstructure:"guest_selection_criteria"`
	Content  ContentRecommendations `json:"content_recommendations" mapstructure:"content_recommendations"`
}

type DNA struct {
	PrimaryTopics          []string `json:"primary_topics" mapstructure:"primary_topics"`
	AudienceProfile        string   `json:"audience_profile" mapstructure:"audience_profile"`
	SuccessfulContentTypes []string `json:"successful_content_types" mapstructure:"successful_content_types"`
	PreferredGuestTypes    []string `json:"preferred_guest_types" mapstructure:"preferred_guest_types"`
	EngagementDrivers      []string `json:"engagement_drivers" mapstructure:"engagement_drivers"`
	ContentStyle           string   `json:"content_style" mapstructure:"content_style"`
}

type GuestCriteria struct {
	IdealExpertiseAreas      []string `json:"ideal_expertise_areas" mapstructure:"ideal_expertise_areas"`
	AuthorityLevelRequired   string   `json:"authority_level_required" mapstructure:"authority_level_required"`
	PersonalityFit           string   `json:"personality_fit" mapstructure:"personality_fit"`
	TopicAlignmentImportance int      `json:"topic_alignment_importance" mapstructure:"topic_alignment_importance"`
	AudienceSizeImportance   int      `json:"audience_size_importance" mapstructure:"audience_size_importance"`
}

type ContentRecommendations struct {
	OptimalVideoLength string   `json:"optimal_video_length" mapstructure:"optimal_video_length"`
	BestTitlePatterns  []string `json:"best_title_patterns" mapstructure:"best_title_patterns"`
	TopicsToFocusOn    []string `json:"topics_to_focus_on" mapstructure:"topics_to_focus_on"`
	TopicsToAvoid      []string `json:"topics_to_avoid" mapstructure:"topics_to_avoid"`
}

// DecodeReport converts a loose model answer into a Report.
func DecodeReport(raw map[string]any) (*Report, error) {
	var report Report
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       utils.SplitStringHook,
		WeaklyTypedInput: true,
		Result:           &report,
	})
	if err != nil {
		return nil, fmt.Errorf("create report decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode channel report: %w", err)
	}

	dna := &report.DNA
	dna.PrimaryTopics = utils.CleanList(dna.PrimaryTopics)
	dna.SuccessfulContentTypes = utils.CleanList(dna.SuccessfulContentTypes)
	dna.PreferredGuestTypes = utils.CleanList(dna.PreferredGuestTypes)
	dna.EngagementDrivers = utils.CleanList(dna.EngagementDrivers)
	dna.AudienceProfile = strings.TrimSpace(dna.AudienceProfile)
	dna.ContentStyle = strings.TrimSpace(dna.ContentStyle)
	report.Criteria.IdealExpertiseAreas = utils.CleanList(report.Criteria.IdealExpertiseAreas)

	return &report, nil
}
