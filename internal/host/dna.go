package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/guest-tracker/internal/ai"
	"github.com/spigell/guest-tracker/internal/utils"
	"go.uber.org/zap"
)

const (
	manualAnalysis     = "Unable to determine - manual analysis needed"
	defaultTheme       = "general"
	defaultDurationSec = 1800
)

// DNAGenerator describes a channel from its performance metrics.
type DNAGenerator interface {
	Generate(ctx context.Context, channelURL string, metrics Metrics) (*Report, error)
}

//go:embed dna_prompt.md
var dnaPromptTemplate string

// LLMDNA asks a text generation service for the channel DNA.
type LLMDNA struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewLLMDNA(generator ai.Generator, logger *zap.Logger, maxLogLength int) *LLMDNA {
	if maxLogLength <= 0 {
		maxLogLength = 200
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMDNA{generator: generator, logger: logger, maxLogLen: maxLogLength}
}

func (d *LLMDNA) Generate(ctx context.Context, channelURL string, metrics Metrics) (*Report, error) {
	performance, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal performance metrics: %w", err)
	}

	prompt := strings.ReplaceAll(dnaPromptTemplate, "{{CHANNEL_URL}}", channelURL)
	prompt = strings.ReplaceAll(prompt, "{{PERFORMANCE_JSON}}", string(performance))

	d.logger.Debug("channel dna request",
		zap.String("channel", channelURL),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, d.maxLogLen)),
	)

	raw, err := d.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("channel dna response",
		zap.String("channel", channelURL),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, d.maxLogLen)),
	)

	data, err := ai.ParseObject(raw)
	if err != nil {
		return nil, err
	}

	report, err := DecodeReport(data)
	if err != nil {
		return nil, err
	}
	if len(report.DNA.PrimaryTopics) == 0 {
		return nil, errors.New("channel dna has no primary topics")
	}

	return report, nil
}

// StaticDNA always returns the same report.
type StaticDNA struct {
	Report Report
}

func (s StaticDNA) Generate(context.Context, string, Metrics) (*Report, error) {
	report := s.Report
	return &report, nil
}

// SampleReport describes the channel behind SampleVideos.
func SampleReport() Report {
	return Report{
		DNA: DNA{
			PrimaryTopics:          []string{"Technology", "Entrepreneurship", "Science"},
			AudienceProfile:        "Tech-savvy professionals and entrepreneurs interested in innovation and cutting-edge ideas",
			SuccessfulContentTypes: []string{"Long-form interviews", "Deep technical discussions"},
			PreferredGuestTypes:    []string{"Industry experts", "Successful entrepreneurs", "Academic researchers"},
			EngagementDrivers:      []string{"Technical depth", "Practical insights", "Thought leadership"},
			ContentStyle:           "In-depth, thoughtful conversations exploring complex topics with a focus on practical applications",
		},
		Criteria: GuestCriteria{
			IdealExpertiseAreas:      []string{"Technology", "Business", "Science"},
			AuthorityLevelRequired:   "HIGH",
			PersonalityFit:           "Articulate, thoughtful speakers who can explain complex topics clearly",
			TopicAlignmentImportance: 85,
			AudienceSizeImportance:   60,
		},
		Content: ContentRecommendations{
			OptimalVideoLength: "90-120 minutes",
			BestTitlePatterns:  []string{"Guest Name | Topic, Topic", "Topic Discussion with Guest Name"},
			TopicsToFocusOn:    []string{"AI and machine learning", "Entrepreneurship", "Future technology trends"},
			TopicsToAvoid:      []string{"Highly political content"},
		},
	}
}

// FallbackReport builds a deterministic report from the dominant theme.
func FallbackReport(metrics Metrics) Report {
	theme := metrics.ContentThemes.DominantTheme
	if theme == "" {
		theme = defaultTheme
	}
	duration := metrics.AverageDuration
	if duration <= 0 {
		duration = defaultDurationSec
	}

	return Report{
		DNA: DNA{
			PrimaryTopics:          []string{theme, "general content"},
			AudienceProfile:        manualAnalysis,
			SuccessfulContentTypes: []string{"Manual analysis required"},
			PreferredGuestTypes:    []string{"Requires manual review"},
			EngagementDrivers:      []string{"Check performance data manually"},
			ContentStyle:           "Analyze manually from video data",
		},
		Criteria: GuestCriteria{
			IdealExpertiseAreas:      []string{theme},
			AuthorityLevelRequired:   "MEDIUM",
			PersonalityFit:           "Manual assessment needed",
			TopicAlignmentImportance: 70,
			AudienceSizeImportance:   50,
		},
		Content: ContentRecommendations{
			OptimalVideoLength: fmt.Sprintf("%d minutes", duration/60),
			BestTitlePatterns:  []string{"Manual analysis needed"},
			TopicsToFocusOn:    []string{theme},
			TopicsToAvoid:      []string{"Manual analysis required"},
		},
	}
}
