package tracker

import (
	"time"

	"github.com/spigell/guest-tracker/internal/guest"
	"github.com/spigell/guest-tracker/internal/host"
	"github.com/spigell/guest-tracker/internal/scoring"
)

// Request asks for the analysis of one guest.
type Request struct {
	GuestName      string `json:"guest_name"`
	GuestURL       string `json:"guest_url"`
	HostChannelURL string `json:"host_channel_url"`
	UseCache       bool   `json:"use_cache"`
}

// StepTimes are step durations in seconds, rounded to one decimal.
type StepTimes struct {
	GuestAnalysis float64 `json:"guest_analysis_time"`
	HostAnalysis  float64 `json:"host_analysis_time"`
	Scoring       float64 `json:"scoring_time"`
	Narration     float64 `json:"narration_time"`
	Report        float64 `json:"report_time"`
}

type Metadata struct {
	RequestID      string     `json:"request_id"`
	GuestName      string     `json:"guest_name"`
	GuestURL       string     `json:"guest_url"`
	HostChannelURL string     `json:"host_channel_url"`
	AnalyzedAt     time.Time  `json:"analysis_timestamp"`
	TotalTime      float64    `json:"total_analysis_time,omitempty"`
	Performance    *StepTimes `json:"performance_metrics,omitempty"`
	Status         string     `json:"status,omitempty"`
}

type Summary struct {
	OverallScore       int                    `json:"overall_score"`
	Recommendation     scoring.Recommendation `json:"recommendation"`
	Confidence         scoring.Confidence     `json:"confidence"`
	KeyDecisionFactors []string               `json:"key_decision_factors"`
}

// AnalysisResult is either a complete analysis or, when Error is set, a
// failure record carrying only the request metadata.
type AnalysisResult struct {
	Error        string          `json:"error,omitempty"`
	Metadata     Metadata        `json:"analysis_metadata"`
	GuestProfile *guest.Profile  `json:"guest_profile,omitempty"`
	HostAnalysis *host.Analysis  `json:"host_analysis,omitempty"`
	Relevance    *scoring.Result `json:"relevance_analysis,omitempty"`
	Validation   string          `json:"llm_validation,omitempty"`
	FinalReport  string          `json:"final_report,omitempty"`
	Summary      *Summary        `json:"recommendation_summary,omitempty"`
}

func (r *AnalysisResult) Failed() bool {
	return r.Error != ""
}

type BatchMetadata struct {
	TotalGuests        int       `json:"total_guests"`
	SuccessfulAnalyses int       `json:"successful_analyses"`
	FailedAnalyses     int       `json:"failed_analyses"`
	HostChannelURL     string    `json:"host_channel_url"`
	AnalyzedAt         time.Time `json:"analysis_timestamp"`
}

type FailedAnalysis struct {
	GuestInfo guest.Ref `json:"guest_info"`
	Error     string    `json:"error"`
}

type RankEntry struct {
	Rank           int                    `json:"rank"`
	Name           string                 `json:"name"`
	Score          int                    `json:"score"`
	Recommendation scoring.Recommendation `json:"recommendation"`
}

type BatchResult struct {
	Metadata       BatchMetadata     `json:"batch_metadata"`
	GuestAnalyses  []*AnalysisResult `json:"guest_analyses"`
	FailedAnalyses []FailedAnalysis  `json:"failed_analyses"`
	Summary        string            `json:"batch_summary"`
	Ranking        []RankEntry       `json:"ranking"`
}
