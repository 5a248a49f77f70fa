package report

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spigell/guest-tracker/internal/guest"
	"github.com/spigell/guest-tracker/internal/host"
	"github.com/spigell/guest-tracker/internal/scoring"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const timestampLayout = "2006-01-02 15:04:05"

//go:embed report.md.tmpl
var reportTemplate string

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"bullets": bullets,
}).Parse(reportTemplate))

var titleCaser = cases.Title(language.English)

// Input is everything a report is rendered from.
type Input struct {
	Profile    *guest.Profile
	Analysis   *host.Analysis
	Result     *scoring.Result
	Validation string
	Generated  time.Time
}

type factorLine struct {
	Label  string
	Score  int
	Weight string
}

type view struct {
	Generated       string
	Name            string
	Designation     string
	Company         string
	Industry        string
	Score           int
	Recommendation  scoring.Recommendation
	Confidence      scoring.Confidence
	Validation      string
	Expertise       []string
	Authority       []string
	Social          []string
	AverageViews    string
	Topics          string
	ContentStyle    string
	GuestTypes      []string
	Factors         []factorLine
	Strengths       []string
	Concerns        []string
	InterviewTopics []string
	Notes           []string
	Engagement      scoring.Engagement
	Rationale       string
}

var breakdownLabels = map[scoring.Factor]string{
	scoring.AuthorityScore: "Authority/Credibility",
}

// Build renders the Markdown report for one analyzed guest.
func Build(in Input) (string, error) {
	if in.Profile == nil || in.Analysis == nil || in.Result == nil {
		return "", errors.New("report input is incomplete")
	}
	if in.Generated.IsZero() {
		in.Generated = time.Now()
	}

	p, dna, r := in.Profile, in.Analysis.ChannelDNA.DNA, in.Result
	v := view{
		Generated:       in.Generated.Format(timestampLayout),
		Name:            valueOr(p.Name, r.GuestName),
		Designation:     valueOr(p.Designation, "Unknown Role"),
		Company:         valueOr(p.Company, "Unknown Company"),
		Industry:        valueOr(p.Industry, "Not specified"),
		Score:           r.OverallScore,
		Recommendation:  r.Recommendation,
		Confidence:      r.Confidence,
		Validation:      strings.TrimSpace(in.Validation),
		Expertise:       listOr(head(p.ExpertiseAreas, 5), "Not specified"),
		Authority:       listOr(head(p.AuthorityIndicators, 3), "Not available"),
		Social:          listOr(socialLines(p.SocialFollowing), "Social media data not available"),
		AverageViews:    humanize.Comma(in.Analysis.Performance.AverageViews),
		Topics:          valueOr(strings.Join(dna.PrimaryTopics, ", "), "Unknown"),
		ContentStyle:    valueOr(dna.ContentStyle, "Not determined"),
		GuestTypes:      listOr(dna.PreferredGuestTypes, "Not specified"),
		Strengths:       listOr(r.KeyStrengths, "Not identified"),
		Concerns:        listOr(r.AreasOfConcern, "None identified"),
		InterviewTopics: listOr(head(p.PotentialInterviewTopics, 5), "Topic research needed"),
		Notes:           listOr(r.Interview.PreparationNotes, "Standard preparation required"),
		Engagement:      r.Interview.EstimatedEngagement,
		Rationale:       Rationale(r.Recommendation, r.OverallScore),
	}
	if v.Engagement == "" {
		v.Engagement = scoring.EngagementMedium
	}

	for _, f := range scoring.Factors {
		entry := r.Breakdown.Get(f)
		label, ok := breakdownLabels[f]
		if !ok {
			label = f.Title()
		}
		v.Factors = append(v.Factors, factorLine{
			Label:  label,
			Score:  entry.Score,
			Weight: fmt.Sprintf("%.1f", entry.Weight*100),
		})
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, v); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return strings.TrimSpace(b.String()), nil
}

// Rationale explains what a recommendation tier means for the host.
func Rationale(rec scoring.Recommendation, score int) string {
	switch rec {
	case scoring.HighlyRecommended:
		return fmt.Sprintf("With a score of %d/100, this guest shows excellent alignment across multiple factors. They would likely be a valuable addition to your podcast with high audience appeal and strong topical relevance.", score)
	case scoring.Recommended:
		return fmt.Sprintf("Scoring %d/100, this guest demonstrates good potential for your podcast. While there may be some areas for improvement, the overall fit is positive and worth pursuing.", score)
	case scoring.Consider:
		return fmt.Sprintf("At %d/100, this guest shows moderate potential. Consider whether their unique perspective or expertise in specific areas would add value to your audience despite some limitations.", score)
	case scoring.LowPriority:
		return fmt.Sprintf("With a score of %d/100, this guest may not be the best fit currently. Consider them for future episodes if their relevance increases or if you're exploring new topic areas.", score)
	default:
		return fmt.Sprintf("Scoring %d/100, this guest doesn't appear to be a strong fit for your channel at this time. The analysis suggests limited alignment with your audience and content themes.", score)
	}
}

// KeyDecisionFactors lists up to three factors scoring above 60 and, for
// weak results, the main concern.
func KeyDecisionFactors(r *scoring.Result) []string {
	out := []string{}
	if r == nil {
		return out
	}

	factors := append([]scoring.Factor(nil), scoring.Factors...)
	sort.SliceStable(factors, func(i, j int) bool {
		return r.Breakdown.Get(factors[i]).Score > r.Breakdown.Get(factors[j]).Score
	})

	for _, f := range factors[:3] {
		if score := r.Breakdown.Get(f).Score; score > 60 {
			out = append(out, fmt.Sprintf("%s: %d/100", f.Title(), score))
		}
	}

	if r.OverallScore < 60 && len(r.AreasOfConcern) > 0 {
		out = append(out, "Main concern: "+r.AreasOfConcern[0])
	}
	return out
}

func socialLines(following map[string]string) []string {
	platforms := make([]string, 0, len(following))
	for platform, count := range following {
		if count != "" && count != "unknown" {
			platforms = append(platforms, platform)
		}
	}
	sort.Strings(platforms)

	lines := make([]string, 0, len(platforms))
	for _, platform := range platforms {
		lines = append(lines, fmt.Sprintf("%s: %s followers", titleCaser.String(platform), following[platform]))
	}
	return lines
}

func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "• " + item
	}
	return strings.Join(lines, "\n")
}

func head(items []string, n int) []string {
	return items[:min(n, len(items))]
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func listOr(items []string, fallback string) []string {
	if len(items) == 0 {
		return []string{fallback}
	}
	return items
}
