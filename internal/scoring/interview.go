package scoring

import (
	"fmt"
	"strings"

	"github.com/spigell/guest-tracker/internal/guest"
	"github.com/spigell/guest-tracker/internal/host"
)

type Engagement string

const (
	EngagementHigh   Engagement = "HIGH"
	EngagementMedium Engagement = "MEDIUM"
	EngagementLow    Engagement = "LOW"
)

// InterviewRecommendations are preparation hints for the host.
type InterviewRecommendations struct {
	EstimatedEngagement Engagement `json:"estimated_audience_engagement"`
	PreparationNotes    []string   `json:"preparation_notes"`
	FocusTopics         []string   `json:"focus_topics"`
}

func interviewRecommendations(g *guest.Profile, dna host.DNA, overall int, topic float64) InterviewRecommendations {
	rec := InterviewRecommendations{
		EstimatedEngagement: EngagementLow,
		PreparationNotes:    []string{},
	}
	switch {
	case overall >= 80:
		rec.EstimatedEngagement = EngagementHigh
	case overall >= 60:
		rec.EstimatedEngagement = EngagementMedium
	}

	if overall >= 70 {
		rec.PreparationNotes = append(rec.PreparationNotes, "Research guest's recent work and publications")

		topics := lowerAll(dna.PrimaryTopics)
		for _, candidate := range g.PotentialInterviewTopics[:min(2, len(g.PotentialInterviewTopics))] {
			lower := strings.ToLower(candidate)
			for _, topic := range topics {
				if overlaps(lower, topic) {
					rec.PreparationNotes = append(rec.PreparationNotes,
						fmt.Sprintf("Focus on %s which aligns with channel interests", candidate))
					break
				}
			}
		}
	} else {
		rec.PreparationNotes = append(rec.PreparationNotes, "Carefully prepare to bridge guest expertise with channel topics")
		if topic*100 <= 40 {
			rec.PreparationNotes = append(rec.PreparationNotes, "Consider narrowing interview focus to most relevant topics")
		}
	}

	if len(g.PreviousPodcasts) > 0 && !g.HasPodcastHistory() {
		rec.PreparationNotes = append(rec.PreparationNotes, "Guest may have limited podcast experience - prepare accordingly")
	}

	focus := g.PotentialInterviewTopics
	if len(focus) == 0 {
		focus = g.ExpertiseAreas
	}
	rec.FocusTopics = append([]string{}, focus[:min(3, len(focus))]...)

	return rec
}
