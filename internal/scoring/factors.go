package scoring

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spigell/guest-tracker/internal/guest"
	"github.com/spigell/guest-tracker/internal/host"
)

// neutralScore is returned when one side has no data to compare.
const neutralScore = 0.5

const unknownCount = "unknown"

func topicAlignment(g *guest.Profile, dna host.DNA) float64 {
	if len(g.ExpertiseAreas) == 0 || len(dna.PrimaryTopics) == 0 {
		return neutralScore
	}

	guestTokens := tokens(g.ExpertiseAreas, g.KeyTopics)
	channelTokens := tokens(dna.PrimaryTopics)
	if len(channelTokens) == 0 {
		return neutralScore
	}

	matches := 0
	for word := range guestTokens {
		for channelWord := range channelTokens {
			if overlaps(word, channelWord) {
				matches++
				break
			}
		}
	}

	score := math.Min(1, float64(matches)/float64(max(1, len(channelTokens))))

	topics := lowerAll(dna.PrimaryTopics)
	for _, expertise := range lowerAll(g.ExpertiseAreas) {
		for _, topic := range topics {
			if overlaps(expertise, topic) {
				score = math.Min(1, score+0.2)
			}
		}
	}

	return score
}

func authority(g *guest.Profile) float64 {
	score := neutralScore

	strong := 0
	for _, indicator := range g.AuthorityIndicators {
		if containsAny(strings.ToLower(indicator), authorityTerms) {
			strong++
		}
	}
	score += math.Min(0.3, float64(strong)*0.1)

	if len(g.SocialFollowing) > 0 {
		if followers, ok := parseFollowers(g.SocialFollowing["twitter"]); ok {
			score += followerBonus(followers)
		}
		if linkedin, ok := g.SocialFollowing["linkedin"]; ok && linkedin != unknownCount && strings.Contains(linkedin, "500+") {
			score += 0.05
		}
	}

	score += podcastBonus(g)

	return math.Min(1, score)
}

// parseFollowers reads counts such as "2M", "15k" or "1,500".
func parseFollowers(raw string) (float64, bool) {
	if raw == "" || raw == unknownCount {
		return 0, false
	}

	lower := strings.ToLower(raw)
	multiplier := 1.0
	switch {
	case strings.Contains(lower, "k"):
		lower = strings.ReplaceAll(lower, "k", "")
		multiplier = 1_000
	case strings.Contains(lower, "m"):
		lower = strings.ReplaceAll(lower, "m", "")
		multiplier = 1_000_000
	default:
		lower = strings.ReplaceAll(lower, ",", "")
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(lower), 64)
	if err != nil {
		return 0, false
	}
	return value * multiplier, true
}

func followerBonus(followers float64) float64 {
	switch {
	case followers > 1_000_000:
		return 0.2
	case followers > 100_000:
		return 0.15
	case followers > 10_000:
		return 0.1
	case followers > 1_000:
		return 0.05
	}
	return 0
}

func podcastBonus(g *guest.Profile) float64 {
	if len(g.PreviousPodcasts) == 0 || !g.HasPodcastHistory() {
		return 0
	}
	return math.Min(0.1, float64(len(g.PreviousPodcasts))*0.02)
}

func audienceAppeal(g *guest.Profile, dna host.DNA) float64 {
	score := 0.6

	if len(g.SocialFollowing) > 0 {
		platforms := 0
		for _, count := range g.SocialFollowing {
			if count != "" && count != unknownCount {
				platforms++
			}
		}
		score += math.Min(0.2, float64(platforms)*0.05)
	}

	if len(g.PopularityIndicators) > 0 {
		score += math.Min(0.2, float64(len(g.PopularityIndicators))*0.05)
	}

	if dna.AudienceProfile != "" && (g.Industry != "" || g.BioSummary != "") {
		guestText := strings.ToLower(g.Industry + " " + g.BioSummary)
		matches := 0
		// Repeated audience words count once per occurrence.
		for _, word := range strings.Fields(strings.ToLower(dna.AudienceProfile)) {
			if utf8.RuneCountInString(word) >= minTokenRunes && strings.Contains(guestText, word) {
				matches++
			}
		}
		score += math.Min(0.2, float64(matches)*0.04)
	}

	return math.Min(1, score)
}

func uniqueness(g *guest.Profile, dna host.DNA, videos []host.Video) float64 {
	score := 0.7

	name := strings.ToLower(strings.TrimSpace(g.Name))
	expertise := lowerAll(g.ExpertiseAreas)

	similar := 0
	for _, video := range videos {
		title := strings.ToLower(video.Title)

		if name != "" && strings.Contains(title, name) {
			score -= 0.3
			break
		}

		for _, area := range expertise {
			if strings.Contains(title, area) {
				similar++
				break
			}
		}
	}
	if similar > 0 {
		score -= math.Min(0.3, float64(similar)*0.05)
	}

	industry := strings.ToLower(g.Industry)
	if industry != "" {
		known := false
		for _, topic := range lowerAll(dna.PrimaryTopics) {
			if strings.Contains(topic, industry) {
				known = true
				break
			}
		}
		if !known {
			score += 0.1
		}
	}

	return math.Max(0.1, math.Min(1, score))
}

func engagement(g *guest.Profile, dna host.DNA) float64 {
	score := neutralScore

	timely := 0
	for _, activity := range g.RecentActivities {
		if containsAny(strings.ToLower(activity), timelyTerms) {
			timely++
		}
	}
	score += math.Min(0.2, float64(timely)*0.05)

	if len(dna.EngagementDrivers) > 0 && len(g.KeyTopics) > 0 {
		topics := lowerAll(g.KeyTopics)
		matches := 0
		for _, driver := range lowerAll(dna.EngagementDrivers) {
			for _, topic := range topics {
				if overlaps(driver, topic) {
					matches++
					break
				}
			}
		}
		score += math.Min(0.3, float64(matches)*0.1)
	}

	score += podcastBonus(g)

	return math.Min(1, score)
}
