package host

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spigell/guest-tracker/internal/utils"
)

const (
	maxTitleStarters    = 5
	maxTitleKeywords    = 10
	maxHighPerformers   = 10
	titleLengthMargin   = 5
	durationMarginSecs  = 300
	noInsightsAvailable = "Not enough data to generate insights"
)

// Metrics summarizes how the channel's videos perform.
type Metrics struct {
	TotalVideosAnalyzed   int                `json:"total_videos_analyzed"`
	AverageViews          int64              `json:"average_views"`
	MedianViews           int64              `json:"median_views"`
	ViewThreshold75th     int64              `json:"view_threshold_75th"`
	HighPerformersCount   int                `json:"high_performers_count"`
	AverageEngagementRate float64            `json:"average_engagement_rate"`
	AverageDuration       int                `json:"average_duration"`
	TitlePatterns         TitlePatterns      `json:"successful_title_patterns"`
	ContentThemes         Themes             `json:"content_themes"`
	HighPerformingVideos  []VideoPerformance `json:"high_performing_videos"`
	Insights              []string           `json:"performance_insights"`
}

type TitlePatterns struct {
	CommonTitleStarters []Frequency `json:"common_title_starters"`
	FrequentKeywords    []Frequency `json:"frequent_keywords"`
}

type Frequency struct {
	Value string `json:"value"`
	Count int    `json:"frequency"`
}

type Themes struct {
	Distribution  map[string]float64 `json:"theme_distribution"`
	DominantTheme string             `json:"dominant_theme"`
	TotalMentions int                `json:"total_theme_mentions"`
}

type VideoPerformance struct {
	Title      string  `json:"title"`
	Views      int64   `json:"views"`
	Engagement float64 `json:"engagement"`
}

// ComputeMetrics analyzes videos with a positive view count. An empty
// Metrics is returned when there are none.
func ComputeMetrics(videos []Video) Metrics {
	valid := make([]Video, 0, len(videos))
	for _, v := range videos {
		if v.ViewCount > 0 {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return Metrics{}
	}

	views := make([]int64, 0, len(valid))
	var engagementSum float64
	titles := make([]string, 0, len(valid))
	for _, v := range valid {
		views = append(views, v.ViewCount)
		engagementSum += engagementRate(v)
		titles = append(titles, v.Title)
	}

	threshold := thirdQuartile(views)
	var high []Video
	for _, v := range valid {
		if float64(v.ViewCount) >= threshold {
			high = append(high, v)
		}
	}

	highTitles := make([]string, 0, len(high))
	for _, v := range high {
		highTitles = append(highTitles, v.Title)
	}

	performing := make([]VideoPerformance, 0, min(len(high), maxHighPerformers))
	for _, v := range high[:min(len(high), maxHighPerformers)] {
		performing = append(performing, VideoPerformance{Title: v.Title, Views: v.ViewCount, Engagement: engagementRate(v)})
	}

	avgDuration, _ := meanDuration(valid)

	return Metrics{
		TotalVideosAnalyzed:   len(valid),
		AverageViews:          int64(mean(views)),
		MedianViews:           int64(median(views)),
		ViewThreshold75th:     int64(threshold),
		HighPerformersCount:   len(high),
		AverageEngagementRate: utils.Round(engagementSum/float64(len(valid)), 3),
		AverageDuration:       int(avgDuration),
		TitlePatterns:         titlePatterns(highTitles),
		ContentThemes:         contentThemeShares(titles),
		HighPerformingVideos:  performing,
		Insights:              insights(valid, high),
	}
}

// engagementRate weighs comments twice as much as likes, in percent of views.
func engagementRate(v Video) float64 {
	if v.ViewCount <= 0 {
		return 0
	}
	return float64(v.LikeCount+2*v.CommentCount) / float64(v.ViewCount) * 100
}

func mean(values []int64) float64 {
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values))
}

func median(values []int64) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}

// thirdQuartile uses the exclusive method: the 3rd of 4 cut points over
// n+1 positions, clamped to the data.
func thirdQuartile(values []int64) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	ld := len(sorted)
	if ld == 1 {
		return float64(sorted[0])
	}

	const n, i = 4, 3
	m := ld + 1
	j := i * m / n
	j = max(1, min(j, ld-1))
	delta := i*m - j*n
	return (float64(sorted[j-1])*float64(n-delta) + float64(sorted[j])*float64(delta)) / n
}

func meanDuration(videos []Video) (float64, bool) {
	var sum, count int
	for _, v := range videos {
		if v.Duration > 0 {
			sum += v.Duration
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return float64(sum) / float64(count), true
}

// counter keeps first-seen order so ties sort deterministically.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) top(limit int) []Frequency {
	out := make([]Frequency, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, Frequency{Value: key, Count: c.counts[key]})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Count > out[b].Count })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func titlePatterns(titles []string) TitlePatterns {
	starters := newCounter()
	keywords := newCounter()

	for _, title := range titles {
		words := strings.Fields(strings.ToLower(title))
		if len(words) >= 2 {
			starters.add(words[0] + " " + words[1])
		}
		for _, word := range words {
			word = stripNonWord(word)
			if utf8.RuneCountInString(word) <= 3 {
				continue
			}
			if _, stop := titleStopwords[word]; stop {
				continue
			}
			keywords.add(word)
		}
	}

	return TitlePatterns{
		CommonTitleStarters: starters.top(maxTitleStarters),
		FrequentKeywords:    keywords.top(maxTitleKeywords),
	}
}

func stripNonWord(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return -1
	}, s)
}

func contentThemeShares(titles []string) Themes {
	text := strings.ToLower(strings.Join(titles, " "))

	names := make([]string, 0, len(contentThemes)+1)
	counts := make(map[string]int, len(contentThemes)+1)
	total := 0
	for _, th := range contentThemes {
		for _, keyword := range th.keywords {
			counts[th.name] += strings.Count(text, keyword)
		}
		total += counts[th.name]
		names = append(names, th.name)
	}
	names = append(names, otherTheme)
	counts[otherTheme] = 0

	distribution := make(map[string]float64, len(names))
	for _, name := range names {
		share := float64(counts[name])
		if total > 0 {
			share = utils.Round(share/float64(total)*100, 1)
		}
		distribution[name] = share
	}

	dominant := names[0]
	for _, name := range names[1:] {
		if distribution[name] > distribution[dominant] {
			dominant = name
		}
	}

	return Themes{Distribution: distribution, DominantTheme: dominant, TotalMentions: total}
}

func insights(all, high []Video) []string {
	if len(high) == 0 {
		return []string{noInsightsAvailable}
	}

	out := []string{}

	avgHigh := meanTitleLength(high)
	avgAll := meanTitleLength(all)
	switch {
	case avgHigh > avgAll+titleLengthMargin:
		out = append(out, fmt.Sprintf("Longer titles perform better (high performers avg: %d chars vs overall: %d chars)", int(avgHigh), int(avgAll)))
	case avgHigh < avgAll-titleLengthMargin:
		out = append(out, fmt.Sprintf("Shorter titles perform better (high performers avg: %d chars vs overall: %d chars)", int(avgHigh), int(avgAll)))
	}

	for _, v := range high {
		if v.UploadDate != "" {
			out = append(out, "Upload timing data available for further analysis")
			break
		}
	}

	highDur, okHigh := meanDuration(high)
	allDur, okAll := meanDuration(all)
	if okHigh && okAll {
		switch {
		case highDur > allDur+durationMarginSecs:
			out = append(out, fmt.Sprintf("Longer videos tend to perform better (%d min vs %d min average)", int(highDur/60), int(allDur/60)))
		case highDur < allDur-durationMarginSecs:
			out = append(out, fmt.Sprintf("Shorter videos tend to perform better (%d min vs %d min average)", int(highDur/60), int(allDur/60)))
		}
	}

	return out
}

func meanTitleLength(videos []Video) float64 {
	var sum int
	for _, v := range videos {
		sum += utf8.RuneCountInString(v.Title)
	}
	return float64(sum) / float64(len(videos))
}
