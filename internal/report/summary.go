package report

import (
	"fmt"
	"strings"

	"github.com/spigell/guest-tracker/internal/scoring"
)

// Entry is one successfully analyzed guest of a batch.
type Entry struct {
	Name           string
	Score          int
	Recommendation scoring.Recommendation
}

// BatchSummary describes a batch. ranked must already be sorted best first.
func BatchSummary(ranked []Entry, failed int) string {
	if len(ranked) == 0 {
		return "No successful analyses completed."
	}

	total, highest, lowest := 0, ranked[0].Score, ranked[0].Score
	var order []scoring.Recommendation
	counts := map[scoring.Recommendation]int{}
	for _, e := range ranked {
		total += e.Score
		highest = max(highest, e.Score)
		lowest = min(lowest, e.Score)
		if counts[e.Recommendation] == 0 {
			order = append(order, e.Recommendation)
		}
		counts[e.Recommendation]++
	}

	var b strings.Builder
	b.WriteString("BATCH ANALYSIS SUMMARY\n\n")
	b.WriteString("📊 Score Statistics:\n")
	fmt.Fprintf(&b, "• Average Score: %.1f/100\n", float64(total)/float64(len(ranked)))
	fmt.Fprintf(&b, "• Highest Score: %d/100\n", highest)
	fmt.Fprintf(&b, "• Lowest Score: %d/100\n\n", lowest)

	b.WriteString("📈 Recommendations Breakdown:\n")
	for _, rec := range order {
		fmt.Fprintf(&b, "• %s: %d guests\n", rec, counts[rec])
	}

	b.WriteString("\n🎯 Top 3 Recommendations:\n")
	for i, e := range ranked[:min(3, len(ranked))] {
		fmt.Fprintf(&b, "%d. %s - %d/100\n", i+1, e.Name, e.Score)
	}

	b.WriteString("\n")
	if failed > 0 {
		fmt.Fprintf(&b, "⚠️ Failed Analyses: %d", failed)
	} else {
		b.WriteString("✅ All analyses completed successfully")
	}
	return b.String()
}
