package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spigell/guest-tracker/internal/tracker"
)

const (
	rule        = "------------------------------------------------------------"
	maxRanksOut = 10
)

func printAnalysis(w io.Writer, result *tracker.AnalysisResult) {
	if result.Failed() {
		fmt.Fprintf(w, "Analysis failed: %s\n", result.Error)
		return
	}

	summary := result.Summary
	fmt.Fprintln(w, "ANALYSIS RESULTS")
	fmt.Fprintf(w, "Overall Score: %d/100\n", summary.OverallScore)
	fmt.Fprintf(w, "Recommendation: %s\n", summary.Recommendation)
	fmt.Fprintf(w, "Key Factors: %s\n", strings.Join(summary.KeyDecisionFactors, ", "))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "DETAILED REPORT:")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, result.FinalReport)
}

func printBatch(w io.Writer, result *tracker.BatchResult) {
	fmt.Fprintln(w, "BATCH ANALYSIS RESULTS")
	fmt.Fprintln(w, result.Summary)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "GUEST RANKING:")

	for i, entry := range result.Ranking {
		if i == maxRanksOut {
			break
		}
		fmt.Fprintf(w, "%d. %s - %d/100 (%s)\n", entry.Rank, entry.Name, entry.Score, entry.Recommendation)
	}
}

// analysisFilename mirrors analysis_<guest>_<timestamp>.json.
func analysisFilename(guestName string, now time.Time) string {
	name := strings.TrimSpace(guestName)
	if name == "" {
		name = "unknown"
	}
	return fmt.Sprintf("analysis_%s_%s.json", strings.ReplaceAll(name, " ", "_"), now.Format("20060102_150405"))
}

func batchFilename(now time.Time) string {
	return fmt.Sprintf("batch_analysis_%s.json", now.Format("20060102_150405"))
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
