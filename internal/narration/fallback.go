package narration

import (
	"fmt"
	"strings"

	"github.com/spigell/guest-tracker/internal/scoring"
)

// Fallback is the deterministic rationale used when no model answer is available.
func Fallback(result *scoring.Result) string {
	score, rec := result.OverallScore, result.Recommendation
	strength := first(result.KeyStrengths)
	concern := first(result.AreasOfConcern)

	switch {
	case rec.Positive():
		if strength != "" {
			return fmt.Sprintf("This guest scored %d/100, resulting in a %s rating. The analysis highlights %s as a key strength. Based on the data, this appears to be a good match for the channel.", score, rec, strength)
		}
		return fmt.Sprintf("This guest scored %d/100, resulting in a %s rating. The overall alignment between guest expertise and channel content appears strong. This seems to be a suitable match for the podcast.", score, rec)
	case rec == scoring.Consider:
		if strength != "" && concern != "" {
			return fmt.Sprintf("With a score of %d/100, this guest falls into the CONSIDER category. While %s, there are concerns about %s. This guest may be worth considering but isn't an obvious perfect match.", score, strength, concern)
		}
		return fmt.Sprintf("With a score of %d/100, this guest falls into the CONSIDER category. The analysis shows moderate alignment with the channel, with both strengths and limitations. Further consideration is recommended.", score)
	default:
		if concern != "" {
			return fmt.Sprintf("This guest scored %d/100, resulting in a %s rating. The primary concern is %s. Based on the analysis, there may be better candidates for this channel.", score, rec, concern)
		}
		return fmt.Sprintf("This guest scored %d/100, resulting in a %s rating. The overall alignment between guest and channel appears limited. There may be better candidates to prioritize.", score, rec)
	}
}

func first(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return strings.ToLower(items[0])
}
