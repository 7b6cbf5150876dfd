package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/critiqhq/critiq/internal/criteria"
	"github.com/critiqhq/critiq/internal/review"
)

// MarkdownWriter outputs the result as a review comment suitable for
// posting to Gerrit or pasting into a code review tool. A nil Weights
// falls back to the catalog defaults.
type MarkdownWriter struct {
	Weights criteria.Weights
}

func (m *MarkdownWriter) Write(w io.Writer, result *review.AnalysisResult) error {
	weights := m.Weights
	if weights == nil {
		weights = criteria.DefaultWeights()
	}
	_, err := io.WriteString(w, SummaryComment(result, weights))
	return err
}

// lowScore marks a criterion as an area needing attention.
const lowScore = 6.0

// SummaryComment renders the analysis as a markdown review comment:
// overall verdict, summary, and the lowest-scoring areas.
func SummaryComment(result *review.AnalysisResult, weights criteria.Weights) string {
	if result == nil {
		return "Automated code review failed to complete."
	}

	var sb strings.Builder
	sb.WriteString("## Automated Code Review\n\n")
	sb.WriteString(fmt.Sprintf("**Overall Score**: %.1f/10\n", result.OverallScore))
	if result.WeightedOverallScore != nil {
		sb.WriteString(fmt.Sprintf("**Weighted Score**: %.1f/10 (selected criteria)\n", *result.WeightedOverallScore))
	}
	if len(result.Criteria) > 0 && len(weights) > 0 {
		sb.WriteString(fmt.Sprintf("**Importance-Weighted Score**: %.1f/10\n", criteria.WeightedMean(result.Scores(), weights)))
	}
	sb.WriteString("\n### Summary\n")
	sb.WriteString(result.Summary)
	sb.WriteString("\n")

	type lowArea struct {
		key criteria.Key
		cr  review.CriterionResult
	}
	var low []lowArea
	for key, cr := range result.Criteria {
		if cr.Score < lowScore {
			low = append(low, lowArea{key, cr})
		}
	}
	if len(low) > 0 {
		sort.Slice(low, func(i, j int) bool {
			if low[i].cr.Score != low[j].cr.Score {
				return low[i].cr.Score < low[j].cr.Score
			}
			return low[i].key < low[j].key
		})
		if len(low) > 5 {
			low = low[:5]
		}
		sb.WriteString("\n### Low Scoring Areas\n")
		for _, a := range low {
			sb.WriteString(fmt.Sprintf("**%s** (%.0f/10): %s\n",
				criteria.Label(a.key), a.cr.Score, truncate(a.cr.Comment, 100)))
		}
	}

	if result.DetailedFeedback != "" {
		sb.WriteString("\n### Detailed Feedback\n")
		sb.WriteString(result.DetailedFeedback)
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("\n---\n*Automated review generated at %s*\n", result.AnalysisTimestamp))
	return sb.String()
}

// truncate caps s at n runes. Cutting on a byte offset could split a
// multi-byte rune and emit invalid UTF-8 into the review comment.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
