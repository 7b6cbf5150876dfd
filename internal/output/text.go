package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/critiqhq/critiq/internal/criteria"
	"github.com/critiqhq/critiq/internal/review"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

var (
	scoreGood = color.New(color.FgGreen).SprintfFunc()
	scoreWarn = color.New(color.FgYellow).SprintfFunc()
	scoreBad  = color.New(color.FgRed).SprintfFunc()
)

func colorScore(score float64) string {
	s := fmt.Sprintf("%.1f/10", score)
	switch {
	case score >= 7:
		return scoreGood("%s", s)
	case score >= 5:
		return scoreWarn("%s", s)
	default:
		return scoreBad("%s", s)
	}
}

func (t *TextWriter) Write(w io.Writer, result *review.AnalysisResult) error {
	ew := &errWriter{w: w}

	ew.println("Critiq Code Analysis")
	ew.println(strings.Repeat("─", 60))
	ew.printf("Overall score:  %s\n", colorScore(result.OverallScore))
	if result.WeightedOverallScore != nil {
		ew.printf("Weighted score: %s (selected criteria only)\n", colorScore(*result.WeightedOverallScore))
	}
	if result.Degraded() {
		ew.println(scoreBad("%s", "Model response could not be parsed; scores are defaults."))
	}
	ew.println(strings.Repeat("─", 60))

	ew.printf("\nSummary:\n")
	for _, line := range wrapText(result.Summary, 70) {
		ew.printf("  %s\n", line)
	}

	if len(result.Criteria) > 0 {
		ew.println("\nCriteria:")
		// Canonical catalog order, skipping criteria absent from the result
		for _, key := range criteria.All() {
			cr, ok := result.Criteria[key]
			if !ok {
				continue
			}
			ew.printf("\n  %s  %s\n", colorScore(cr.Score), criteria.Label(key))
			if cr.Comment != "" && cr.Comment != review.NoCriterionData {
				for _, line := range wrapText(cr.Comment, 66) {
					ew.printf("        %s\n", line)
				}
			}
		}
	}

	if result.DetailedFeedback != "" {
		ew.println("\nDetailed feedback:")
		for _, line := range wrapText(result.DetailedFeedback, 70) {
			ew.printf("  %s\n", line)
		}
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.printf("Analyzed %d characters in %dms (%s)\n",
		result.InputLength, result.ProcessingTimeMS, result.AnalysisTimestamp)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
