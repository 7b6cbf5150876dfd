package review

import (
	"errors"
	"time"

	"github.com/critiqhq/critiq/internal/criteria"
)

// Sentinel values substituted when the model response carries no usable
// data. Consumers treat SummaryUnavailable as the degraded-analysis signal.
const (
	SummaryUnavailable = "Analysis completed but summary unavailable"
	NoCriterionData    = "No data available for this criterion"
)

// Score bounds for every criterion and for the overall score.
const (
	MinScore = 0.0
	MaxScore = 10.0
)

// ErrNoContext is returned when Normalize is called with neither raw text
// nor measurement context. That is a caller bug, not a data-quality issue.
var ErrNoContext = errors.New("normalize: no raw text and no measurement context")

// Meta is the measurement context supplied by the caller. It never comes
// from the model.
type Meta struct {
	ElapsedMS   int64
	Timestamp   time.Time
	InputLength int
}

func (m Meta) empty() bool {
	return m.ElapsedMS == 0 && m.Timestamp.IsZero() && m.InputLength == 0
}

// Normalize turns an extraction result plus the original raw model output
// into a complete AnalysisResult. Every selected criterion is present in
// the output; missing or malformed model data degrades to sentinel values
// rather than errors. Normalizing the serialized form of a complete result
// reproduces it unchanged.
//
// extracted may be nil (extraction miss). sel may be nil or empty, which
// selects every criterion.
func Normalize(extracted map[string]any, raw string, sel criteria.Selection, meta Meta) (*AnalysisResult, error) {
	if raw == "" && meta.empty() {
		return nil, ErrNoContext
	}

	r := &AnalysisResult{
		ProcessingTimeMS:  meta.ElapsedMS,
		AnalysisTimestamp: meta.Timestamp.UTC().Format(time.RFC3339),
		InputLength:       meta.InputLength,
	}

	// An absent overall score reads as low and untrusted, never neutral.
	if v, ok := asFloat(extracted[fieldOverallScore]); ok {
		r.OverallScore = clamp(v)
	}

	if s, ok := extracted[fieldSummary].(string); ok && s != "" {
		r.Summary = s
	} else {
		r.Summary = SummaryUnavailable
	}

	// The one field where surfacing the unparsed model output is useful:
	// it lets a human diagnose a bad response.
	if s, ok := extracted[fieldDetailed].(string); ok {
		r.DetailedFeedback = s
	} else {
		r.DetailedFeedback = raw
	}

	selected := sel.Enabled()
	r.Criteria = make(map[criteria.Key]CriterionResult, len(selected))
	for _, k := range selected {
		r.Criteria[k] = normalizeCriterion(extracted[string(k)])
	}

	// The weighted score is redundant when the selection covers every
	// criterion, so it is only emitted for strict subsets.
	if len(selected) < criteria.Count() {
		mean := meanScore(r.Criteria, selected)
		r.WeightedOverallScore = &mean
	}

	return r, nil
}

// normalizeCriterion maps one extracted sub-object to a CriterionResult.
// A missing or non-object entry yields the full sentinel; a partial object
// keeps whatever fields it has and defaults the rest.
func normalizeCriterion(v any) CriterionResult {
	sub, ok := v.(map[string]any)
	if !ok {
		return CriterionResult{Score: MinScore, Comment: NoCriterionData}
	}
	var cr CriterionResult
	if score, ok := asFloat(sub["score"]); ok {
		cr.Score = clamp(score)
	}
	if comment, ok := sub["comment"].(string); ok {
		cr.Comment = comment
	}
	return cr
}

func meanScore(results map[criteria.Key]CriterionResult, keys []criteria.Key) float64 {
	if len(keys) == 0 {
		return 0
	}
	var sum float64
	for _, k := range keys {
		sum += results[k].Score
	}
	return sum / float64(len(keys))
}

func clamp(v float64) float64 {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

// asFloat extracts a numeric value from decoded JSON. Only genuine JSON
// numbers count; numeric strings do not.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
