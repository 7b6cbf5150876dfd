package review

import (
	"encoding/json"
	"fmt"

	"github.com/critiqhq/critiq/internal/criteria"
)

// CriterionResult is the judgment for a single criterion. Score is always
// within [0,10] after normalization.
type CriterionResult struct {
	Score   float64 `json:"score"`
	Comment string  `json:"comment"`
}

// AnalysisResult is the top-level analysis output. It is constructed by
// Normalize and never mutated afterward.
//
// On the wire, per-criterion results appear as top-level keys alongside the
// fixed fields, matching the shape the model is prompted for:
//
//	{
//	  "overall_score": 8.5,
//	  "summary": "...",
//	  "isCodeFormatted": {"score": 9, "comment": "clean"},
//	  ...
//	}
type AnalysisResult struct {
	OverallScore         float64
	WeightedOverallScore *float64
	Summary              string
	DetailedFeedback     string
	Criteria             map[criteria.Key]CriterionResult
	ProcessingTimeMS     int64
	AnalysisTimestamp    string
	InputLength          int
}

// Fixed top-level field names of the serialized result.
const (
	fieldOverallScore  = "overall_score"
	fieldWeightedScore = "weighted_overall_score"
	fieldSummary       = "summary"
	fieldDetailed      = "detailed_feedback"
	fieldProcessingMS  = "processing_time_ms"
	fieldTimestamp     = "analysis_timestamp"
	fieldInputLength   = "input_length"
)

// MarshalJSON flattens per-criterion results to top-level keys.
func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.Criteria)+7)
	m[fieldOverallScore] = r.OverallScore
	if r.WeightedOverallScore != nil {
		m[fieldWeightedScore] = *r.WeightedOverallScore
	}
	m[fieldSummary] = r.Summary
	m[fieldDetailed] = r.DetailedFeedback
	m[fieldProcessingMS] = r.ProcessingTimeMS
	m[fieldTimestamp] = r.AnalysisTimestamp
	m[fieldInputLength] = r.InputLength
	for k, cr := range r.Criteria {
		m[string(k)] = cr
	}
	return json.Marshal(m)
}

// UnmarshalJSON rebuilds the criteria map from top-level keys. Top-level
// keys that are neither fixed fields nor criterion identifiers are ignored.
func (r *AnalysisResult) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	field := func(name string, dst any) error {
		raw, ok := m[name]
		if !ok {
			return nil
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		return nil
	}
	if err := field(fieldOverallScore, &r.OverallScore); err != nil {
		return err
	}
	if err := field(fieldWeightedScore, &r.WeightedOverallScore); err != nil {
		return err
	}
	if err := field(fieldSummary, &r.Summary); err != nil {
		return err
	}
	if err := field(fieldDetailed, &r.DetailedFeedback); err != nil {
		return err
	}
	if err := field(fieldProcessingMS, &r.ProcessingTimeMS); err != nil {
		return err
	}
	if err := field(fieldTimestamp, &r.AnalysisTimestamp); err != nil {
		return err
	}
	if err := field(fieldInputLength, &r.InputLength); err != nil {
		return err
	}
	r.Criteria = make(map[criteria.Key]CriterionResult)
	for name, raw := range m {
		k := criteria.Key(name)
		if !criteria.IsValid(k) {
			continue
		}
		var cr CriterionResult
		if err := json.Unmarshal(raw, &cr); err != nil {
			return fmt.Errorf("criterion %s: %w", name, err)
		}
		r.Criteria[k] = cr
	}
	return nil
}

// Scores returns the per-criterion scores of the result.
func (r *AnalysisResult) Scores() map[criteria.Key]float64 {
	scores := make(map[criteria.Key]float64, len(r.Criteria))
	for k, cr := range r.Criteria {
		scores[k] = cr.Score
	}
	return scores
}

// Degraded reports whether the result came from an analysis whose model
// output could not be parsed. The sentinel summary is the degradation
// signal consumers should check.
func (r *AnalysisResult) Degraded() bool {
	return r.Summary == SummaryUnavailable
}
