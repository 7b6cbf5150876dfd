package review

import (
	"encoding/json"
	"testing"

	"github.com/critiqhq/critiq/internal/criteria"
)

func sampleAnalysis() *AnalysisResult {
	return &AnalysisResult{
		OverallScore:     7.5,
		Summary:          "decent",
		DetailedFeedback: "could be better",
		Criteria: map[criteria.Key]CriterionResult{
			criteria.IsCodeFormatted:     {Score: 8, Comment: "tidy"},
			criteria.SecurityConcernsAny: {Score: 5, Comment: "check input handling"},
		},
		ProcessingTimeMS:  300,
		AnalysisTimestamp: "2026-08-23T10:00:00Z",
		InputLength:       128,
	}
}

func TestMarshal_FlattensCriteria(t *testing.T) {
	data, err := json.Marshal(sampleAnalysis())
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}

	if m["overall_score"] != 7.5 {
		t.Errorf("overall_score = %v, want 7.5", m["overall_score"])
	}
	// Criteria appear as top-level keys, not under a container field.
	if _, ok := m["Criteria"]; ok {
		t.Error("serialized form should not contain a Criteria container")
	}
	cf, ok := m["isCodeFormatted"].(map[string]any)
	if !ok {
		t.Fatal("isCodeFormatted should be a top-level object")
	}
	if cf["score"] != 8.0 || cf["comment"] != "tidy" {
		t.Errorf("isCodeFormatted = %v", cf)
	}
	// Weighted score is omitted when nil.
	if _, ok := m["weighted_overall_score"]; ok {
		t.Error("nil weighted score should be omitted")
	}
}

func TestMarshal_IncludesWeightedScore(t *testing.T) {
	r := sampleAnalysis()
	weighted := 6.5
	r.WeightedOverallScore = &weighted

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m["weighted_overall_score"] != 6.5 {
		t.Errorf("weighted_overall_score = %v, want 6.5", m["weighted_overall_score"])
	}
}

func TestUnmarshal_Roundtrip(t *testing.T) {
	orig := sampleAnalysis()
	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatal(err)
	}

	var back AnalysisResult
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}

	if back.OverallScore != orig.OverallScore {
		t.Errorf("OverallScore = %v, want %v", back.OverallScore, orig.OverallScore)
	}
	if back.Summary != orig.Summary || back.DetailedFeedback != orig.DetailedFeedback {
		t.Error("text fields did not survive the roundtrip")
	}
	if back.ProcessingTimeMS != orig.ProcessingTimeMS || back.InputLength != orig.InputLength {
		t.Error("meta fields did not survive the roundtrip")
	}
	if len(back.Criteria) != len(orig.Criteria) {
		t.Fatalf("Criteria has %d entries, want %d", len(back.Criteria), len(orig.Criteria))
	}
	for k, want := range orig.Criteria {
		if back.Criteria[k] != want {
			t.Errorf("criterion %s = %+v, want %+v", k, back.Criteria[k], want)
		}
	}
}

func TestUnmarshal_IgnoresUnknownKeys(t *testing.T) {
	payload := `{
		"overall_score": 5,
		"summary": "s",
		"someFutureField": {"score": 1, "comment": "ignored"},
		"isCodeModular": {"score": 6, "comment": "fine"}
	}`
	var r AnalysisResult
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		t.Fatal(err)
	}
	if len(r.Criteria) != 1 {
		t.Fatalf("Criteria has %d entries, want 1", len(r.Criteria))
	}
	if r.Criteria[criteria.IsCodeModular].Score != 6 {
		t.Errorf("isCodeModular = %+v", r.Criteria[criteria.IsCodeModular])
	}
}

func TestScores(t *testing.T) {
	scores := sampleAnalysis().Scores()
	if len(scores) != 2 {
		t.Fatalf("Scores has %d entries, want 2", len(scores))
	}
	if scores[criteria.SecurityConcernsAny] != 5 {
		t.Errorf("securityConcernsAny score = %v, want 5", scores[criteria.SecurityConcernsAny])
	}
}

func TestDegraded(t *testing.T) {
	r := sampleAnalysis()
	if r.Degraded() {
		t.Error("result with a real summary should not be degraded")
	}
	r.Summary = SummaryUnavailable
	if !r.Degraded() {
		t.Error("sentinel summary should mark the result degraded")
	}
}
