package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/critiqhq/critiq/internal/review"
)

// Bundle serializes a result for download, stamping it with the export
// time. The per-criterion keys stay flattened at the top level.
func Bundle(result *review.AnalysisResult, now time.Time) ([]byte, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("rebuilding result: %w", err)
	}
	m["exported_at"] = now.UTC().Format(time.RFC3339)
	return json.MarshalIndent(m, "", "  ")
}

// Filename returns the download filename for an export at the given time.
func Filename(now time.Time) string {
	return "analysis_" + now.UTC().Format("20060102_150405") + ".json"
}
