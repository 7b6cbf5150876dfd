package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/critiqhq/critiq/internal/criteria"
	"github.com/critiqhq/critiq/internal/review"
)

// Writer writes an analysis result in a specific format.
type Writer interface {
	Write(w io.Writer, result *review.AnalysisResult) error
}

// GetWriter returns a writer for the specified format. weights applies
// to the markdown writer only; nil uses the catalog defaults.
func GetWriter(format string, weights criteria.Weights) (Writer, error) {
	switch format {
	case "text":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "markdown":
		return &MarkdownWriter{Weights: weights}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteResult writes the result to the specified output (file path or stdout).
func WriteResult(result *review.AnalysisResult, format, outPath string, weights criteria.Weights) error {
	writer, err := GetWriter(format, weights)
	if err != nil {
		return err
	}

	var w io.Writer
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	return writer.Write(w, result)
}

// JSONWriter emits the flattened wire format: criterion results appear as
// top-level keys next to overall_score, the shape consumers of the HTTP
// API also see.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, result *review.AnalysisResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
