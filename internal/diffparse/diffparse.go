package diffparse

import (
	"strconv"
	"strings"
)

// LineKind classifies a single diff line.
type LineKind string

const (
	LineContext LineKind = "context"
	LineAdded   LineKind = "added"
	LineRemoved LineKind = "removed"
)

// Line is one line within a hunk, with its +/-/space prefix stripped.
type Line struct {
	Kind    LineKind `json:"type"`
	Content string   `json:"content"`
}

// Hunk is one @@-delimited change region.
type Hunk struct {
	OldStart int    `json:"old_start"`
	OldLines int    `json:"old_lines"`
	NewStart int    `json:"new_start"`
	NewLines int    `json:"new_lines"`
	Lines    []Line `json:"lines"`
}

// File is one file entry in a git diff.
type File struct {
	Path         string `json:"file_path"`
	ChangeType   string `json:"change_type"` // modified, added, deleted
	LinesAdded   int    `json:"lines_added"`
	LinesRemoved int    `json:"lines_removed"`
	Hunks        []Hunk `json:"hunks"`
}

// Formats recognized by Parse.
const (
	FormatGitDiff = "git-diff"
	FormatRawText = "raw-text"
)

// Result describes the submitted input. Raw text that is not a git diff
// comes back as FormatRawText with Content set.
type Result struct {
	Format            string `json:"format"`
	Files             []File `json:"files,omitempty"`
	TotalFiles        int    `json:"total_files"`
	TotalLinesAdded   int    `json:"total_lines_added"`
	TotalLinesRemoved int    `json:"total_lines_removed"`
	Content           string `json:"content,omitempty"`
}

// IsGitDiff reports whether the input parsed as a git diff.
func (r Result) IsGitDiff() bool { return r.Format == FormatGitDiff }

// Parse extracts structured information from git-diff text. Input without
// any "diff --git" header is classified as raw text, never an error.
func Parse(text string) Result {
	if !strings.Contains(text, "diff --git") {
		return Result{Format: FormatRawText, Content: text}
	}

	var files []File
	var current *File
	var hunk *Hunk

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git"):
			if current != nil {
				files = append(files, *current)
			}
			hunk = nil
			current = &File{ChangeType: "modified"}
			// "diff --git a/path b/path": take the b/ side.
			parts := strings.Fields(line)
			if len(parts) >= 4 {
				current.Path = strings.TrimPrefix(parts[3], "b/")
			}

		case strings.HasPrefix(line, "new file mode"):
			if current != nil {
				current.ChangeType = "added"
			}

		case strings.HasPrefix(line, "deleted file mode"):
			if current != nil {
				current.ChangeType = "deleted"
			}

		case strings.HasPrefix(line, "@@"):
			if current == nil {
				continue
			}
			h, ok := parseHunkHeader(line)
			if !ok {
				continue
			}
			current.Hunks = append(current.Hunks, h)
			hunk = &current.Hunks[len(current.Hunks)-1]

		default:
			if hunk == nil || current == nil || line == "" {
				continue
			}
			switch line[0] {
			case ' ':
				hunk.Lines = append(hunk.Lines, Line{Kind: LineContext, Content: line[1:]})
			case '+':
				current.LinesAdded++
				hunk.Lines = append(hunk.Lines, Line{Kind: LineAdded, Content: line[1:]})
			case '-':
				current.LinesRemoved++
				hunk.Lines = append(hunk.Lines, Line{Kind: LineRemoved, Content: line[1:]})
			}
		}
	}
	if current != nil {
		files = append(files, *current)
	}

	result := Result{
		Format:     FormatGitDiff,
		Files:      files,
		TotalFiles: len(files),
	}
	for _, f := range files {
		result.TotalLinesAdded += f.LinesAdded
		result.TotalLinesRemoved += f.LinesRemoved
	}
	return result
}

// parseHunkHeader parses "@@ -oldStart,oldLines +newStart,newLines @@".
func parseHunkHeader(line string) (Hunk, bool) {
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return Hunk{}, false
	}
	oldStart, oldLines, ok := parseRange(strings.TrimPrefix(parts[1], "-"))
	if !ok {
		return Hunk{}, false
	}
	newStart, newLines, ok := parseRange(strings.TrimPrefix(parts[2], "+"))
	if !ok {
		return Hunk{}, false
	}
	return Hunk{OldStart: oldStart, OldLines: oldLines, NewStart: newStart, NewLines: newLines}, true
}

// parseRange parses "start,count" or bare "start" (count 1).
func parseRange(s string) (start, count int, ok bool) {
	count = 1
	numStr, countStr, hasCount := strings.Cut(s, ",")
	n, err := strconv.Atoi(numStr)
	if err != nil {
		return 0, 0, false
	}
	if hasCount {
		c, err := strconv.Atoi(countStr)
		if err != nil {
			return 0, 0, false
		}
		count = c
	}
	return n, count, true
}
