package review

import (
	"fmt"
	"strings"

	"github.com/critiqhq/critiq/internal/criteria"
)

const systemPrompt = `You are an expert code reviewer with extensive experience in software development, security, and best practices. You analyze code changes and score them against a fixed set of quality criteria.

Rules:
1. Score each requested criterion from 0 to 10, where 10 is excellent and 0 is very poor.
2. Every criterion entry must be an object with "score" (number) and "comment" (string) fields.
3. Be thorough but concise. Comments must explain the score and suggest concrete improvements.
4. Consider security implications, maintainability, readability, and performance.

You MUST respond with ONLY a valid JSON object following the exact structure given in the request. No markdown, no explanation, no preamble.`

// SystemPrompt returns the fixed system prompt for code analysis.
func SystemPrompt() string {
	return systemPrompt
}

// PromptContext carries optional hints about the submitted code.
type PromptContext struct {
	Language   string
	IsGitDiff  bool
	FileCount  int
	LinesAdded int
	LinesDel   int
}

// BuildUserPrompt constructs the analysis prompt for the given code and
// criteria selection. The response schema embedded in the prompt lists the
// fixed top-level fields plus exactly the enabled criteria.
func BuildUserPrompt(code string, sel criteria.Selection, pctx PromptContext) string {
	var b strings.Builder

	b.WriteString("Analyze the following code and provide a comprehensive review.\n\n")

	if pctx.IsGitDiff {
		fmt.Fprintf(&b, "The input is a git diff touching %d file(s) (+%d/-%d lines).\n",
			pctx.FileCount, pctx.LinesAdded, pctx.LinesDel)
	}
	if pctx.Language != "" {
		fmt.Fprintf(&b, "Language: %s\n", pctx.Language)
	}

	b.WriteString("\n## Review Criteria\n")
	for _, k := range sel.Enabled() {
		d, _ := criteria.Lookup(k)
		fmt.Fprintf(&b, "**%s**: %s\n", d.Label, d.Description)
	}

	b.WriteString("\n## Response Format\nRespond with a valid JSON object following this exact structure:\n\n{\n")
	b.WriteString("    \"overall_score\": <number 0-10>,\n")
	b.WriteString("    \"summary\": \"<brief summary>\",\n")
	b.WriteString("    \"detailed_feedback\": \"<detailed analysis>\"")
	for _, k := range sel.Enabled() {
		fmt.Fprintf(&b, ",\n    %q: {\"score\": <0-10>, \"comment\": \"<explanation>\"}", string(k))
	}
	b.WriteString("\n}\n")

	b.WriteString("\n--- BEGIN CODE ---\n")
	b.WriteString(code)
	b.WriteString("\n--- END CODE ---\n")

	return b.String()
}
