package diffparse

import "strings"

// DetectLanguage guesses the programming language of a code snippet from
// content heuristics. Returns "" when no heuristic matches.
func DetectLanguage(code string) string {
	upper := strings.ToUpper(code)
	lower := strings.ToLower(code)

	switch {
	case strings.Contains(code, "package ") && strings.Contains(code, "func "):
		return "go"
	case strings.Contains(code, "def ") && strings.Contains(code, "import "):
		return "python"
	case strings.Contains(code, "const ") && strings.Contains(code, "=>"):
		return "typescript"
	case strings.Contains(code, "function ") && strings.Contains(code, "{"):
		return "javascript"
	case strings.Contains(code, "public class ") || strings.Contains(code, "private "):
		return "java"
	case strings.Contains(code, "#include") && strings.Contains(code, "int main"):
		return "cpp"
	case strings.Contains(upper, "SELECT ") && strings.Contains(upper, "FROM "):
		return "sql"
	case strings.Contains(lower, "<html") || strings.Contains(lower, "<div"):
		return "html"
	}
	return ""
}
