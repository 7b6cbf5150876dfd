package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// A matcher locates a candidate JSON span in raw model output. It returns
// the candidate text and whether a candidate was found.
type matcher func(raw string) (string, bool)

// matchers is the prioritized strategy list. The first matcher that yields
// a candidate wins; later strategies are never consulted for the same input.
var matchers = []matcher{
	matchTaggedFence,
	matchObjectFence,
	matchBraceSpan,
}

var (
	// A code fence explicitly tagged as JSON.
	taggedFenceRe = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")
	// Any code fence; the interior is checked for object braces separately.
	// Group 1 is the info string, group 2 the fence body.
	anyFenceRe = regexp.MustCompile("(?s)```([^\\n`]*)\\n?(.*?)```")
)

// Object locates and parses a single JSON object in raw LLM output.
// It tries, in order: a ```json fence, any fence whose trimmed interior is
// brace-delimited, then the widest {...} span in the raw text. Only the
// first strategy that yields a candidate is parsed; if that candidate is
// malformed the whole extraction reports a miss rather than falling
// through to a weaker strategy. Pure and deterministic.
func Object(raw string) (map[string]any, bool) {
	for _, match := range matchers {
		candidate, ok := match(raw)
		if !ok {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
			return nil, false
		}
		return obj, true
	}
	return nil, false
}

func matchTaggedFence(raw string) (string, bool) {
	m := taggedFenceRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func matchObjectFence(raw string) (string, bool) {
	for _, m := range anyFenceRe.FindAllStringSubmatch(raw, -1) {
		body := strings.TrimSpace(m[2])
		if strings.HasPrefix(body, "{") && strings.HasSuffix(body, "}") {
			return body, true
		}
	}
	return "", false
}

// matchBraceSpan takes the substring from the first '{' to the last '}'.
// LLMs commonly wrap a single JSON object in prose; the widest span
// captures it without trying to balance braces.
func matchBraceSpan(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}
