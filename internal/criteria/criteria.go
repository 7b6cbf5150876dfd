package criteria

// Key identifies one of the fixed review criteria. The set is stable and
// never extended at runtime; unknown keys in inbound payloads are rejected.
type Key string

const (
	AreCodeChangesOptimized      Key = "areCodeChangesOptimized"
	AreCodeChangesRelative       Key = "areCodeChangesRelative"
	IsCodeFormatted              Key = "isCodeFormatted"
	IsCodeWellWritten            Key = "isCodeWellWritten"
	AreCommentsWritten           Key = "areCommentsWritten"
	CyclomaticComplexityScore    Key = "cyclomaticComplexityScore"
	MissingElements              Key = "missingElements"
	Loopholes                    Key = "loopholes"
	IsCommitMessageWellWritten   Key = "isCommitMessageWellWritten"
	IsNamingConventionFollowed   Key = "isNamingConventionFollowed"
	AreThereAnySpellingMistakes  Key = "areThereAnySpellingMistakes"
	SecurityConcernsAny          Key = "securityConcernsAny"
	IsCodeDuplicated             Key = "isCodeDuplicated"
	AreConstantsDefinedCentrally Key = "areConstantsDefinedCentrally"
	IsCodeModular                Key = "isCodeModular"
	IsLoggingDoneProperly        Key = "isLoggingDoneProperly"
)

// Definition describes one review criterion.
type Definition struct {
	Key         Key
	Label       string
	Description string
	Weight      float64
}

// catalog holds the fixed criteria in canonical order.
var catalog = []Definition{
	{AreCodeChangesOptimized, "Are Code Changes Optimized", "Evaluates if the code changes are optimized for performance and efficiency", 1.0},
	{AreCodeChangesRelative, "Are Code Changes Relative", "Checks if code changes are relevant to the intended functionality", 1.0},
	{IsCodeFormatted, "Is Code Formatted", "Verifies proper code formatting and style consistency", 0.8},
	{IsCodeWellWritten, "Is Code Well Written", "Assesses overall code quality and readability", 1.2},
	{AreCommentsWritten, "Are Comments Written", "Checks for adequate and meaningful comments", 0.9},
	{CyclomaticComplexityScore, "Cyclomatic Complexity Score", "Measures code complexity using cyclomatic complexity", 1.1},
	{MissingElements, "Missing Elements", "Identifies missing components like error handling, validation", 1.0},
	{Loopholes, "Loopholes", "Identifies potential logic gaps or edge cases", 1.2},
	{IsCommitMessageWellWritten, "Is Commit Message Well Written", "Evaluates commit message quality and informativeness", 0.7},
	{IsNamingConventionFollowed, "Is Naming Convention Followed", "Checks adherence to naming conventions", 0.8},
	{AreThereAnySpellingMistakes, "Are There Any Spelling Mistakes", "Identifies spelling errors in code and comments", 0.6},
	{SecurityConcernsAny, "Security Concerns Any", "Identifies potential security vulnerabilities", 1.5},
	{IsCodeDuplicated, "Is Code Duplicated", "Detects code duplication and suggests refactoring", 1.0},
	{AreConstantsDefinedCentrally, "Are Constants Defined Centrally", "Checks if constants are properly centralized", 0.8},
	{IsCodeModular, "Is Code Modular", "Evaluates code modularity and separation of concerns", 1.1},
	{IsLoggingDoneProperly, "Is Logging Done Properly", "Checks for proper logging implementation", 0.9},
}

// index maps keys to their catalog position for O(1) lookups.
var index = func() map[Key]int {
	m := make(map[Key]int, len(catalog))
	for i, d := range catalog {
		m[d.Key] = i
	}
	return m
}()

// All returns the fixed criterion keys in canonical order.
func All() []Key {
	keys := make([]Key, len(catalog))
	for i, d := range catalog {
		keys[i] = d.Key
	}
	return keys
}

// Count is the number of fixed criteria.
func Count() int { return len(catalog) }

// IsValid reports whether k is one of the fixed criterion keys.
func IsValid(k Key) bool {
	_, ok := index[k]
	return ok
}

// Lookup returns the definition for k. The second return is false for
// unknown keys.
func Lookup(k Key) (Definition, bool) {
	i, ok := index[k]
	if !ok {
		return Definition{}, false
	}
	return catalog[i], true
}

// Label returns the human-readable label for k, or the key itself if
// unknown.
func Label(k Key) string {
	if d, ok := Lookup(k); ok {
		return d.Label
	}
	return string(k)
}

// Selection maps criterion keys to whether they were requested for an
// analysis run. A nil or empty Selection means all criteria.
type Selection map[Key]bool

// SelectAll returns a Selection with every criterion enabled.
func SelectAll() Selection {
	s := make(Selection, len(catalog))
	for _, d := range catalog {
		s[d.Key] = true
	}
	return s
}

// Enabled returns the enabled keys in canonical order. A nil or empty
// selection yields all keys.
func (s Selection) Enabled() []Key {
	if len(s) == 0 {
		return All()
	}
	var keys []Key
	for _, d := range catalog {
		if s[d.Key] {
			keys = append(keys, d.Key)
		}
	}
	return keys
}

// IsComplete reports whether the selection covers every criterion.
func (s Selection) IsComplete() bool {
	return len(s.Enabled()) == len(catalog)
}

// Validate checks that the selection names only known keys and enables at
// least one of them.
func (s Selection) Validate() error {
	for k := range s {
		if !IsValid(k) {
			return &UnknownKeyError{Key: k}
		}
	}
	if len(s) > 0 && len(s.Enabled()) == 0 {
		return ErrEmptySelection
	}
	return nil
}
