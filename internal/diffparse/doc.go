// Package diffparse classifies submitted code as a git diff or raw text
// and extracts per-file change statistics used for prompt context.
package diffparse
