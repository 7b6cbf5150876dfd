// Critiq is an AI code-review assistant that scores snippets and git diffs
// against a fixed set of review criteria using LLM providers.
//
// It runs as a CLI for local use and CI gating, or as an HTTP API with a
// Gerrit webhook for automated patchset review.
//
// Usage:
//
//	critiq analyze changes.diff       # analyze a diff file
//	git diff | critiq analyze         # analyze from stdin
//	critiq analyze --criteria securityConcernsAny,isCodeModular -
//	critiq serve --port 3001          # run the HTTP analysis API
//	critiq hook install               # block low-scoring commits
//
// See https://github.com/critiqhq/critiq for full documentation.
package main
