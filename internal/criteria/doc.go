// Package criteria defines the fixed set of code review criteria, the
// per-request selection of those criteria, and their scoring weights.
//
// The criterion set is closed: the sixteen keys declared here are the only
// keys that ever appear in analysis results, prompts, or request payloads.
package criteria
