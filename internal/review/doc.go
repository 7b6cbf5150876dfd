// Package review implements the analysis core: prompt construction, the
// response normalizer, and the engine that runs one analysis end to end.
//
// The normalizer is the contract between whatever text the model returns
// and the schema-complete AnalysisResult the renderer consumes. All
// data-quality problems are absorbed here into sentinel values; consumers
// never need per-field absence checks.
package review
