// Package extract locates JSON payloads inside unstructured LLM output.
//
// Models asked to respond with JSON routinely wrap it in markdown fences,
// surround it with prose, or both. Extraction runs a prioritized list of
// matcher strategies over the raw text and parses the first candidate
// found. It performs no schema validation; that belongs to the normalizer.
package extract
