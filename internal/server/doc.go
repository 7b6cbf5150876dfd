// Package server exposes the analysis engine over HTTP: health, analyze,
// examples, export, and a Gerrit webhook. Request bodies are validated
// against a JSON Schema before they reach the engine.
package server
