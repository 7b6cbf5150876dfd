// Package output renders analysis results as text, JSON, or markdown.
// The markdown form doubles as the review comment posted back to Gerrit.
package output
