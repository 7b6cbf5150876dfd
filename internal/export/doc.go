// Package export packages analysis results for client download.
package export
