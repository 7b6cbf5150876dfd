// Package gerrit is a minimal client for the Gerrit REST API: fetching
// patch content for a change and posting review votes back. Responses are
// decoded after stripping Gerrit's )]}' XSSI prefix.
package gerrit
