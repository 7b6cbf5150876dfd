// Package redact removes secrets from submitted code before it is sent to
// any LLM provider.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private keys, AWS access key IDs and secret access keys, bearer
// tokens, credentials embedded in URLs, and provider-specific tokens
// (Google, Anthropic, OpenAI, GitHub, Slack).
package redact
