// Package providers abstracts LLM backends behind the Generator interface.
// Gemini is the default; Anthropic, OpenAI, and Ollama-compatible servers
// are also supported. All providers share retry-with-backoff handling for
// rate limits and transient upstream failures.
package providers
