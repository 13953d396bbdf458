// Package openrouter implements the generation.Generator interface against
// an OpenAI-compatible chat-completions endpoint (OpenRouter by default).
//
// The package contains the three cooperating pieces of the outbound
// pipeline: a process-wide rate limiter bounding concurrent and per-minute
// requests, a retrying HTTP transport with exponential backoff and jitter
// for transient provider failures, and the completion client that assembles
// and validates request payloads and parses provider replies.
package openrouter
