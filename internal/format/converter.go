// Package format converts request and response bodies between the Anthropic
// Messages wire format and the Google Generative AI format Cloud Code speaks.
//
// The request side (request_converter.go) walks an Anthropic request into a
// Google one: system prompt, message history, tool declarations, and
// thinking config, then runs cache_control stripping, thinking-signature
// recovery, and JSON Schema sanitization over the result.
//
// The response side (response_converter.go) does the reverse: candidates,
// parts, function calls and usage metadata become Anthropic content blocks,
// with thinking signatures cached for reuse in the next turn.
//
// content_converter.go and thinking_utils.go hold the message-shape helpers
// both directions share; schema_sanitizer.go strips the JSON Schema features
// Gemini's tool-calling doesn't support; signature_cache.go backs thinking
// signature reuse with Redis, falling back to an in-memory cache when Redis
// is unavailable.
package format

import (
	"github.com/poemonsense/antigravity-proxy-go/pkg/redis"
)

// Initialize sets up the format package with required dependencies
func Initialize(redisClient *redis.Client) {
	InitGlobalSignatureCache(redisClient)
}
