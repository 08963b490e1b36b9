// Package redis provides Redis operations for signature caching.
// Per-signature get/set operations live as convenience methods directly on
// Client (see client.go); this file covers the batch operations that act
// across the whole signature keyspace (clearing and counting), which don't
// fit that one-key-per-call shape.
package redis

import (
	"context"
)

// SignatureStore provides batch operations over the cached-signature keyspace.
type SignatureStore struct {
	client *Client
}

// NewSignatureStore creates a new SignatureStore
func NewSignatureStore(client *Client) *SignatureStore {
	return &SignatureStore{client: client}
}

// ClearAllSignatures clears every cached tool, thinking, and session signature
func (s *SignatureStore) ClearAllSignatures(ctx context.Context) error {
	for _, prefix := range []string{PrefixSignatureTool, PrefixSignatureThinking, PrefixSignatureSession} {
		keys, err := s.client.ScanAll(ctx, prefix+"*")
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.client.Delete(ctx, keys...); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetSignatureStats returns counts of cached signatures by kind
func (s *SignatureStore) GetSignatureStats(ctx context.Context) (map[string]int64, error) {
	stats := make(map[string]int64)

	toolKeys, err := s.client.ScanAll(ctx, PrefixSignatureTool+"*")
	if err != nil {
		return nil, err
	}
	stats["tool"] = int64(len(toolKeys))

	thinkingKeys, err := s.client.ScanAll(ctx, PrefixSignatureThinking+"*")
	if err != nil {
		return nil, err
	}
	stats["thinking"] = int64(len(thinkingKeys))

	sessionKeys, err := s.client.ScanAll(ctx, PrefixSignatureSession+"*")
	if err != nil {
		return nil, err
	}
	stats["session"] = int64(len(sessionKeys))

	stats["total"] = stats["tool"] + stats["thinking"] + stats["session"]

	return stats, nil
}

// MinSignatureLength is the minimum valid signature length
const MinSignatureLength = 50

// IsValidSignature checks if a signature meets minimum length requirements
func IsValidSignature(signature string) bool {
	return len(signature) >= MinSignatureLength
}
