// Package strategies provides the sticky account selection strategy.
// This file corresponds to src/account-manager/strategies/sticky-strategy.js in the Node.js version.
package strategies

import (
	"context"
	"sync"
	"time"

	"github.com/poemonsense/antigravity-proxy-go/internal/config"
	"github.com/poemonsense/antigravity-proxy-go/internal/utils"
	"github.com/poemonsense/antigravity-proxy-go/pkg/redis"
)

// StickyStrategy keeps using the same account until it becomes unavailable.
// Best for prompt caching as it maintains cache continuity across requests.
//
// When a request carries a SessionID, stickiness is per-session: each session
// is pinned to its own account via sessionPins, so concurrent sessions don't
// contend over a single shared index. Requests with no SessionID fall back to
// the shared CurrentIndex, matching a single global sticky slot.
type StickyStrategy struct {
	*BaseStrategy

	mu          sync.Mutex
	sessionPins map[string]string // sessionID -> pinned account email
}

// NewStickyStrategy creates a new StickyStrategy
func NewStickyStrategy(cfg *Config) *StickyStrategy {
	return &StickyStrategy{
		BaseStrategy: NewBaseStrategy(cfg, nil),
		sessionPins:  make(map[string]string),
	}
}

// SelectAccount selects an account with sticky preference.
// Prefers the current (or session-pinned) account for cache continuity, only
// switches when:
// - Current account is rate-limited for > 2 minutes
// - Current account is invalid
// - Current account is disabled
func (s *StickyStrategy) SelectAccount(ctx interface{}, accounts []*redis.Account, modelID string, options SelectOptions) *SelectionResult {
	if len(accounts) == 0 {
		return &SelectionResult{Account: nil, Index: options.CurrentIndex, WaitMs: 0}
	}

	if options.SessionID != "" {
		return s.selectForSession(context.Background(), accounts, modelID, options)
	}

	// Clamp index to valid range
	index := options.CurrentIndex
	if index >= len(accounts) {
		index = 0
	}

	currentAccount := accounts[index]
	bgCtx := context.Background()

	// Check if current account is usable
	if s.IsAccountUsable(bgCtx, currentAccount, modelID) {
		currentAccount.LastUsed = time.Now().UnixMilli()
		if options.OnSave != nil {
			options.OnSave()
		}
		return &SelectionResult{Account: currentAccount, Index: index, WaitMs: 0}
	}

	// Current account is not usable - check if others are available
	usableAccounts := s.GetUsableAccounts(bgCtx, accounts, modelID)

	if len(usableAccounts) > 0 {
		// Found a free account - switch immediately
		nextAccount, nextIndex := s.pickNext(bgCtx, accounts, index, modelID, options.OnSave)
		if nextAccount != nil {
			utils.Info("[StickyStrategy] Switched to new account (failover): %s", nextAccount.Email)
			return &SelectionResult{Account: nextAccount, Index: nextIndex, WaitMs: 0}
		}
	}

	// No other accounts available - check if we should wait for current
	shouldWait, waitMs := s.shouldWaitForAccount(bgCtx, currentAccount, modelID)
	if shouldWait {
		utils.Info("[StickyStrategy] Waiting %s for sticky account: %s",
			utils.FormatDuration(waitMs), currentAccount.Email)
		return &SelectionResult{Account: nil, Index: index, WaitMs: waitMs}
	}

	// Current account unavailable for too long, try to find any other
	nextAccount, nextIndex := s.pickNext(bgCtx, accounts, index, modelID, options.OnSave)
	return &SelectionResult{Account: nextAccount, Index: nextIndex, WaitMs: 0}
}

// selectForSession pins a session to a single account so cache continuity
// survives across requests from the same conversation, independent of the
// shared index other sessions (or sessionless requests) use.
func (s *StickyStrategy) selectForSession(ctx context.Context, accounts []*redis.Account, modelID string, options SelectOptions) *SelectionResult {
	s.mu.Lock()
	pinnedEmail, pinned := s.sessionPins[options.SessionID]
	s.mu.Unlock()

	if pinned {
		if pinnedAccount, idx, ok := findAccountByEmail(accounts, pinnedEmail); ok {
			if s.IsAccountUsable(ctx, pinnedAccount, modelID) {
				pinnedAccount.LastUsed = time.Now().UnixMilli()
				if options.OnSave != nil {
					options.OnSave()
				}
				return &SelectionResult{Account: pinnedAccount, Index: idx, WaitMs: 0}
			}

			// Pinned account unusable - fail over to another account if one
			// is free, otherwise wait for the pinned account like before.
			usableAccounts := s.GetUsableAccounts(ctx, accounts, modelID)
			if len(usableAccounts) > 0 {
				nextAccount, nextIndex := s.pickNext(ctx, accounts, idx, modelID, options.OnSave)
				if nextAccount != nil {
					s.pinSession(options.SessionID, nextAccount.Email)
					utils.Info("[StickyStrategy] Session %s re-pinned to %s (failover)", options.SessionID, nextAccount.Email)
					return &SelectionResult{Account: nextAccount, Index: nextIndex, WaitMs: 0}
				}
			}

			shouldWait, waitMs := s.shouldWaitForAccount(ctx, pinnedAccount, modelID)
			if shouldWait {
				utils.Info("[StickyStrategy] Waiting %s for session %s's pinned account: %s",
					utils.FormatDuration(waitMs), options.SessionID, pinnedAccount.Email)
				return &SelectionResult{Account: nil, Index: idx, WaitMs: waitMs}
			}

			nextAccount, nextIndex := s.pickNext(ctx, accounts, idx, modelID, options.OnSave)
			if nextAccount != nil {
				s.pinSession(options.SessionID, nextAccount.Email)
			}
			return &SelectionResult{Account: nextAccount, Index: nextIndex, WaitMs: 0}
		}
		// Pinned account no longer in the pool (removed) - pin fresh below.
	}

	index := options.CurrentIndex
	if index >= len(accounts) {
		index = 0
	}

	if s.IsAccountUsable(ctx, accounts[index], modelID) {
		accounts[index].LastUsed = time.Now().UnixMilli()
		if options.OnSave != nil {
			options.OnSave()
		}
		s.pinSession(options.SessionID, accounts[index].Email)
		utils.Info("[StickyStrategy] Session %s pinned to %s", options.SessionID, accounts[index].Email)
		return &SelectionResult{Account: accounts[index], Index: index, WaitMs: 0}
	}

	nextAccount, nextIndex := s.pickNext(ctx, accounts, index, modelID, options.OnSave)
	if nextAccount == nil {
		return &SelectionResult{Account: nil, Index: index, WaitMs: 0}
	}
	s.pinSession(options.SessionID, nextAccount.Email)
	utils.Info("[StickyStrategy] Session %s pinned to %s", options.SessionID, nextAccount.Email)
	return &SelectionResult{Account: nextAccount, Index: nextIndex, WaitMs: 0}
}

// pinSession records which account a session is pinned to.
func (s *StickyStrategy) pinSession(sessionID, email string) {
	s.mu.Lock()
	s.sessionPins[sessionID] = email
	s.mu.Unlock()
}

// findAccountByEmail looks up an account by email, returning its index.
func findAccountByEmail(accounts []*redis.Account, email string) (*redis.Account, int, bool) {
	for i, a := range accounts {
		if a.Email == email {
			return a, i, true
		}
	}
	return nil, -1, false
}

// pickNext picks the next available account starting from after the current index
func (s *StickyStrategy) pickNext(ctx context.Context, accounts []*redis.Account, currentIndex int, modelID string, onSave func()) (*redis.Account, int) {
	for i := 1; i <= len(accounts); i++ {
		idx := (currentIndex + i) % len(accounts)
		account := accounts[idx]

		if s.IsAccountUsable(ctx, account, modelID) {
			account.LastUsed = time.Now().UnixMilli()
			if onSave != nil {
				onSave()
			}

			position := idx + 1
			total := len(accounts)
			utils.Info("[StickyStrategy] Using account: %s (%d/%d)", account.Email, position, total)

			return account, idx
		}
	}

	return nil, currentIndex
}

// shouldWaitForAccount checks if we should wait for an account's rate limit to reset
func (s *StickyStrategy) shouldWaitForAccount(ctx context.Context, account *redis.Account, modelID string) (bool, int64) {
	if account == nil || account.IsInvalid || !account.Enabled {
		return false, 0
	}

	var waitMs int64

	if modelID != "" && s.accountStore != nil {
		info, err := s.accountStore.GetRateLimit(ctx, account.Email, modelID)
		if err == nil && info != nil && info.IsRateLimited && info.ResetTime > 0 {
			waitMs = info.ResetTime - time.Now().UnixMilli()
		}
	}

	// Wait if within threshold (2 minutes)
	if waitMs > 0 && waitMs <= config.MaxWaitBeforeErrorMs {
		return true, waitMs
	}

	return false, 0
}

// OnSuccess is called after a successful request
func (s *StickyStrategy) OnSuccess(account *redis.Account, modelID string) {
	// StickyStrategy doesn't track health scores
}

// OnRateLimit is called when a request is rate-limited
func (s *StickyStrategy) OnRateLimit(account *redis.Account, modelID string) {
	// StickyStrategy doesn't track health scores
}

// OnFailure is called when a request fails
func (s *StickyStrategy) OnFailure(account *redis.Account, modelID string) {
	// StickyStrategy doesn't track health scores
}
