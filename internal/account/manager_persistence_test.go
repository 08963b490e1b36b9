package account

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/poemonsense/antigravity-proxy-go/internal/config"
	"github.com/poemonsense/antigravity-proxy-go/pkg/redis"
)

// withTempAccountConfigPath points config.AccountConfigPath at a temp file
// for the duration of the test and restores it afterward, so persistence
// tests never touch a real ~/.config/antigravity-proxy/accounts.json.
func withTempAccountConfigPath(t *testing.T) {
	t.Helper()
	original := config.AccountConfigPath
	config.AccountConfigPath = filepath.Join(t.TempDir(), "accounts.json")
	t.Cleanup(func() { config.AccountConfigPath = original })
}

func TestManagerPersistsAccountsWithoutRedis(t *testing.T) {
	withTempAccountConfigPath(t)
	ctx := context.Background()

	mgr := NewManager(nil, config.DefaultConfig())
	if err := mgr.Initialize(ctx, ""); err != nil {
		t.Fatal(err)
	}

	acc := &redis.Account{Email: "a@example.com", Source: "oauth", Enabled: true}
	if err := mgr.AddOrUpdateAccount(ctx, acc); err != nil {
		t.Fatal(err)
	}

	if mgr.GetAccountCount() != 1 {
		t.Fatalf("account count = %d, want 1", mgr.GetAccountCount())
	}

	// A fresh manager loading from the same path should see the persisted account.
	reloaded := NewManager(nil, config.DefaultConfig())
	if err := reloaded.Initialize(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if reloaded.GetAccountCount() != 1 {
		t.Fatalf("reloaded account count = %d, want 1", reloaded.GetAccountCount())
	}
	got, err := reloaded.GetAccountByEmail(ctx, "a@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if got.Source != "oauth" {
		t.Errorf("source = %q, want oauth", got.Source)
	}
}

func TestManagerRemoveAccountPersists(t *testing.T) {
	withTempAccountConfigPath(t)
	ctx := context.Background()

	mgr := NewManager(nil, config.DefaultConfig())
	if err := mgr.Initialize(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if err := mgr.AddOrUpdateAccount(ctx, &redis.Account{Email: "a@example.com", Enabled: true}); err != nil {
		t.Fatal(err)
	}
	if err := mgr.RemoveAccount(ctx, "a@example.com"); err != nil {
		t.Fatal(err)
	}
	if mgr.GetAccountCount() != 0 {
		t.Fatalf("account count = %d, want 0", mgr.GetAccountCount())
	}

	reloaded := NewManager(nil, config.DefaultConfig())
	if err := reloaded.Initialize(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if reloaded.GetAccountCount() != 0 {
		t.Fatalf("reloaded account count = %d, want 0 after removal", reloaded.GetAccountCount())
	}
}

func TestManagerMarkInvalidPersists(t *testing.T) {
	withTempAccountConfigPath(t)
	ctx := context.Background()

	mgr := NewManager(nil, config.DefaultConfig())
	if err := mgr.Initialize(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if err := mgr.AddOrUpdateAccount(ctx, &redis.Account{Email: "a@example.com", Enabled: true}); err != nil {
		t.Fatal(err)
	}
	if err := mgr.MarkInvalid(ctx, "a@example.com", "token revoked"); err != nil {
		t.Fatal(err)
	}

	reloaded := NewManager(nil, config.DefaultConfig())
	if err := reloaded.Initialize(ctx, ""); err != nil {
		t.Fatal(err)
	}
	got, err := reloaded.GetAccountByEmail(ctx, "a@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsInvalid {
		t.Error("expected invalid flag to persist across reload")
	}
	if got.InvalidReason != "token revoked" {
		t.Errorf("invalidReason = %q, want %q", got.InvalidReason, "token revoked")
	}
}
