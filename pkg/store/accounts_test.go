package store

import (
	"testing"

	"github.com/poemonsense/antigravity-proxy-go/pkg/redis"
)

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	s := NewAccountStore(t.TempDir() + "/accounts.json")

	file, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(file.Accounts) != 0 {
		t.Errorf("accounts = %d, want 0", len(file.Accounts))
	}
	if file.Settings == nil {
		t.Error("expected non-nil settings map")
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	s := NewAccountStore(t.TempDir() + "/accounts.json")

	file := &AccountFile{
		Accounts: []*redis.Account{
			{Email: "a@example.com", Source: "oauth", Enabled: true},
			{Email: "b@example.com", Source: "manual", Enabled: false},
		},
		Settings:    map[string]interface{}{"strategy": "hybrid"},
		ActiveIndex: 1,
	}

	if err := s.Save(file); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Accounts) != 2 {
		t.Fatalf("accounts = %d, want 2", len(loaded.Accounts))
	}
	if loaded.Accounts[0].Email != "a@example.com" {
		t.Errorf("email = %q, want a@example.com", loaded.Accounts[0].Email)
	}
	if loaded.ActiveIndex != 1 {
		t.Errorf("activeIndex = %d, want 1", loaded.ActiveIndex)
	}
	if loaded.Settings["strategy"] != "hybrid" {
		t.Errorf("settings[strategy] = %v, want hybrid", loaded.Settings["strategy"])
	}
}

func TestSaveOverwritesPreviousContent(t *testing.T) {
	s := NewAccountStore(t.TempDir() + "/accounts.json")

	if err := s.Save(&AccountFile{
		Accounts: []*redis.Account{{Email: "old@example.com"}},
		Settings: map[string]interface{}{},
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(&AccountFile{
		Accounts: []*redis.Account{{Email: "new@example.com"}},
		Settings: map[string]interface{}{},
	}); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Accounts) != 1 || loaded.Accounts[0].Email != "new@example.com" {
		t.Fatalf("accounts = %+v, want single new@example.com entry", loaded.Accounts)
	}
}
