package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/poemonsense/antigravity-proxy-go/pkg/redis"
)

// AccountFile is the on-disk shape of accounts.json: the durable source of
// truth for which accounts are configured. Runtime-only state (rate limits,
// health scores, token buckets, cached tokens) stays in Redis and is never
// written here.
type AccountFile struct {
	Accounts    []*redis.Account       `json:"accounts"`
	Settings    map[string]interface{} `json:"settings"`
	ActiveIndex int                    `json:"activeIndex"`
}

// AccountStore reads and writes accounts.json. A single instance should be
// shared by callers that mutate it, since Save does a non-atomic
// read-modify-write at the caller level; Save itself only guards the final
// write against interleaving with another Save on the same instance.
type AccountStore struct {
	path string
	mu   sync.Mutex
}

// NewAccountStore creates an AccountStore backed by the file at path.
func NewAccountStore(path string) *AccountStore {
	return &AccountStore{path: path}
}

// Load reads accounts.json, returning an empty AccountFile if it doesn't
// exist yet (first run, or a fresh install with no accounts enrolled).
func (s *AccountStore) Load() (*AccountFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &AccountFile{Accounts: []*redis.Account{}, Settings: map[string]interface{}{}}, nil
		}
		return nil, fmt.Errorf("read accounts file: %w", err)
	}

	var file AccountFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse accounts file: %w", err)
	}
	if file.Accounts == nil {
		file.Accounts = []*redis.Account{}
	}
	if file.Settings == nil {
		file.Settings = map[string]interface{}{}
	}
	return &file, nil
}

// Save writes accounts.json atomically (write to a temp file, then rename)
// so a crash mid-write never leaves a truncated or corrupt config behind.
func (s *AccountStore) Save(file *AccountFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal accounts file: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write accounts file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace accounts file: %w", err)
	}
	return nil
}
