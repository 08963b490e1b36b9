package main

import (
	"context"
	"fmt"

	"github.com/poemonsense/antigravity-proxy-go/internal/config"
	"github.com/poemonsense/antigravity-proxy-go/pkg/redis"
	"github.com/poemonsense/antigravity-proxy-go/pkg/store"
)

// newFileStore opens accounts.json, the durable source of truth shared with
// the running proxy server.
func newFileStore() *store.AccountStore {
	return store.NewAccountStore(config.AccountConfigPath)
}

// newRedisCache connects to the Redis instance backing a locally-deployed
// proxy, if one is reachable. Redis is only a secondary cache here; a failed
// connection is not fatal to any CLI command.
func newRedisCache() (*redis.Client, *redis.AccountStore) {
	client, err := redis.NewClient(redis.Config{Addr: "localhost:6379"})
	if err != nil {
		return nil, nil
	}
	return client, redis.NewAccountStore(client)
}

// loadAccounts loads accounts from accounts.json
func loadAccounts() []*redis.Account {
	file, err := newFileStore().Load()
	if err != nil {
		fmt.Println("Error loading accounts.json:", err)
		return nil
	}
	return file.Accounts
}

// mirrorToRedis best-effort syncs the full account list to the Redis cache
// so a running proxy server reloading from Redis sees the same accounts.
func mirrorToRedis(accounts []*redis.Account) {
	client, redisStore := newRedisCache()
	if client == nil {
		return
	}
	defer client.Close()

	ctx := context.Background()
	for _, acc := range accounts {
		_ = redisStore.SetAccount(ctx, acc)
	}
}

// saveAccount saves an account to accounts.json (adding or replacing by
// email) and mirrors the result to the Redis cache.
func saveAccount(acc *redis.Account) error {
	fileStore := newFileStore()
	file, err := fileStore.Load()
	if err != nil {
		return err
	}

	replaced := false
	for i, existing := range file.Accounts {
		if existing.Email == acc.Email {
			file.Accounts[i] = acc
			replaced = true
			break
		}
	}
	if !replaced {
		file.Accounts = append(file.Accounts, acc)
	}

	if err := fileStore.Save(file); err != nil {
		return err
	}

	mirrorToRedis(file.Accounts)
	return nil
}

// deleteAccount removes an account from accounts.json by email and mirrors
// the result to the Redis cache.
func deleteAccount(email string) error {
	fileStore := newFileStore()
	file, err := fileStore.Load()
	if err != nil {
		return err
	}

	for i, acc := range file.Accounts {
		if acc.Email == email {
			file.Accounts = append(file.Accounts[:i], file.Accounts[i+1:]...)
			if err := fileStore.Save(file); err != nil {
				return err
			}
			if client, redisStore := newRedisCache(); client != nil {
				defer client.Close()
				_ = redisStore.DeleteAccount(context.Background(), email)
			}
			return nil
		}
	}

	return nil
}

// clearAllAccountsFromStore removes all accounts from accounts.json and the
// Redis cache.
func clearAllAccountsFromStore() error {
	fileStore := newFileStore()
	file, err := fileStore.Load()
	if err != nil {
		return err
	}

	emails := make([]string, len(file.Accounts))
	for i, acc := range file.Accounts {
		emails[i] = acc.Email
	}

	file.Accounts = []*redis.Account{}
	if err := fileStore.Save(file); err != nil {
		return err
	}

	if client, redisStore := newRedisCache(); client != nil {
		defer client.Close()
		ctx := context.Background()
		for _, email := range emails {
			_ = redisStore.DeleteAccount(ctx, email)
		}
	}

	return nil
}

// displayAccounts shows the list of accounts
func displayAccounts(accounts []*redis.Account) {
	if len(accounts) == 0 {
		fmt.Println("\nNo accounts configured.")
		return
	}

	fmt.Printf("\n%d account(s) saved:\n", len(accounts))
	for i, acc := range accounts {
		status := ""
		if acc.IsInvalid {
			status = " (invalid)"
		} else if !acc.Enabled {
			status = " (disabled)"
		}
		fmt.Printf("  %d. %s%s\n", i+1, acc.Email, status)
	}
}
