package modules

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/poemonsense/antigravity-proxy-go/internal/config"
)

func withTempUsageHistoryDBPath(t *testing.T) {
	t.Helper()
	original := config.UsageHistoryDBPath
	config.UsageHistoryDBPath = filepath.Join(t.TempDir(), "usage-history.db")
	t.Cleanup(func() { config.UsageHistoryDBPath = original })
}

func TestTrackAndGetHistoryFallBackToSQLiteWithoutRedis(t *testing.T) {
	withTempUsageHistoryDBPath(t)

	stats := NewUsageStats(nil)
	defer stats.Shutdown()
	stats.Initialize()

	stats.Track("claude-opus-4-5")
	stats.Track("claude-opus-4-5")
	stats.Track("gemini-3-pro")

	history, err := stats.GetHistory(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 {
		t.Fatalf("hour buckets = %d, want 1", len(history))
	}

	for _, raw := range history {
		hourData, ok := raw.(map[string]interface{})
		if !ok {
			t.Fatalf("unexpected hour data type %T", raw)
		}
		if hourData["_total"] != int64(3) {
			t.Errorf("_total = %v, want 3", hourData["_total"])
		}
		claudeData, ok := hourData["claude"].(map[string]interface{})
		if !ok {
			t.Fatal("expected claude family bucket")
		}
		if claudeData["opus-4-5"] != int64(2) {
			t.Errorf("claude opus count = %v, want 2", claudeData["opus-4-5"])
		}
	}
}

func TestGetFamilyAndShortName(t *testing.T) {
	cases := []struct {
		model  string
		family string
		short  string
	}{
		{"claude-opus-4-5", "claude", "opus-4-5"},
		{"gemini-3-pro", "gemini", "3-pro"},
		{"some-other-model", "other", "some-other-model"},
	}

	for _, tc := range cases {
		family := GetFamily(tc.model)
		if family != tc.family {
			t.Errorf("GetFamily(%q) = %q, want %q", tc.model, family, tc.family)
		}
		if short := GetShortName(tc.model, family); short != tc.short {
			t.Errorf("GetShortName(%q, %q) = %q, want %q", tc.model, family, short, tc.short)
		}
	}
}
