package store

import (
	"context"
	"testing"
)

func newTestUsageStore(t *testing.T) *UsageStore {
	t.Helper()
	path := t.TempDir() + "/usage.db"
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordRequestIncrements(t *testing.T) {
	s := newTestUsageStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.RecordRequest(ctx, "claude", "opus-4-5"); err != nil {
			t.Fatal(err)
		}
	}

	history, err := s.GetHistory(ctx, 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 {
		t.Fatalf("hour buckets = %d, want 1", len(history))
	}
	for _, stats := range history {
		if stats.Total != 3 {
			t.Errorf("total = %d, want 3", stats.Total)
		}
		fam, ok := stats.Families["claude"]
		if !ok {
			t.Fatal("expected claude family bucket")
		}
		if fam.Models["opus-4-5"] != 3 {
			t.Errorf("model count = %d, want 3", fam.Models["opus-4-5"])
		}
		if fam.Subtotal != 3 {
			t.Errorf("subtotal = %d, want 3", fam.Subtotal)
		}
	}
}

func TestSetCountOverwrites(t *testing.T) {
	s := newTestUsageStore(t)
	ctx := context.Background()

	if err := s.SetCount(ctx, "2026-07-01T10", "gemini", "flash", 42); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCount(ctx, "2026-07-01T10", "gemini", "flash", 7); err != nil {
		t.Fatal(err)
	}

	history, err := s.GetHistory(ctx, 365)
	if err != nil {
		t.Fatal(err)
	}
	stats, ok := history["2026-07-01T10"]
	if !ok {
		t.Fatal("expected seeded hour bucket")
	}
	if stats.Families["gemini"].Models["flash"] != 7 {
		t.Errorf("count = %d, want 7 (overwritten, not summed)", stats.Families["gemini"].Models["flash"])
	}
}

func TestPruneOlderThanRemovesOldBuckets(t *testing.T) {
	s := newTestUsageStore(t)
	ctx := context.Background()

	if err := s.SetCount(ctx, "2000-01-01T00", "claude", "opus-4-5", 5); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordRequest(ctx, "claude", "opus-4-5"); err != nil {
		t.Fatal(err)
	}

	pruned, err := s.PruneOlderThan(ctx, 30)
	if err != nil {
		t.Fatal(err)
	}
	if pruned != 1 {
		t.Fatalf("pruned = %d, want 1", pruned)
	}

	history, err := s.GetHistory(ctx, 365)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := history["2000-01-01T00"]; ok {
		t.Error("expected old bucket to be pruned")
	}
}
