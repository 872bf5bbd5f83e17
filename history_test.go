package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func testHistoryStore(t *testing.T) *HistoryStore {
	t.Helper()
	store, err := newHistoryStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatal(err)
	}
	return store
}

func completedJob(id string, completedAt time.Time) *DownloadJob {
	return &DownloadJob{
		ID:          id,
		URL:         "https://www.bilibili.com/video/BV" + id,
		Status:      StatusCompleted,
		CompletedAt: completedAt,
		Result: &JobResult{
			Title:    "title " + id,
			Filename: "title " + id + ".mp4",
		},
	}
}

func TestHistoryRecentNewestFirst(t *testing.T) {
	store := testHistoryStore(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"first", "second", "third"} {
		if err := store.Record(ctx, completedJob(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ID != "third" || entries[1].ID != "second" {
		t.Fatalf("unexpected order: %s, %s", entries[0].ID, entries[1].ID)
	}
	if entries[0].Filename != "title third.mp4" {
		t.Fatalf("unexpected filename %q", entries[0].Filename)
	}
}

func TestHistoryRecordIsUpsert(t *testing.T) {
	store := testHistoryStore(t)
	ctx := context.Background()
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	job := completedJob("dup", at)
	if err := store.Record(ctx, job); err != nil {
		t.Fatal(err)
	}
	job.Result.Filename = "renamed.mp4"
	if err := store.Record(ctx, job); err != nil {
		t.Fatal(err)
	}

	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Filename != "renamed.mp4" {
		t.Fatalf("upsert did not refresh row: %q", entries[0].Filename)
	}
}

func TestHistoryRecentEmpty(t *testing.T) {
	store := testHistoryStore(t)
	entries, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}
