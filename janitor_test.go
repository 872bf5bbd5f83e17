package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// stubBirthTime maps files whose names start with "old" to two hours
// ago and everything else to now.
func stubBirthTime(t *testing.T) {
	t.Helper()
	orig := fileBirthTime
	now := time.Now()
	fileBirthTime = func(info os.FileInfo) time.Time {
		if strings.HasPrefix(info.Name(), "old") {
			return now.Add(-2 * time.Hour)
		}
		return now
	}
	t.Cleanup(func() { fileBirthTime = orig })
}

func TestJanitorCycleDeletesOnlyExpiredFiles(t *testing.T) {
	stubBirthTime(t)
	cfg := Config{
		OutputDir:    t.TempDir(),
		WorkDir:      t.TempDir(),
		RetentionAge: time.Hour,
	}

	oldOut := writeFile(t, filepath.Join(cfg.OutputDir, "old_video.mp4"))
	freshOut := writeFile(t, filepath.Join(cfg.OutputDir, "fresh_video.mp4"))
	oldTmp := writeFile(t, filepath.Join(cfg.WorkDir, "old_audio.m4a"))
	freshTmp := writeFile(t, filepath.Join(cfg.WorkDir, "fresh_audio.m4a"))

	janitorCycle(cfg)

	for _, gone := range []string{oldOut, oldTmp} {
		if _, err := os.Stat(gone); !os.IsNotExist(err) {
			t.Fatalf("%s should have been deleted", gone)
		}
	}
	for _, kept := range []string{freshOut, freshTmp} {
		if _, err := os.Stat(kept); err != nil {
			t.Fatalf("%s should have survived: %v", kept, err)
		}
	}
}

func TestJanitorCycleSkipsDirectories(t *testing.T) {
	stubBirthTime(t)
	cfg := Config{
		OutputDir:    t.TempDir(),
		WorkDir:      t.TempDir(),
		RetentionAge: time.Hour,
	}
	subdir := filepath.Join(cfg.OutputDir, "old_subdir")
	if err := os.Mkdir(subdir, 0o755); err != nil {
		t.Fatal(err)
	}

	janitorCycle(cfg)

	if _, err := os.Stat(subdir); err != nil {
		t.Fatalf("directories must never be reaped: %v", err)
	}
}

func TestJanitorCycleRecoversFromPanic(t *testing.T) {
	orig := fileBirthTime
	fileBirthTime = func(info os.FileInfo) time.Time {
		panic("stat bug")
	}
	t.Cleanup(func() { fileBirthTime = orig })

	cfg := Config{
		OutputDir:    t.TempDir(),
		WorkDir:      t.TempDir(),
		RetentionAge: time.Hour,
	}
	old := writeFile(t, filepath.Join(cfg.OutputDir, "old_video.mp4"))

	// The panicking cycle must return normally instead of unwinding
	// into the caller.
	janitorCycle(cfg)

	// Later cycles keep working once the fault is gone.
	stubBirthTime(t)
	janitorCycle(cfg)
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatal("expired file should be deleted by the cycle after the panic")
	}
}

func TestStartJanitorSweepsImmediately(t *testing.T) {
	stubBirthTime(t)
	cfg := Config{
		OutputDir: t.TempDir(),
		WorkDir:   t.TempDir(),
		// Long interval: only the startup sweep can delete in time.
		CleanupInterval: time.Hour,
		RetentionAge:    time.Hour,
	}
	old := writeFile(t, filepath.Join(cfg.OutputDir, "old_video.mp4"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startJanitor(ctx, cfg)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(old); os.IsNotExist(err) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("startup sweep did not delete the expired file")
}

func TestJanitorCycleToleratesMissingDirectory(t *testing.T) {
	stubBirthTime(t)
	cfg := Config{
		OutputDir:    filepath.Join(t.TempDir(), "does-not-exist"),
		WorkDir:      t.TempDir(),
		RetentionAge: time.Hour,
	}
	old := writeFile(t, filepath.Join(cfg.WorkDir, "old_audio.m4a"))

	// Must not panic and must still process the directory that exists.
	janitorCycle(cfg)

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatal("expired file in the surviving directory should be deleted")
	}
}
