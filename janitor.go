package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"
)

// startJanitor launches the background file reaper. It runs for the
// process lifetime on a fixed interval, independent of any job.
func startJanitor(ctx context.Context, cfg Config) {
	go func() {
		// Sweep once at startup so files that expired while the process
		// was down do not linger for a whole extra interval.
		janitorCycle(cfg)

		ticker := time.NewTicker(cfg.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				janitorCycle(cfg)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// janitorCycle deletes regular files older than the retention threshold
// from the work and output directories. Every per-directory and per-file
// error is logged and skipped; a panic in one cycle must not stop later
// cycles.
//
// Known trade-off: a cycle can delete a temp file an in-flight job still
// needs. The retention window is far larger than a typical job's
// runtime, so the race is accepted rather than locked around.
func janitorCycle(cfg Config) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[janitor] cycle panic recovered: %v", r)
		}
	}()

	now := time.Now()
	for _, dir := range []string{cfg.OutputDir, cfg.WorkDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Printf("[janitor] read %s: %v", dir, err)
			}
			continue
		}
		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				log.Printf("[janitor] stat %s: %v", entry.Name(), err)
				continue
			}
			if now.Sub(fileBirthTime(info)) <= cfg.RetentionAge {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if err := os.Remove(path); err != nil {
				log.Printf("[janitor] remove %s: %v", path, err)
				continue
			}
			log.Printf("[janitor] deleted expired file %s", path)
		}
	}
}
