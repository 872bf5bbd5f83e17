package main

import (
	"context"
	"log"
	"net/http"
	"os"
)

func main() {
	cfg := loadConfig()

	for _, dir := range []string{cfg.OutputDir, cfg.WorkDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("create directory %s: %v", dir, err)
		}
	}

	jobs := newJobStore(cfg)
	history, err := newHistoryStore(cfg.HistoryPath)
	if err != nil {
		log.Fatalf("open history store: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := history.EnsureSchema(ctx); err != nil {
		log.Fatalf("history schema: %v", err)
	}

	setupGracefulShutdown(cancel, history)
	startJanitor(ctx, cfg)
	log.Printf("janitor started: every %s, deleting files older than %s", cfg.CleanupInterval, cfg.RetentionAge)

	srv := newServer(cfg, newPipeline(cfg), jobs, history)
	log.Printf("🚀 bilidown listening on %s", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, srv.routes()))
}
