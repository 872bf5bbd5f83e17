package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
)

func setupGracefulShutdown(cancel func(), history *HistoryStore) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Println("🛑 Graceful shutdown initiated...")
		cancel()
		if err := history.Close(); err != nil {
			log.Printf("closing history store: %v", err)
		}
		log.Println("✅ Graceful shutdown completed")
		os.Exit(0)
	}()
}
