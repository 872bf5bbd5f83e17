package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Centralized configuration defaults
const (
	DefaultListenAddr = ":8080"
	DefaultOutputDir  = "downloads"
	DefaultWorkDir    = "temp"

	// File retention
	DefaultRetentionAge    = 1 * time.Hour
	DefaultCleanupInterval = 30 * time.Minute

	// Stream selection
	PreferredVideoHeight = 1080
	DefaultPreferredASR  = 48000

	// Merge output
	DefaultAudioBitrate = "192k"

	// Thumbnail fetch
	DefaultThumbnailTimeout = 10 * time.Second

	// Rate limiting
	DefaultRequestsPerSecond = 100
	DefaultBurstSize         = 200

	// Redis configuration
	DefaultRedisAddr     = "localhost:6379"
	DefaultRedisPassword = ""
	DefaultRedisDB       = 0

	// Job record expiration
	DefaultJobTTL = 24 * time.Hour

	// Download history database
	DefaultHistoryPath = "history.db"
)

// Config holds all process-wide settings. It is built once at startup
// and passed by value; nothing mutates it afterwards.
type Config struct {
	ListenAddr string
	OutputDir  string // final merged videos and thumbnails
	WorkDir    string // transient per-job stream fragments

	RetentionAge    time.Duration
	CleanupInterval time.Duration

	PreferredASR int
	AudioBitrate string

	ThumbnailTimeout time.Duration

	RequestsPerSecond float64
	BurstSize         int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	JobTTL        time.Duration

	HistoryPath string
}

// loadConfig builds the configuration from defaults and environment
// overrides. A .env file is honored when present.
func loadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment and defaults")
	}

	return Config{
		ListenAddr:        envString("LISTEN_ADDR", DefaultListenAddr),
		OutputDir:         envString("OUTPUT_DIR", DefaultOutputDir),
		WorkDir:           envString("WORK_DIR", DefaultWorkDir),
		RetentionAge:      envDuration("FILE_RETENTION", DefaultRetentionAge),
		CleanupInterval:   envDuration("CLEANUP_INTERVAL", DefaultCleanupInterval),
		PreferredASR:      envInt("PREFERRED_ASR", DefaultPreferredASR),
		AudioBitrate:      envString("AUDIO_BITRATE", DefaultAudioBitrate),
		ThumbnailTimeout:  envDuration("THUMBNAIL_TIMEOUT", DefaultThumbnailTimeout),
		RequestsPerSecond: float64(envInt("REQUESTS_PER_SECOND", DefaultRequestsPerSecond)),
		BurstSize:         envInt("BURST_SIZE", DefaultBurstSize),
		RedisAddr:         envString("REDIS_ADDR", DefaultRedisAddr),
		RedisPassword:     envString("REDIS_PASSWORD", DefaultRedisPassword),
		RedisDB:           envInt("REDIS_DB", DefaultRedisDB),
		JobTTL:            envDuration("JOB_TTL", DefaultJobTTL),
		HistoryPath:       envString("HISTORY_DB", DefaultHistoryPath),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
