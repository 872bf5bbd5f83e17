package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// JobStore keeps terminal job records. Records go to Redis with a TTL
// when it is reachable and are always mirrored in memory, so lookups
// keep working when Redis is down or disabled.
type JobStore struct {
	ttl    time.Duration
	client *redis.Client

	mu   sync.RWMutex
	jobs map[string]*DownloadJob
}

// newJobStore connects to Redis, degrading to in-memory-only storage
// when the address is empty or the server does not respond.
func newJobStore(cfg Config) *JobStore {
	store := &JobStore{
		ttl:  cfg.JobTTL,
		jobs: make(map[string]*DownloadJob),
	}
	if cfg.RedisAddr == "" {
		return store
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Printf("⚠️  Redis not available, using in-memory storage: %v", err)
		return store
	}
	log.Println("✅ Redis connected successfully")
	store.client = client
	return store
}

// Save records a finished job. Persistence errors are logged only; the
// job's outcome is already decided.
func (s *JobStore) Save(ctx context.Context, job *DownloadJob) {
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	if s.client == nil {
		return
	}
	data, err := json.Marshal(job)
	if err != nil {
		log.Printf("[jobs] marshal %s: %v", job.ID, err)
		return
	}
	if err := s.client.Set(ctx, s.key(job.ID), data, s.ttl).Err(); err != nil {
		log.Printf("[jobs] save %s: %v", job.ID, err)
	}
}

// Get looks a job up, preferring Redis so records survive restarts.
func (s *JobStore) Get(ctx context.Context, jobID string) (*DownloadJob, bool) {
	if s.client != nil {
		val, err := s.client.Get(ctx, s.key(jobID)).Result()
		if err == nil {
			var job DownloadJob
			if err := json.Unmarshal([]byte(val), &job); err == nil {
				return &job, true
			}
		} else if err != redis.Nil {
			log.Printf("[jobs] get %s: %v", jobID, err)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	return job, ok
}

func (s *JobStore) key(jobID string) string {
	return fmt.Sprintf("job:%s", jobID)
}
