package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type server struct {
	cfg       Config
	pipeline  *Pipeline
	jobs      *JobStore
	history   *HistoryStore
	limiter   *rate.Limiter
	startedAt time.Time

	activeJobs    int64
	completedJobs int64
	failedJobs    int64
}

func newServer(cfg Config, pipeline *Pipeline, jobs *JobStore, history *HistoryStore) *server {
	return &server{
		cfg:       cfg,
		pipeline:  pipeline,
		jobs:      jobs,
		history:   history,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		startedAt: time.Now(),
	}
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/download", s.rateLimit(s.handleSubmit))
	mux.HandleFunc("/download/", s.handleDownload)
	mux.HandleFunc("/thumbnail/", s.handleThumbnail)
	mux.HandleFunc("/jobs/", s.handleJob)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

type submitRequest struct {
	URL string `json:"url"`
}

// handleSubmit runs one download job synchronously in the request
// goroutine and reports the outcome.
func (s *server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	enableCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	videoURL := ""
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		videoURL = req.URL
	} else {
		videoURL = r.FormValue("video_url")
	}
	videoURL = strings.TrimSpace(videoURL)

	job := &DownloadJob{
		ID:        uuid.New().String(),
		URL:       videoURL,
		CreatedAt: time.Now(),
	}

	atomic.AddInt64(&s.activeJobs, 1)
	// Jobs run to completion once started; a dropped client connection
	// does not cancel the download or merge.
	result, err := s.pipeline.Run(context.Background(), job.ID, videoURL)
	atomic.AddInt64(&s.activeJobs, -1)

	job.CompletedAt = time.Now()
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		atomic.AddInt64(&s.failedJobs, 1)
		job.Status = StatusFailed
		job.Error = userMessage(err)
		s.jobs.Save(context.Background(), job)
		log.Printf("[job %s] failed: %v", job.ID, err)

		w.WriteHeader(httpStatus(err))
		json.NewEncoder(w).Encode(map[string]string{
			"job_id": job.ID,
			"error":  job.Error,
		})
		return
	}

	atomic.AddInt64(&s.completedJobs, 1)
	job.Status = StatusCompleted
	job.Result = result
	// Persist with a fresh context: the job is done, and a client that
	// hung up mid-merge must not void the record.
	s.jobs.Save(context.Background(), job)
	if err := s.history.Record(context.Background(), job); err != nil {
		log.Printf("[job %s] history record: %v", job.ID, err)
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"job_id":       job.ID,
		"filename":     result.Filename,
		"title":        result.Title,
		"duration":     result.Duration,
		"uploader":     result.Uploader,
		"thumbnail":    result.Thumbnail,
		"download_url": "/download/" + result.Filename,
	})
}

// handleDownload streams a merged video file as an attachment.
func (s *server) handleDownload(w http.ResponseWriter, r *http.Request) {
	enableCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	filename := filepath.Base(r.URL.Path)
	if filename == "." || filename == "/" || !strings.HasSuffix(filename, ".mp4") {
		http.Error(w, "Missing or invalid filename", http.StatusBadRequest)
		return
	}

	file, err := os.Open(filepath.Join(s.cfg.OutputDir, filename))
	if err != nil {
		http.Error(w, fmt.Sprintf("file not found or expired (files are kept for %s)", s.cfg.RetentionAge), http.StatusNotFound)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	io.Copy(w, file)
}

// handleThumbnail serves a preview image, or an empty 204 when the job
// had no thumbnail or it has already been reaped.
func (s *server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	enableCORS(w)

	filename := filepath.Base(r.URL.Path)
	if filename == "." || filename == "/" || !strings.HasSuffix(filename, "_thumb.jpg") {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	file, err := os.Open(filepath.Join(s.cfg.OutputDir, filename))
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	io.Copy(w, file)
}

func (s *server) handleJob(w http.ResponseWriter, r *http.Request) {
	enableCORS(w)

	jobID := filepath.Base(r.URL.Path)
	job, ok := s.jobs.Get(r.Context(), jobID)
	if !ok {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

func (s *server) handleHistory(w http.ResponseWriter, r *http.Request) {
	enableCORS(w)

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 100 {
		limit = 100
	}

	entries, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		log.Printf("[history] query: %v", err)
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []HistoryEntry{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	enableCORS(w)

	health := HealthStatus{
		Status:        "healthy",
		ActiveJobs:    atomic.LoadInt64(&s.activeJobs),
		CompletedJobs: atomic.LoadInt64(&s.completedJobs),
		FailedJobs:    atomic.LoadInt64(&s.failedJobs),
		Uptime:        time.Since(s.startedAt).String(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
