package main

import "time"

// StreamFormat describes one downloadable track variant as reported by
// the extraction provider. The pipeline only filters and ranks these;
// it never modifies them.
type StreamFormat struct {
	FormatID string `json:"format_id"`
	VCodec   string `json:"vcodec"`
	ACodec   string `json:"acodec"`
	Ext      string `json:"ext"`
	Height   int    `json:"height"`
	ASR      int    `json:"asr"`
}

func (f StreamFormat) hasVideo() bool {
	return f.VCodec != "" && f.VCodec != "none"
}

func (f StreamFormat) hasAudio() bool {
	return f.ACodec != "" && f.ACodec != "none"
}

func (f StreamFormat) isVideoOnly() bool {
	return f.hasVideo() && !f.hasAudio()
}

func (f StreamFormat) isAudioOnly() bool {
	return f.hasAudio() && !f.hasVideo()
}

// VideoInfo is the metadata for one source URL, resolved without
// downloading any media bytes.
type VideoInfo struct {
	Title     string
	Uploader  string
	Duration  int // seconds, 0 if unknown
	Thumbnail string
	Formats   []StreamFormat
}

// JobResult is the success payload for one finished download job.
type JobResult struct {
	Filename  string `json:"filename"`
	Title     string `json:"title"`
	Duration  int    `json:"duration"`
	Uploader  string `json:"uploader"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

type JobStatus string

const (
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// DownloadJob is the record kept for one submitted URL. Jobs run
// synchronously inside their request, so only terminal states are stored.
type DownloadJob struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt time.Time  `json:"completed_at"`
	Error       string     `json:"error,omitempty"`
	Result      *JobResult `json:"result,omitempty"`
}

type HealthStatus struct {
	Status        string `json:"status"`
	ActiveJobs    int64  `json:"active_jobs"`
	CompletedJobs int64  `json:"completed_jobs"`
	FailedJobs    int64  `json:"failed_jobs"`
	Uptime        string `json:"uptime"`
}
