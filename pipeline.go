package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Pipeline runs the end-to-end workflow for one submitted URL:
// validate, resolve metadata, select streams, download both tracks,
// merge, clean up. Each call is one independent job; nothing is shared
// between concurrent runs except the two directories.
type Pipeline struct {
	cfg      Config
	resolver StreamResolver
	fetcher  StreamFetcher
	merger   Merger
}

func newPipeline(cfg Config) *Pipeline {
	ytdlp := newYtdlpClient("")
	return &Pipeline{
		cfg:      cfg,
		resolver: ytdlp,
		fetcher:  ytdlp,
		merger:   newFFmpegMerger("", cfg.AudioBitrate),
	}
}

// Run executes one job. There are no retries: any stage failure is
// terminal and surfaces as a typed error for the caller to report.
func (p *Pipeline) Run(ctx context.Context, jobID, rawURL string) (*JobResult, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" || !isValidBilibiliURL(rawURL) {
		return nil, ErrInvalidURL
	}

	info, err := p.resolver.Resolve(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Format("20060102150405")
	title := sanitizeFilename(info.Title)
	if title == "" {
		title = "video_" + timestamp
	}
	prefix := title + "_" + timestamp
	log.Printf("[job %s] resolved %q (%d formats)", jobID, info.Title, len(info.Formats))

	thumbnail := ""
	if info.Thumbnail != "" {
		thumbnail = downloadThumbnail(ctx, p.cfg, info.Thumbnail, prefix)
	}

	video, err := selectVideoFormat(info.Formats)
	if err != nil {
		return nil, err
	}
	audio, err := selectAudioFormat(info.Formats, p.cfg.PreferredASR)
	if err != nil {
		return nil, err
	}
	log.Printf("[job %s] selected video %s (%dp) audio %s (%d Hz)", jobID, video.FormatID, video.Height, audio.FormatID, audio.ASR)

	// The job ID keeps temp paths unique even when two jobs for the same
	// title land within the same second.
	tempVideo := filepath.Join(p.cfg.WorkDir, fmt.Sprintf("%s_%s_video.%s", prefix, jobID, video.Ext))
	tempAudio := filepath.Join(p.cfg.WorkDir, fmt.Sprintf("%s_%s_audio.%s", prefix, jobID, audio.Ext))
	finalName := prefix + ".mp4"

	if err := p.fetcher.Fetch(ctx, rawURL, video, tempVideo); err != nil {
		return nil, &DownloadError{Track: "video", Err: err}
	}
	if err := p.fetcher.Fetch(ctx, rawURL, audio, tempAudio); err != nil {
		return nil, &DownloadError{Track: "audio", Err: err}
	}

	// Merge into the work dir first so a failed or half-written merge is
	// never visible under the final name; only a finished file is moved
	// into the output directory.
	mergePath := filepath.Join(p.cfg.WorkDir, fmt.Sprintf("%s_%s_merged.mp4", prefix, jobID))
	if err := p.merger.Merge(ctx, tempVideo, tempAudio, mergePath); err != nil {
		var mergeErr *MergeError
		if errors.As(err, &mergeErr) {
			log.Printf("[job %s] ffmpeg: %s", jobID, mergeErr.Detail)
			return nil, err
		}
		return nil, &MergeError{Err: err}
	}
	finalPath := filepath.Join(p.cfg.OutputDir, finalName)
	if err := os.Rename(mergePath, finalPath); err != nil {
		return nil, &MergeError{Detail: "could not move merged file into output directory", Err: err}
	}

	for _, tmp := range []string{tempVideo, tempAudio} {
		if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
			// Cleanup failure never fails an already merged job; the
			// janitor will reap leftovers.
			log.Printf("[job %s] cleanup warning: %v", jobID, err)
		}
	}

	log.Printf("[job %s] done: %s", jobID, finalName)
	return &JobResult{
		Filename:  finalName,
		Title:     title,
		Duration:  info.Duration,
		Uploader:  info.Uploader,
		Thumbnail: thumbnail,
	}, nil
}
