package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Merger combines one video file and one audio file into one output file.
type Merger interface {
	Merge(ctx context.Context, videoPath, audioPath, outputPath string) error
}

// ffmpegMerger merges via the ffmpeg command line tool: video stream
// copied as-is, audio transcoded to AAC at a fixed bitrate.
type ffmpegMerger struct {
	binary       string
	audioBitrate string
}

func newFFmpegMerger(binary, audioBitrate string) *ffmpegMerger {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &ffmpegMerger{binary: binary, audioBitrate: audioBitrate}
}

// Merge checks both inputs exist before invoking ffmpeg, so a missing
// file surfaces as a clear error instead of tool diagnostics. A non-zero
// exit becomes a MergeError carrying the captured stderr.
func (m *ffmpegMerger) Merge(ctx context.Context, videoPath, audioPath, outputPath string) error {
	if _, err := os.Stat(videoPath); err != nil {
		return &MergeError{Detail: fmt.Sprintf("video input missing: %s", videoPath), Err: err}
	}
	if _, err := os.Stat(audioPath); err != nil {
		return &MergeError{Detail: fmt.Sprintf("audio input missing: %s", audioPath), Err: err}
	}

	args := []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", m.audioBitrate,
		"-strict", "experimental",
		"-loglevel", "error",
		outputPath,
	}
	cmd := exec.CommandContext(ctx, m.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &MergeError{Detail: strings.TrimSpace(stderr.String()), Err: err}
	}
	return nil
}
