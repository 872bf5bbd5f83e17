package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// StreamResolver reads video metadata without downloading media bytes.
type StreamResolver interface {
	Resolve(ctx context.Context, url string) (*VideoInfo, error)
}

// StreamFetcher persists one selected stream to a local path.
type StreamFetcher interface {
	Fetch(ctx context.Context, url string, format StreamFormat, destPath string) error
}

const (
	metadataTimeout = 45 * time.Second
	unknownUploader = "unknown uploader"
)

// ytdlpInfo mirrors the fields we consume from `yt-dlp -J` output.
type ytdlpInfo struct {
	Title     string         `json:"title"`
	Uploader  string         `json:"uploader"`
	Duration  float64        `json:"duration"`
	Thumbnail string         `json:"thumbnail"`
	Formats   []StreamFormat `json:"formats"`
}

// ytdlpClient drives the yt-dlp binary. It implements both
// StreamResolver and StreamFetcher.
type ytdlpClient struct {
	binary string
}

// newYtdlpClient returns a client using "yt-dlp" from PATH unless an
// explicit binary path is given.
func newYtdlpClient(binary string) *ytdlpClient {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &ytdlpClient{binary: binary}
}

// Resolve runs yt-dlp in metadata-only mode and parses the JSON dump.
func (c *ytdlpClient) Resolve(ctx context.Context, url string) (*VideoInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, metadataTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.binary, "-J", "--no-warnings", "--skip-download", url)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, &ResolutionError{Err: fmt.Errorf("%v | %s", err, strings.TrimSpace(stderr.String()))}
	}

	var info ytdlpInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, &ResolutionError{Err: fmt.Errorf("metadata parse: %w", err)}
	}

	uploader := info.Uploader
	if uploader == "" {
		uploader = unknownUploader
	}
	return &VideoInfo{
		Title:     info.Title,
		Uploader:  uploader,
		Duration:  int(info.Duration),
		Thumbnail: info.Thumbnail,
		Formats:   info.Formats,
	}, nil
}

// Fetch downloads exactly the given format to destPath, overwriting any
// existing file. No timeout: downloads may legitimately take minutes.
func (c *ytdlpClient) Fetch(ctx context.Context, url string, format StreamFormat, destPath string) error {
	cmd := exec.CommandContext(ctx, c.binary,
		"--quiet",
		"--no-warnings",
		"--force-overwrites",
		"-f", format.FormatID,
		"-o", destPath,
		url,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("yt-dlp fetch format %s: %v | %s", format.FormatID, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
