package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
)

// Browser-like request identity; bare requests get blocked by the CDN.
const (
	thumbnailUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"
	thumbnailReferer   = "https://www.bilibili.com/"
)

// downloadThumbnail fetches the preview image and stores it as
// <prefix>_thumb.jpg in the output directory. Best-effort: any failure
// is logged and reported as an empty filename, never as a job failure.
func downloadThumbnail(ctx context.Context, cfg Config, thumbnailURL, prefix string) string {
	ctx, cancel := context.WithTimeout(ctx, cfg.ThumbnailTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, thumbnailURL, nil)
	if err != nil {
		log.Printf("[thumbnail] bad url %q: %v", thumbnailURL, err)
		return ""
	}
	req.Header.Set("User-Agent", thumbnailUserAgent)
	req.Header.Set("Referer", thumbnailReferer)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("[thumbnail] fetch failed: %v", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[thumbnail] unexpected status %d for %s", resp.StatusCode, thumbnailURL)
		return ""
	}

	filename := fmt.Sprintf("%s_thumb.jpg", prefix)
	path := filepath.Join(cfg.OutputDir, filename)
	out, err := os.Create(path)
	if err != nil {
		log.Printf("[thumbnail] create %s: %v", path, err)
		return ""
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		log.Printf("[thumbnail] write %s: %v", path, err)
		os.Remove(path)
		return ""
	}
	return filename
}
