package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// fakeTool writes a shell script that records each invocation to a
// marker file and exits with the given status.
func fakeTool(t *testing.T, exitCode int, stderr string) (binary, marker string) {
	t.Helper()
	dir := t.TempDir()
	marker = filepath.Join(dir, "invoked")
	script := "#!/bin/sh\ntouch " + marker + "\n"
	if stderr != "" {
		script += "echo " + stderr + " >&2\n"
	}
	script += "exit " + strconv.Itoa(exitCode) + "\n"
	binary = filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(binary, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return binary, marker
}

func writeFile(t *testing.T, path string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMergeMissingVideoInputSkipsTool(t *testing.T) {
	binary, marker := fakeTool(t, 0, "")
	dir := t.TempDir()
	audio := writeFile(t, filepath.Join(dir, "audio.m4a"))

	m := newFFmpegMerger(binary, "192k")
	err := m.Merge(context.Background(), filepath.Join(dir, "missing.mp4"), audio, filepath.Join(dir, "out.mp4"))

	var mergeErr *MergeError
	if !errors.As(err, &mergeErr) {
		t.Fatalf("expected MergeError, got %v", err)
	}
	if !strings.Contains(mergeErr.Detail, "video input missing") {
		t.Fatalf("unexpected detail: %q", mergeErr.Detail)
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Fatal("external tool was invoked despite missing input")
	}
}

func TestMergeMissingAudioInputSkipsTool(t *testing.T) {
	binary, marker := fakeTool(t, 0, "")
	dir := t.TempDir()
	video := writeFile(t, filepath.Join(dir, "video.mp4"))

	m := newFFmpegMerger(binary, "192k")
	err := m.Merge(context.Background(), video, filepath.Join(dir, "missing.m4a"), filepath.Join(dir, "out.mp4"))

	var mergeErr *MergeError
	if !errors.As(err, &mergeErr) {
		t.Fatalf("expected MergeError, got %v", err)
	}
	if !strings.Contains(mergeErr.Detail, "audio input missing") {
		t.Fatalf("unexpected detail: %q", mergeErr.Detail)
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Fatal("external tool was invoked despite missing input")
	}
}

func TestMergeToolFailureCarriesStderr(t *testing.T) {
	binary, marker := fakeTool(t, 1, "boom")
	dir := t.TempDir()
	video := writeFile(t, filepath.Join(dir, "video.mp4"))
	audio := writeFile(t, filepath.Join(dir, "audio.m4a"))

	m := newFFmpegMerger(binary, "192k")
	err := m.Merge(context.Background(), video, audio, filepath.Join(dir, "out.mp4"))

	var mergeErr *MergeError
	if !errors.As(err, &mergeErr) {
		t.Fatalf("expected MergeError, got %v", err)
	}
	if !strings.Contains(mergeErr.Detail, "boom") {
		t.Fatalf("stderr not captured, detail = %q", mergeErr.Detail)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Fatal("external tool should have been invoked")
	}
}

func TestMergeToolSuccess(t *testing.T) {
	binary, marker := fakeTool(t, 0, "")
	dir := t.TempDir()
	video := writeFile(t, filepath.Join(dir, "video.mp4"))
	audio := writeFile(t, filepath.Join(dir, "audio.m4a"))

	m := newFFmpegMerger(binary, "192k")
	if err := m.Merge(context.Background(), video, audio, filepath.Join(dir, "out.mp4")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Fatal("external tool should have been invoked")
	}
}
