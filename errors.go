package main

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidURL indicates the submitted string is not a recognized
// bilibili video link. No network call has been made.
var ErrInvalidURL = errors.New("invalid bilibili video link")

// ResolutionError indicates the provider could not read the video page
// metadata (network failure, removed or private video).
type ResolutionError struct {
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("metadata resolution failed: %v", e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// NoStreamError indicates metadata was read but no usable single-medium
// track of the given kind ("video" or "audio") exists.
type NoStreamError struct {
	Kind string
}

func (e *NoStreamError) Error() string {
	return fmt.Sprintf("no usable %s-only stream available", e.Kind)
}

// DownloadError indicates a selected stream could not be fetched.
type DownloadError struct {
	Track string // "video" or "audio"
	Err   error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("%s stream download failed: %v", e.Track, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// MergeError indicates the merge step failed, either because a required
// input file is missing or because the external tool exited non-zero.
// Detail carries the tool's diagnostic text for server-side logs only.
type MergeError struct {
	Detail string
	Err    error
}

func (e *MergeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("merge failed: %s", e.Detail)
	}
	return fmt.Sprintf("merge failed: %v", e.Err)
}

func (e *MergeError) Unwrap() error { return e.Err }

// userMessage maps a pipeline error to the short message shown to the
// caller. Raw diagnostics stay in server logs.
func userMessage(err error) string {
	var noStream *NoStreamError
	switch {
	case errors.Is(err, ErrInvalidURL):
		return "invalid bilibili video link (standard and b23.tv links are supported)"
	case errors.As(err, new(*ResolutionError)):
		return "could not read the video page, please try another video"
	case errors.As(err, &noStream):
		return fmt.Sprintf("no usable %s track found for this video", noStream.Kind)
	case errors.As(err, new(*DownloadError)):
		return "failed to fetch the selected stream, please resubmit"
	case errors.As(err, new(*MergeError)):
		return "failed to merge audio and video"
	default:
		return "video processing failed"
	}
}

// httpStatus picks the response code for a pipeline error.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidURL):
		return http.StatusBadRequest
	case errors.As(err, new(*NoStreamError)):
		return http.StatusUnprocessableEntity
	case errors.As(err, new(*ResolutionError)), errors.As(err, new(*DownloadError)):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
