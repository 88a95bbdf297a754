package storage

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Sentinel errors callers map to stable error codes.
var (
	ErrSourceNotFound   = errors.New("source not found or unreachable")
	ErrInvalidExtension = errors.New("file extension not allowed")
	ErrFileTooLarge     = errors.New("file exceeds size limit")
	ErrDownloadTimeout  = errors.New("download timed out")
)

// FileInfo describes a remote document before download.
type FileInfo struct {
	ID        string
	Name      string
	Size      int64
	Extension string
}

// DownloadOptions bound a single file transfer.
type DownloadOptions struct {
	// Timeout is the hard per-file limit. Enforced both through the
	// request context and inside the copy loop, so a stalled stream
	// cannot outlive it.
	Timeout time.Duration
	// MaxSize in bytes; 0 means unlimited.
	MaxSize int64
	// Extensions allowed, lowercase without the dot. Empty allows all.
	Extensions []string
}

// Provider lists and downloads documents from a folder-like source.
type Provider interface {
	Name() string
	// Validate checks that the source exists and is reachable. Called
	// before a job is accepted.
	Validate(ctx context.Context, source string) error
	List(ctx context.Context, source string) ([]FileInfo, error)
	// Download fetches one file into destDir and returns the local path.
	// Any partially written file is removed on failure.
	Download(ctx context.Context, source string, file FileInfo, destDir string, opts DownloadOptions) (string, error)
}

// ProviderFor selects the provider that handles the given source URL.
// Google Drive folder URLs go to the drive provider when one is
// configured; everything else is treated as a local directory path.
func ProviderFor(source string, drive, local Provider) (Provider, error) {
	if strings.Contains(source, "drive.google.com") {
		if drive == nil {
			return nil, errors.New("google drive source given but no drive credentials configured")
		}
		return drive, nil
	}
	return local, nil
}

// extensionAllowed reports whether ext (lowercase, no dot) is in allowed.
// An empty allow-list accepts everything.
func extensionAllowed(ext string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(a, ext) {
			return true
		}
	}
	return false
}

// validateFile applies the pre-transfer checks from metadata alone, so
// disallowed or oversized files never consume bandwidth.
func validateFile(file FileInfo, opts DownloadOptions) error {
	if !extensionAllowed(file.Extension, opts.Extensions) {
		return ErrInvalidExtension
	}
	if opts.MaxSize > 0 && file.Size > opts.MaxSize {
		return ErrFileTooLarge
	}
	return nil
}
