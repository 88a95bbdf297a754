package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// LocalProvider serves documents from a directory on disk. Used for
// offline development and by tests; it applies the same validation and
// timeout rules as the remote providers.
type LocalProvider struct {
	// Pattern filters listed files, doublestar syntax. Defaults to "**/*".
	Pattern string
}

// NewLocalProvider returns a provider over local directories.
func NewLocalProvider() *LocalProvider {
	return &LocalProvider{Pattern: "**/*"}
}

func (p *LocalProvider) Name() string { return "local_directory" }

// sourceDir normalizes a source value to a directory path.
func sourceDir(source string) string {
	return strings.TrimPrefix(source, "file://")
}

// Validate confirms the source is an existing directory.
func (p *LocalProvider) Validate(ctx context.Context, source string) error {
	dir := sourceDir(source)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("checking %s: %w", dir, ErrSourceNotFound)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory: %w", dir, ErrSourceNotFound)
	}
	return nil
}

// List returns the files under the source directory matching the pattern.
func (p *LocalProvider) List(ctx context.Context, source string) ([]FileInfo, error) {
	dir := sourceDir(source)
	fsys := os.DirFS(dir)

	pattern := p.Pattern
	if pattern == "" {
		pattern = "**/*"
	}
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", dir, err)
	}

	var files []FileInfo
	for _, m := range matches {
		info, err := fs.Stat(fsys, m)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, FileInfo{
			ID:        m,
			Name:      filepath.Base(m),
			Size:      info.Size(),
			Extension: strings.TrimPrefix(strings.ToLower(filepath.Ext(m)), "."),
		})
	}
	return files, nil
}

// Download copies one file into destDir under the same rules as a remote
// transfer: metadata validation first, then a chunked copy with the
// per-file timeout enforced in the loop.
func (p *LocalProvider) Download(ctx context.Context, source string, file FileInfo, destDir string, opts DownloadOptions) (string, error) {
	if err := validateFile(file, opts); err != nil {
		return "", fmt.Errorf("%s: %w", file.Name, err)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", destDir, err)
	}

	src := filepath.Join(sourceDir(source), file.ID)
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	dest := filepath.Join(destDir, file.Name)
	if _, err := writeStream(dest, in, time.Now(), opts); err != nil {
		return "", err
	}
	return dest, nil
}
