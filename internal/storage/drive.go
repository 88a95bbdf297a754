package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const mimeTypeFolder = "application/vnd.google-apps.folder"

// folderIDPattern matches the folder id segment of a Drive folder URL.
var folderIDPattern = regexp.MustCompile(`/folders/([a-zA-Z0-9_-]+)`)

// DriveProvider reads documents from a shared Google Drive folder.
type DriveProvider struct {
	svc *drive.Service
}

// NewDriveProvider builds a Drive client from a service account JSON
// credentials file.
func NewDriveProvider(ctx context.Context, credentialsPath string) (*DriveProvider, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("reading drive credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing drive credentials: %w", err)
	}
	svc, err := drive.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}
	return &DriveProvider{svc: svc}, nil
}

func (p *DriveProvider) Name() string { return "google_drive" }

// FolderID extracts the folder id from a Drive folder URL. A bare id is
// accepted as-is.
func FolderID(source string) (string, error) {
	if m := folderIDPattern.FindStringSubmatch(source); m != nil {
		return m[1], nil
	}
	if i := strings.Index(source, "id="); i >= 0 {
		id := source[i+3:]
		if j := strings.IndexAny(id, "&#"); j >= 0 {
			id = id[:j]
		}
		if id != "" {
			return id, nil
		}
	}
	if !strings.Contains(source, "/") && source != "" {
		return source, nil
	}
	return "", fmt.Errorf("no folder id in %q: %w", source, ErrSourceNotFound)
}

// Validate confirms the source URL names a reachable Drive folder.
func (p *DriveProvider) Validate(ctx context.Context, source string) error {
	folderID, err := FolderID(source)
	if err != nil {
		return err
	}
	f, err := p.svc.Files.Get(folderID).Fields("id, mimeType").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("checking folder %s: %w", folderID, ErrSourceNotFound)
	}
	if f.MimeType != mimeTypeFolder {
		return fmt.Errorf("%s is not a folder: %w", folderID, ErrSourceNotFound)
	}
	return nil
}

// List returns the non-trashed files directly inside the source folder.
func (p *DriveProvider) List(ctx context.Context, source string) ([]FileInfo, error) {
	folderID, err := FolderID(source)
	if err != nil {
		return nil, err
	}

	var files []FileInfo
	query := fmt.Sprintf("'%s' in parents and trashed = false", folderID)
	pageToken := ""
	for {
		call := p.svc.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name, mimeType, size, fileExtension)").
			PageSize(100).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		page, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("listing folder %s: %w", folderID, err)
		}
		for _, f := range page.Files {
			if f.MimeType == mimeTypeFolder {
				continue
			}
			ext := f.FileExtension
			if ext == "" {
				ext = strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Name)), ".")
			}
			files = append(files, FileInfo{
				ID:        f.Id,
				Name:      f.Name,
				Size:      f.Size,
				Extension: strings.ToLower(ext),
			})
		}
		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return files, nil
}

// Download fetches one file into destDir. Extension and size are checked
// against the Drive metadata before any bytes are transferred.
func (p *DriveProvider) Download(ctx context.Context, source string, file FileInfo, destDir string, opts DownloadOptions) (string, error) {
	if err := validateFile(file, opts); err != nil {
		return "", fmt.Errorf("%s: %w", file.Name, err)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", destDir, err)
	}

	start := time.Now()
	dctx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	resp, err := p.svc.Files.Get(file.ID).Context(dctx).Download()
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", file.Name, err)
	}
	defer resp.Body.Close()

	dest := filepath.Join(destDir, file.Name)
	if _, err := writeStream(dest, resp.Body, start, opts); err != nil {
		return "", err
	}
	return dest, nil
}
