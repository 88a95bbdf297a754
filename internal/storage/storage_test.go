package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLocalProviderValidate(t *testing.T) {
	p := NewLocalProvider()
	dir := t.TempDir()

	if err := p.Validate(context.Background(), dir); err != nil {
		t.Errorf("Validate(%s) = %v, want nil", dir, err)
	}
	if err := p.Validate(context.Background(), "file://"+dir); err != nil {
		t.Errorf("Validate(file://%s) = %v, want nil", dir, err)
	}

	err := p.Validate(context.Background(), filepath.Join(dir, "missing"))
	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("Validate(missing) = %v, want ErrSourceNotFound", err)
	}

	writeTestFile(t, dir, "plain.txt", "x")
	err = p.Validate(context.Background(), filepath.Join(dir, "plain.txt"))
	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("Validate(file) = %v, want ErrSourceNotFound", err)
	}
}

func TestLocalProviderList(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "alpha")
	writeTestFile(t, dir, "b.md", "# beta")
	writeTestFile(t, dir, "sub/c.txt", "gamma")

	p := NewLocalProvider()
	files, err := p.List(context.Background(), dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("List returned %d files, want 3", len(files))
	}

	byName := map[string]FileInfo{}
	for _, f := range files {
		byName[f.Name] = f
	}
	if f, ok := byName["a.txt"]; !ok || f.Extension != "txt" || f.Size != 5 {
		t.Errorf("a.txt = %+v", f)
	}
	if f, ok := byName["c.txt"]; !ok || f.ID != "sub/c.txt" {
		t.Errorf("c.txt = %+v, want ID sub/c.txt", f)
	}
}

func TestLocalProviderDownload(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	writeTestFile(t, src, "doc.txt", "hello world")

	p := NewLocalProvider()
	files, err := p.List(context.Background(), src)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	path, err := p.Download(context.Background(), src, files[0], dest, DownloadOptions{
		Timeout:    5 * time.Second,
		Extensions: []string{"txt"},
	})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(data) != "hello world" {
		t.Errorf("content = %q, want %q", data, "hello world")
	}
}

func TestDownloadRejectsExtension(t *testing.T) {
	src := t.TempDir()
	writeTestFile(t, src, "binary.exe", "MZ")

	p := NewLocalProvider()
	files, _ := p.List(context.Background(), src)

	_, err := p.Download(context.Background(), src, files[0], t.TempDir(), DownloadOptions{
		Extensions: []string{"pdf", "txt"},
	})
	if !errors.Is(err, ErrInvalidExtension) {
		t.Errorf("Download = %v, want ErrInvalidExtension", err)
	}
}

func TestDownloadRejectsOversize(t *testing.T) {
	src := t.TempDir()
	writeTestFile(t, src, "big.txt", strings.Repeat("x", 1024))

	p := NewLocalProvider()
	files, _ := p.List(context.Background(), src)

	dest := t.TempDir()
	_, err := p.Download(context.Background(), src, files[0], dest, DownloadOptions{
		MaxSize: 512,
	})
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("Download = %v, want ErrFileTooLarge", err)
	}
	// No partial file left behind.
	if _, err := os.Stat(filepath.Join(dest, "big.txt")); !os.IsNotExist(err) {
		t.Error("partial file not cleaned up after size failure")
	}
}

// slowReader delays every read so the copy loop's elapsed check fires.
type slowReader struct {
	delay time.Duration
}

func (r *slowReader) Read(p []byte) (int, error) {
	time.Sleep(r.delay)
	if len(p) > 0 {
		p[0] = 'x'
	}
	return 1, nil
}

func TestWriteStreamTimeout(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "slow.txt")
	_, err := writeStream(dest, &slowReader{delay: 20 * time.Millisecond}, time.Now(), DownloadOptions{
		Timeout: 50 * time.Millisecond,
	})
	if !errors.Is(err, ErrDownloadTimeout) {
		t.Fatalf("writeStream = %v, want ErrDownloadTimeout", err)
	}
	if _, serr := os.Stat(dest); !os.IsNotExist(serr) {
		t.Error("partial file not cleaned up after timeout")
	}
}

func TestWriteStreamEnforcesMaxSizeMidStream(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "grow.txt")
	// The reader never reports a size up front, so the limit has to be
	// caught during the copy.
	r := strings.NewReader(strings.Repeat("y", 4096))
	_, err := writeStream(dest, r, time.Now(), DownloadOptions{MaxSize: 100})
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("writeStream = %v, want ErrFileTooLarge", err)
	}
	if _, serr := os.Stat(dest); !os.IsNotExist(serr) {
		t.Error("partial file not cleaned up after size failure")
	}
}

func TestFolderID(t *testing.T) {
	tests := []struct {
		source  string
		want    string
		wantErr bool
	}{
		{"https://drive.google.com/drive/folders/1AbC-dEf_123", "1AbC-dEf_123", false},
		{"https://drive.google.com/drive/folders/1AbC?usp=sharing", "1AbC", false},
		{"https://drive.google.com/open?id=XYZ789", "XYZ789", false},
		{"1RawFolderID", "1RawFolderID", false},
		{"https://drive.google.com/drive/my-drive", "", true},
	}
	for _, tt := range tests {
		got, err := FolderID(tt.source)
		if tt.wantErr {
			if err == nil {
				t.Errorf("FolderID(%q) = %q, want error", tt.source, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("FolderID(%q) error: %v", tt.source, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FolderID(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}

func TestProviderFor(t *testing.T) {
	local := NewLocalProvider()

	p, err := ProviderFor("/tmp/docs", nil, local)
	if err != nil || p != Provider(local) {
		t.Errorf("ProviderFor(local path) = %v, %v", p, err)
	}

	if _, err := ProviderFor("https://drive.google.com/drive/folders/abc", nil, local); err == nil {
		t.Error("expected error for drive source without drive provider")
	}
}

func TestExtensionAllowed(t *testing.T) {
	if !extensionAllowed("txt", nil) {
		t.Error("empty allow-list should accept everything")
	}
	if !extensionAllowed("PDF", []string{"pdf"}) {
		t.Error("extension match should be case-insensitive")
	}
	if extensionAllowed("exe", []string{"pdf", "txt"}) {
		t.Error("exe should be rejected")
	}
}
