package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

const copyBufSize = 32 * 1024

// writeStream copies r to dest in fixed-size chunks, checking elapsed
// time between chunks. The deadline on the request context alone is not
// enough: a reader that keeps trickling bytes resets socket timeouts,
// so the loop enforces the wall-clock limit itself. On any failure the
// partial file is deleted.
func writeStream(dest string, r io.Reader, start time.Time, opts DownloadOptions) (int64, error) {
	f, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", dest, err)
	}

	var written int64
	buf := make([]byte, copyBufSize)
	for {
		if opts.Timeout > 0 && time.Since(start) > opts.Timeout {
			f.Close()
			os.Remove(dest)
			return written, fmt.Errorf("copying to %s after %s: %w", dest, opts.Timeout, ErrDownloadTimeout)
		}

		n, rerr := r.Read(buf)
		if n > 0 {
			written += int64(n)
			if opts.MaxSize > 0 && written > opts.MaxSize {
				f.Close()
				os.Remove(dest)
				return written, fmt.Errorf("copying to %s: %w", dest, ErrFileTooLarge)
			}
			if _, werr := f.Write(buf[:n]); werr != nil {
				f.Close()
				os.Remove(dest)
				return written, fmt.Errorf("writing %s: %w", dest, werr)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			f.Close()
			os.Remove(dest)
			if errors.Is(rerr, context.DeadlineExceeded) {
				return written, fmt.Errorf("reading into %s: %w", dest, ErrDownloadTimeout)
			}
			return written, fmt.Errorf("reading into %s: %w", dest, rerr)
		}
	}

	if err := f.Close(); err != nil {
		os.Remove(dest)
		return written, fmt.Errorf("closing %s: %w", dest, err)
	}
	return written, nil
}
