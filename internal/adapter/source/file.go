package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/heartmarshall/mensa-backend/internal/domain"
)

// File is the local copy of one week's menu file together with the remote
// location it is downloaded from. Several File values may refer to the same
// path; deleting through one removes it for all.
type File struct {
	key  domain.WeekKey
	path string
	url  string
}

func (f *File) Key() domain.WeekKey { return f.key }
func (f *File) Path() string { return f.path }
func (f *File) URL() string { return f.url }

// Exists reports whether the local file is present.
func (f *File) Exists() bool {
	info, err := os.Stat(f.path)
	return err == nil && info.Mode().IsRegular()
}

// ModTime returns the last modification time of the local file.
func (f *File) ModTime() (time.Time, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", f.path, err)
	}
	return info.ModTime(), nil
}

// HasAge reports whether the local file exists and was modified strictly
// more than maxAge before now.
func (f *File) HasAge(maxAge time.Duration, now time.Time) bool {
	mod, err := f.ModTime()
	if err != nil {
		return false
	}
	return now.Sub(mod) > maxAge
}

// Delete removes the local file. It reports whether a file was removed.
func (f *File) Delete() bool {
	return os.Remove(f.path) == nil
}

// DeleteOlderThan removes the local file only if HasAge holds.
func (f *File) DeleteOlderThan(maxAge time.Duration, now time.Time) bool {
	if !f.HasAge(maxAge, now) {
		return false
	}
	return f.Delete()
}

// Download fetches the remote file into the local path. It returns false
// without error when the source has no file for the week or sends an empty
// body; the local file is left absent in both cases. The body is written to
// a temporary file first so readers never see a partial download.
func (f *File) Download(ctx context.Context, client *http.Client) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return false, fmt.Errorf("source: create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Errorf("source: request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return false, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return false, fmt.Errorf("%w %d for %s", ErrUnexpectedStatus, resp.StatusCode, f.url)
	}

	return f.store(resp.Body)
}

func (f *File) store(body io.Reader) (bool, error) {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("source: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+f.key.String()+"-*.part")
	if err != nil {
		return false, fmt.Errorf("source: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	n, copyErr := io.Copy(tmp, body)
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		return false, fmt.Errorf("source: write %s: %w", f.key, err)
	}
	if n == 0 {
		return false, nil
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		return false, fmt.Errorf("source: move into place: %w", err)
	}
	return true, nil
}

func isNotExist(err error) bool { return errors.Is(err, fs.ErrNotExist) }
