package workdir

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// Dir is the single temporary directory holding uploads and encode outputs.
// Every generated name embeds the owning job's token, so jobs never collide.
type Dir struct {
	root string
}

func Open(root string) (*Dir, error) {
	if root == "" {
		return nil, errors.New("workdir path is empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workdir: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("create workdir: %w", err)
	}
	return &Dir{root: abs}, nil
}

func (d *Dir) Root() string {
	return d.root
}

// UploadPath keeps the original extension when it looks like a real one.
func (d *Dir) UploadPath(token, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !extPattern.MatchString(ext) {
		ext = ""
	}
	return filepath.Join(d.root, token+"_upload"+ext)
}

func (d *Dir) AttemptPath(token string, index int) string {
	return filepath.Join(d.root, fmt.Sprintf("%s_try%d.mp4", token, index))
}

// Save copies an upload stream into the job's upload path.
func (d *Dir) Save(token, originalName string, r io.Reader) (string, int64, error) {
	path := d.UploadPath(token, originalName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return "", 0, fmt.Errorf("create upload file: %w", err)
	}

	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("write upload file: %w", err)
	}
	return path, n, nil
}

// Remove deletes paths, ignoring ones that are already gone. The first other
// failure is returned after every path has been tried.
func (d *Dir) Remove(paths ...string) error {
	var firstErr error
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Sweep removes regular files whose modification time is older than maxAge.
func (d *Dir) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return 0, fmt.Errorf("read workdir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(d.root, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}
