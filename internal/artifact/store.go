// Package artifact keeps generated template files on disk under the
// configured temp directory until they are downloaded or swept.
package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound is returned when a task has no stored artifact in the
// requested format.
var ErrNotFound = errors.New("artifact: not found")

// Store manages template files keyed by task id and format.
type Store struct {
	dir string
}

// NewStore ensures dir exists and returns a store rooted there.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("artifact: create dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(taskID, format string) string {
	return filepath.Join(s.dir, fmt.Sprintf("revise_template_%s.%s", taskID, format))
}

// Save writes the artifact for a task, replacing any previous one of
// the same format.
func (s *Store) Save(taskID, format string, data []byte) error {
	return os.WriteFile(s.path(taskID, format), data, 0644)
}

// Open returns a reader over the stored artifact. The caller closes it.
func (s *Store) Open(taskID, format string) (*os.File, error) {
	f, err := os.Open(s.path(taskID, format))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

// Exists reports whether an artifact is stored for the task and format.
func (s *Store) Exists(taskID, format string) bool {
	_, err := os.Stat(s.path(taskID, format))
	return err == nil
}

// Remove deletes the artifact if present.
func (s *Store) Remove(taskID, format string) error {
	err := os.Remove(s.path(taskID, format))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// DownloadName is the filename offered to the browser on download.
func DownloadName(taskID, format string) string {
	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("ebay_revise_template_%s_%s.%s", taskID, timestamp, format)
}

// SweepOlderThan removes artifacts whose modification time is older
// than maxAge and returns how many were deleted.
func (s *Store) SweepOlderThan(maxAge time.Duration) int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		log.Printf("Artifact sweep failed to read %s: %v", s.dir, err)
		return 0
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "revise_template_") {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			log.Printf("Artifact sweep failed to remove %s: %v", entry.Name(), err)
			continue
		}
		removed++
	}
	return removed
}
