package about_writer

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/meysamhadeli/aboutwriter/about_writer/models"
	"github.com/zeebo/xxh3"
)

const ledgerExt = ".ledger"

// LedgerStats tracks ledger lookups
type LedgerStats struct {
	TotalRequests int64
	Hits          int64
	Misses        int64
	LastResetTime time.Time
	mutex         sync.RWMutex
}

// Ledger remembers which files were annotated so unchanged files can be
// skipped on later runs without reading them.
type Ledger struct {
	dir   string
	mutex sync.RWMutex
	stats *LedgerStats
}

// DefaultLedgerDir returns the per-user cache directory for the ledger.
func DefaultLedgerDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user cache directory: %w", err)
	}
	return filepath.Join(base, "aboutwriter"), nil
}

// NewLedger creates a ledger stored in dir.
// If dir is empty, it defaults to DefaultLedgerDir.
func NewLedger(dir string) (*Ledger, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultLedgerDir(); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	return &Ledger{
		dir:   dir,
		stats: &LedgerStats{LastResetTime: time.Now()},
	}, nil
}

// Dir is the directory holding the ledger entries.
func (l *Ledger) Dir() string {
	return l.dir
}

// key creates a unique entry name for a file
func (l *Ledger) key(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return fmt.Sprintf("%x%s", xxh3.HashString(path), ledgerExt)
}

func (l *Ledger) entryPath(path string) string {
	return filepath.Join(l.dir, l.key(path))
}

// Get returns the recorded entry for path.
func (l *Ledger) Get(path string) (*models.LedgerEntry, bool) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	data, err := os.ReadFile(l.entryPath(path))
	if err != nil {
		return nil, false
	}

	var entry models.LedgerEntry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entry); err != nil {
		return nil, false
	}
	return &entry, true
}

// IsAnnotated reports whether path was annotated and has not changed since,
// judged by modification time and size.
func (l *Ledger) IsAnnotated(path string, info fs.FileInfo) bool {
	entry, ok := l.Get(path)
	if !ok || !info.ModTime().Equal(entry.ModTime) || info.Size() != entry.Size {
		l.recordMiss()
		return false
	}
	l.recordHit()
	return true
}

// HasContent reports whether content hashes to the recorded annotated
// content, which catches files that were only touched.
func (l *Ledger) HasContent(path string, content []byte) bool {
	entry, ok := l.Get(path)
	return ok && entry.Hash == xxh3.Hash(content)
}

// Record stores the annotated state of path.
func (l *Ledger) Record(path string, content []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to get file info: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	entry := models.LedgerEntry{
		Path:      abs,
		ModTime:   info.ModTime(),
		Size:      info.Size(),
		Hash:      xxh3.Hash(content),
		Timestamp: time.Now(),
	}

	var buffer bytes.Buffer
	if err := gob.NewEncoder(&buffer).Encode(entry); err != nil {
		return fmt.Errorf("failed to encode ledger entry: %w", err)
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()
	if err := os.WriteFile(l.entryPath(path), buffer.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write ledger entry: %w", err)
	}
	return nil
}

// Forget removes the entry for path.
func (l *Ledger) Forget(path string) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if err := os.Remove(l.entryPath(path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete ledger entry: %w", err)
	}
	return nil
}

// Clear removes every ledger entry and returns how many were deleted.
func (l *Ledger) Clear() (int, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	files, err := os.ReadDir(l.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read ledger directory: %w", err)
	}

	var deleted int
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ledgerExt) {
			continue
		}
		if err := os.Remove(filepath.Join(l.dir, file.Name())); err == nil {
			deleted++
		}
	}
	return deleted, nil
}

// GetLedgerStats returns storage statistics merged with lookup counters.
func (l *Ledger) GetLedgerStats() (map[string]interface{}, error) {
	l.mutex.RLock()
	files, err := os.ReadDir(l.dir)
	l.mutex.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger directory: %w", err)
	}

	var count int
	var totalSize int64
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ledgerExt) {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		count++
		totalSize += info.Size()
	}

	stats := l.GetPerformanceStats()
	stats["ledger_dir"] = l.dir
	stats["ledger_entries"] = count
	stats["total_size"] = totalSize
	return stats, nil
}
