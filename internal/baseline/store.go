// Package baseline persists profile snapshots so a later inspection can
// diff against them without keeping the old file around. Snapshots live
// under the user's cache directory, keyed by the document's logical name.
package baseline

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"sleuth/internal/profile"
	"sleuth/internal/record"
)

// Bump when the Snapshot layout changes; older snapshots are ignored.
const snapshotSchemaVersion uint16 = 1

// ErrNotFound is returned when no snapshot exists for the key.
var ErrNotFound = errors.New("no baseline snapshot for this file")

// Snapshot is one persisted profile with enough context to diff against.
type Snapshot struct {
	Schema      uint16
	Name        string // логическое имя документа
	ContentHash string // sha256 исходных байтов на момент снятия
	TakenAt     time.Time
	Format      uint8 // record.Format
	Profile     profile.DataProfile
}

// Store reads and writes snapshots under one directory.
// Thread-safe for concurrent access.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes a store at the standard cache location
// ($XDG_CACHE_HOME/sleuth, falling back to ~/.cache/sleuth).
func Open() (*Store, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenAt(filepath.Join(base, "sleuth"))
}

// OpenAt initializes a store rooted at dir.
func OpenAt(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Key derives the snapshot key for a document path. Absolute and relative
// spellings of the same file map to one key.
func Key(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	sum := sha256.Sum256([]byte(filepath.ToSlash(abs)))
	return hex.EncodeToString(sum[:])
}

func (s *Store) pathFor(key string) string {
	return filepath.Join(s.dir, "baselines", key+".mp")
}

// Put snapshots a profile for the document at path. The write is atomic:
// a concurrent Get sees either the old snapshot or the new one.
func (s *Store) Put(path string, format record.Format, prof *profile.DataProfile, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash := sha256.Sum256(content)
	snap := &Snapshot{
		Schema:      snapshotSchemaVersion,
		Name:        filepath.Base(path),
		ContentHash: hex.EncodeToString(hash[:]),
		TakenAt:     time.Now().UTC(),
		Format:      uint8(format),
		Profile:     *prof,
	}

	p := s.pathFor(Key(path))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	if err := msgpack.NewEncoder(f).Encode(snap); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// атомарная замена
	return os.Rename(f.Name(), p)
}

// Get loads the snapshot for the document at path.
func (s *Store) Get(path string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.pathFor(Key(path)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	var snap Snapshot
	if err := msgpack.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("corrupt snapshot for %s: %w", path, err)
	}
	if snap.Schema != snapshotSchemaVersion {
		return nil, ErrNotFound
	}
	return &snap, nil
}

// Drop removes the snapshot for path, if any.
func (s *Store) Drop(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.pathFor(Key(path)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
