// Package prefs persists the small set of user preferences grokcap remembers
// between runs: the two toggles and the last filename used for a save.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// Fixed keys. They are the same names the in-browser overlay keeps in
// localStorage, so an exported store can be dropped in as is.
const (
	KeyIncludeBothRoles = "txt2mp3_useResponses"
	KeyEmitMarkup       = "txt2mp3_outputSSML"
	KeyLastFilename     = "txt2mp3_lastFilename"
)

// Store is a string key-value store.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// ParseFlag interprets a stored toggle. Both "1"/"0" and "true"/"false"
// are accepted; any other stored value reads as false. A missing key yields
// def.
func ParseFlag(value string, present bool, def bool) bool {
	if !present {
		return def
	}
	return value == "1" || value == "true"
}

// FormatFlag is the representation written for a toggle.
func FormatFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Flag reads a toggle from s.
func Flag(s Store, key string, def bool) (bool, error) {
	v, ok, err := s.Get(key)
	if err != nil {
		return def, err
	}
	return ParseFlag(v, ok, def), nil
}

// SetFlag writes a toggle to s.
func SetFlag(s Store, key string, b bool) error {
	return s.Set(key, FormatFlag(b))
}

// DefaultPath returns prefs.json under the user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "grokcap", "prefs.json"), nil
}

// FileStore keeps preferences in a JSON object on disk. Writes take an
// exclusive lock on a sibling .lock file and replace the file atomically, so
// two grokcap processes never interleave updates.
type FileStore struct {
	Path string
}

func (f *FileStore) lock() *flock.Flock {
	return flock.New(f.Path + ".lock")
}

func (f *FileStore) checkPath() error {
	if f == nil || f.Path == "" {
		return errors.New("prefs path not configured")
	}
	return nil
}

// Get reads one key. A missing file behaves like an empty store and is not
// created, nor is its directory or lock file.
func (f *FileStore) Get(key string) (string, bool, error) {
	if err := f.checkPath(); err != nil {
		return "", false, err
	}
	if _, err := os.Stat(f.Path); errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	l := f.lock()
	if err := l.RLock(); err != nil {
		return "", false, fmt.Errorf("lock prefs: %w", err)
	}
	defer l.Unlock()

	m, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

// Set writes one key, keeping every other stored value.
func (f *FileStore) Set(key, value string) error {
	if err := f.checkPath(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	l := f.lock()
	if err := l.Lock(); err != nil {
		return fmt.Errorf("lock prefs: %w", err)
	}
	defer l.Unlock()

	m, err := f.read()
	if err != nil {
		return err
	}
	m[key] = value
	return f.write(m)
}

func (f *FileStore) read() (map[string]string, error) {
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read prefs: %w", err)
	}
	m := map[string]string{}
	if len(b) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse prefs %s: %w", f.Path, err)
	}
	return m, nil
}

func (f *FileStore) write(m map[string]string) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, append(b, '\n'), 0o600); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu sync.Mutex
	m  map[string]string
}

// NewMemoryStore returns a store seeded with initial, which may be nil.
func NewMemoryStore(initial map[string]string) *MemoryStore {
	m := make(map[string]string, len(initial))
	for k, v := range initial {
		m[k] = v
	}
	return &MemoryStore{m: m}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = map[string]string{}
	}
	s.m[key] = value
	return nil
}
