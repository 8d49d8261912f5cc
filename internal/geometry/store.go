// Package geometry persists window geometry in small, human-readable YAML
// records that are replaced atomically on every write.
package geometry

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/winkeep/winkeep/pkg/window"
)

var (
	// ErrCorrupt is returned when a record exists but cannot be parsed
	ErrCorrupt = errors.New("record is corrupt")

	// ErrIO is returned when a record cannot be read or written
	ErrIO = errors.New("record I/O failed")
)

// IsCorrupt reports whether err was caused by an unparsable record
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorrupt)
}

// IsIO reports whether err was caused by a filesystem failure
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}

// rectRecord mirrors window.Rect with pointer fields so a missing key can
// be told apart from a zero value.
type rectRecord struct {
	X      *int32 `yaml:"x"`
	Y      *int32 `yaml:"y"`
	Width  *int32 `yaml:"width"`
	Height *int32 `yaml:"height"`
}

// Store holds the last known geometry of the tracked window
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store backed by the file at path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file the store reads and writes
func (s *Store) Path() string {
	return s.path
}

// Save overwrites the stored geometry with r
func (s *Store) Save(r window.Rect) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "failed to encode geometry")
	}
	return writeAtomic(s.path, data)
}

// Load returns the stored geometry. The boolean is false when nothing has
// been stored yet.
func (s *Store) Load() (window.Rect, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := readRecord(s.path)
	if err != nil || !ok {
		return window.Rect{}, false, err
	}

	var rec rectRecord
	if err := decodeStrict(data, &rec); err != nil {
		return window.Rect{}, false, errors.Wrapf(ErrCorrupt, "%s: %v", s.path, err)
	}
	if rec.X == nil || rec.Y == nil || rec.Width == nil || rec.Height == nil {
		return window.Rect{}, false, errors.Wrapf(ErrCorrupt, "%s: missing field", s.path)
	}

	return window.Rect{X: *rec.X, Y: *rec.Y, Width: *rec.Width, Height: *rec.Height}, true, nil
}

func readRecord(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(ErrIO, "read %s: %v", path, err)
	}
	return data, true, nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return errors.New("empty record")
		}
		return err
	}
	return nil
}

// writeAtomic replaces path with data so a reader never sees a partial record
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(ErrIO, "create directory %s: %v", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(ErrIO, "create temp file in %s: %v", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrapf(ErrIO, "write %s: %v", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrapf(ErrIO, "sync %s: %v", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(ErrIO, "close %s: %v", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(ErrIO, "chmod %s: %v", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(ErrIO, "replace %s: %v", path, err)
	}
	return nil
}
