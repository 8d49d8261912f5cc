package geometry

import (
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/winkeep/winkeep/pkg/window"
)

type pointRecord struct {
	X *int32 `yaml:"x"`
	Y *int32 `yaml:"y"`
}

// PositionStore holds the host window's top-left position
type PositionStore struct {
	mu   sync.Mutex
	path string
}

func NewPositionStore(path string) *PositionStore {
	return &PositionStore{path: path}
}

func (s *PositionStore) Path() string {
	return s.path
}

func (s *PositionStore) Save(p window.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "failed to encode position")
	}
	return writeAtomic(s.path, data)
}

func (s *PositionStore) Load() (window.Point, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := readRecord(s.path)
	if err != nil || !ok {
		return window.Point{}, false, err
	}

	var rec pointRecord
	if err := decodeStrict(data, &rec); err != nil {
		return window.Point{}, false, errors.Wrapf(ErrCorrupt, "%s: %v", s.path, err)
	}
	if rec.X == nil || rec.Y == nil {
		return window.Point{}, false, errors.Wrapf(ErrCorrupt, "%s: missing field", s.path)
	}

	return window.Point{X: *rec.X, Y: *rec.Y}, true, nil
}

// LoadOr returns the stored position, or def when the record is absent or
// unreadable. The error is still returned so the caller can log it.
func (s *PositionStore) LoadOr(def window.Point) (window.Point, error) {
	p, ok, err := s.Load()
	if err != nil || !ok {
		return def, err
	}
	return p, nil
}
