package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/spectromap/pkg/errors"
	"github.com/matzehuels/spectromap/pkg/spectro"
)

// FileStore keeps each recording in <dir>/<id>.json.
type FileStore struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create store directory %s", dir)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

func (s *FileStore) path(id string) string { return filepath.Join(s.dir, id+".json") }

func (s *FileStore) Recording(ctx context.Context, id string) (Recording, error) {
	if err := errors.ValidateRecordingID(id); err != nil {
		return Recording{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(id)
}

func (s *FileStore) read(id string) (Recording, error) {
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return Recording{}, errors.New(errors.ErrCodeNotFound, "recording %q not found", id)
	}
	if err != nil {
		return Recording{}, errors.Wrap(errors.ErrCodeInternal, err, "read recording %q", id)
	}
	var r Recording
	if err := json.Unmarshal(data, &r); err != nil {
		return Recording{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode recording %q", id)
	}
	if r.ID == "" {
		r.ID = id
	}
	return r, nil
}

func (s *FileStore) write(r Recording) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode recording %q", r.ID)
	}
	tmp := s.path(r.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write recording %q", r.ID)
	}
	return os.Rename(tmp, s.path(r.ID))
}

func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list %s", s.dir)
	}
	var out []Summary
	for _, e := range entries {
		id, ok := strings.CutSuffix(e.Name(), ".json")
		if e.IsDir() || !ok {
			continue
		}
		r, err := s.read(id)
		if err != nil {
			return nil, err
		}
		out = append(out, r.Summarize())
	}
	slices.SortFunc(out, func(a, b Summary) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *FileStore) Put(ctx context.Context, r Recording) error {
	if err := errors.ValidateRecordingID(r.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r.UpdatedAt = s.now().UTC()
	return s.write(r)
}

func (s *FileStore) UpdatePulse(ctx context.Context, recordingID string, p spectro.Pulse) error {
	return s.update(recordingID, func(r *Recording) error {
		if !replacePulse(r.Pulses, p) {
			return errors.New(errors.ErrCodeNotFound, "pulse %d not found in recording %q", p.ID, recordingID)
		}
		return nil
	})
}

func (s *FileStore) UpdateSequence(ctx context.Context, recordingID string, seq spectro.Sequence) error {
	return s.update(recordingID, func(r *Recording) error {
		if !replaceSequence(r.Sequences, seq) {
			return errors.New(errors.ErrCodeNotFound, "sequence %d not found in recording %q", seq.ID, recordingID)
		}
		return nil
	})
}

func (s *FileStore) update(id string, fn func(*Recording) error) error {
	if err := errors.ValidateRecordingID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.read(id)
	if err != nil {
		return err
	}
	if err := fn(&r); err != nil {
		return err
	}
	r.UpdatedAt = s.now().UTC()
	return s.write(r)
}

func (s *FileStore) Close(context.Context) error { return nil }

var _ Store = (*FileStore)(nil)
