package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/spectromap/pkg/cache"
	"github.com/matzehuels/spectromap/pkg/spectro"
)

// CachedStore serves Recording from a cache and invalidates the entry on
// every write.
type CachedStore struct {
	Store
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// NewCachedStore wraps st. A nil keyer means cache.DefaultKeyer and a zero
// ttl means cache.TTLRecording.
func NewCachedStore(st Store, c cache.Cache, keyer cache.Keyer, ttl time.Duration) *CachedStore {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if ttl == 0 {
		ttl = cache.TTLRecording
	}
	return &CachedStore{Store: st, cache: c, keyer: keyer, ttl: ttl}
}

func (s *CachedStore) Recording(ctx context.Context, id string) (Recording, error) {
	key := s.keyer.RecordingKey(id)
	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		var r Recording
		if json.Unmarshal(data, &r) == nil {
			return r, nil
		}
	}

	r, err := s.Store.Recording(ctx, id)
	if err != nil {
		return Recording{}, err
	}
	if data, err := json.Marshal(r); err == nil {
		_ = s.cache.Set(ctx, key, data, s.ttl)
	}
	return r, nil
}

func (s *CachedStore) Put(ctx context.Context, r Recording) error {
	defer s.invalidate(ctx, r.ID)
	return s.Store.Put(ctx, r)
}

func (s *CachedStore) UpdatePulse(ctx context.Context, recordingID string, p spectro.Pulse) error {
	defer s.invalidate(ctx, recordingID)
	return s.Store.UpdatePulse(ctx, recordingID, p)
}

func (s *CachedStore) UpdateSequence(ctx context.Context, recordingID string, seq spectro.Sequence) error {
	defer s.invalidate(ctx, recordingID)
	return s.Store.UpdateSequence(ctx, recordingID, seq)
}

func (s *CachedStore) invalidate(ctx context.Context, id string) {
	_ = s.cache.Delete(ctx, s.keyer.RecordingKey(id))
}

var _ Store = (*CachedStore)(nil)
