package store

import (
	"context"
	"testing"

	"github.com/matzehuels/spectromap/pkg/cache"
	"github.com/matzehuels/spectromap/pkg/spectro"
)

func TestCachedStore(t *testing.T) {
	ctx := context.Background()
	backing := newTestFileStore(t)
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := NewCachedStore(backing, c, nil, 0)

	if err := s.Put(ctx, testRecording("rec")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Recording(ctx, "rec"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, cache.NewDefaultKeyer().RecordingKey("rec")); !hit {
		t.Fatal("recording should be cached after a read")
	}

	moved := spectro.Pulse{ID: 1, StartTime: 120, EndTime: 220, LowFreq: 100, HighFreq: 200}
	if err := s.UpdatePulse(ctx, "rec", moved); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, cache.NewDefaultKeyer().RecordingKey("rec")); hit {
		t.Error("update should invalidate the cached recording")
	}
	got, err := s.Recording(ctx, "rec")
	if err != nil {
		t.Fatal(err)
	}
	if got.Pulses[0] != moved {
		t.Errorf("pulse = %+v, want %+v", got.Pulses[0], moved)
	}
}
