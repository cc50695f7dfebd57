package stats

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiterx/selfrealization-bot/internal/models"
)

type recordingStore struct {
	mu      sync.Mutex
	applied []models.StatsDelta
	failFor int64
	block   chan struct{}
}

func (s *recordingStore) ApplyStats(_ context.Context, d models.StatsDelta) error {
	if s.block != nil {
		<-s.block
	}
	if d.AccountID == s.failFor {
		return errors.New("disk I/O error")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = append(s.applied, d)
	return nil
}

func (s *recordingStore) accounts() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.applied))
	for _, d := range s.applied {
		ids = append(ids, d.AccountID)
	}
	return ids
}

func TestAggregator_AppliesInOrder(t *testing.T) {
	store := &recordingStore{}
	a := New(store, 16)
	defer a.Close()

	for i := int64(1); i <= 5; i++ {
		a.Record(models.StatsDelta{AccountID: i, Day: "2025-05-08"})
	}
	a.Flush()

	assert.Equal(t, []int64{1, 2, 3, 4, 5}, store.accounts())
}

func TestAggregator_FailureIsSwallowed(t *testing.T) {
	store := &recordingStore{failFor: 2}
	a := New(store, 16)
	defer a.Close()

	a.Record(models.StatsDelta{AccountID: 1})
	a.Record(models.StatsDelta{AccountID: 2})
	a.Record(models.StatsDelta{AccountID: 3})
	a.Flush()

	assert.Equal(t, []int64{1, 3}, store.accounts())
}

func TestAggregator_RecordNeverBlocks(t *testing.T) {
	store := &recordingStore{block: make(chan struct{})}
	a := New(store, 1)

	// worker holds one, queue holds one, the rest are dropped
	for i := int64(1); i <= 10; i++ {
		a.Record(models.StatsDelta{AccountID: i})
	}
	close(store.block)
	a.Flush()
	a.Close()

	got := store.accounts()
	require.NotEmpty(t, got)
	assert.Less(t, len(got), 10)
	assert.Equal(t, int64(1), got[0])
}

func TestAggregator_CloseDrainsAndIgnoresLateRecords(t *testing.T) {
	store := &recordingStore{}
	a := New(store, 16)

	a.Record(models.StatsDelta{AccountID: 1})
	a.Close()
	a.Close()
	a.Record(models.StatsDelta{AccountID: 2})

	assert.Equal(t, []int64{1}, store.accounts())
}
