// Package stats keeps the per-day statistics side table up to date. Writes
// happen on a background worker so tracker operations never wait for them
// and never fail because of them.
package stats

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/quiterx/selfrealization-bot/internal/logger"
	"github.com/quiterx/selfrealization-bot/internal/models"
)

// Store is the write side the aggregator needs.
type Store interface {
	ApplyStats(ctx context.Context, delta models.StatsDelta) error
}

const writeTimeout = 5 * time.Second

type Aggregator struct {
	store Store
	log   *log.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan models.StatsDelta

	pending sync.WaitGroup
	done    chan struct{}
}

// New starts the worker. buffer bounds the number of queued deltas; when the
// queue is full new deltas are dropped and logged.
func New(store Store, buffer int) *Aggregator {
	if buffer <= 0 {
		buffer = 256
	}
	a := &Aggregator{
		store: store,
		log:   logger.With("component", "stats"),
		queue: make(chan models.StatsDelta, buffer),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

// Record queues delta without blocking.
func (a *Aggregator) Record(delta models.StatsDelta) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		a.log.Warn("statistics update after close", "account", delta.AccountID, "day", delta.Day)
		return
	}
	a.pending.Add(1)
	select {
	case a.queue <- delta:
	default:
		a.pending.Done()
		a.log.Warn("statistics queue full, update dropped", "account", delta.AccountID, "day", delta.Day)
	}
}

// Flush blocks until every recorded delta has been applied or dropped.
func (a *Aggregator) Flush() {
	a.pending.Wait()
}

// Close drains the queue and stops the worker.
func (a *Aggregator) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()
	<-a.done
}

func (a *Aggregator) run() {
	defer close(a.done)
	for delta := range a.queue {
		a.apply(delta)
		a.pending.Done()
	}
}

func (a *Aggregator) apply(delta models.StatsDelta) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := a.store.ApplyStats(ctx, delta); err != nil {
		a.log.Error("statistics update failed", "account", delta.AccountID, "day", delta.Day, "err", err)
	}
}
