package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// RefreshQueue recomputes trust scores off the request path. Scheduling the
// same politician twice before the worker reaches it is a no-op.
type RefreshQueue struct {
	trust     *TrustScoreService
	queue     chan uint
	pending   map[uint]bool
	mu        sync.Mutex
	batchSize int
	interval  time.Duration
}

func NewRefreshQueue(trust *TrustScoreService) *RefreshQueue {
	return &RefreshQueue{
		trust:     trust,
		queue:     make(chan uint, 1000),
		pending:   make(map[uint]bool),
		batchSize: 50,
		interval:  500 * time.Millisecond,
	}
}

// Schedule enqueues a politician without blocking; a full queue drops the
// request, the nightly sweep catches it up.
func (q *RefreshQueue) Schedule(politicianID uint) {
	q.mu.Lock()
	if q.pending[politicianID] {
		q.mu.Unlock()
		return
	}
	q.pending[politicianID] = true
	q.mu.Unlock()

	select {
	case q.queue <- politicianID:
	default:
		q.mu.Lock()
		delete(q.pending, politicianID)
		q.mu.Unlock()
		log.Warn().Uint("politician_id", politicianID).Msg("trust score queue full, skipping")
	}
}

// Pending reports whether a politician is waiting for the worker.
func (q *RefreshQueue) Pending(politicianID uint) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending[politicianID]
}

// Run drains the queue in batches until ctx is cancelled.
func (q *RefreshQueue) Run(ctx context.Context) {
	batch := make([]uint, 0, q.batchSize)
	ticker := time.NewTicker(q.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case id := <-q.queue:
			batch = append(batch, id)
			if len(batch) >= q.batchSize {
				q.processBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				q.processBatch(ctx, batch)
				batch = batch[:0]
			}
		}
	}
}

func (q *RefreshQueue) processBatch(ctx context.Context, ids []uint) {
	for _, id := range ids {
		if _, err := q.trust.load(ctx, id, true); err != nil {
			log.Error().Err(err).Uint("politician_id", id).Msg("trust score refresh failed")
		}

		q.mu.Lock()
		delete(q.pending, id)
		q.mu.Unlock()
	}
}
