package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/vaultguard/vault-api/internal/core/domain"
	"github.com/vaultguard/vault-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Recorder persists activity entries asynchronously through a fixed set of
// workers, sharded by user so each user's trail stays in order. Record never
// blocks and never fails the triggering operation: on a full shard the entry
// is dropped with a loud log line, and persistence errors are logged and
// swallowed.
type Recorder struct {
	workers []chan domain.ActivityLogEntry
	repo    ports.ActivityRepository
	log     zerolog.Logger
}

// NewRecorder creates a Recorder with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewRecorder(numWorkers int, repo ports.ActivityRepository, log zerolog.Logger) *Recorder {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	r := &Recorder{
		workers: make([]chan domain.ActivityLogEntry, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range r.workers {
		r.workers[i] = make(chan domain.ActivityLogEntry, channelBuffer)
	}
	return r
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (r *Recorder) Start(ctx context.Context) {
	for i, ch := range r.workers {
		go r.runWorker(ctx, i, ch)
	}
}

// Record hands an entry to the worker responsible for its user. A full shard
// drops the entry rather than stall the caller.
func (r *Recorder) Record(entry domain.ActivityLogEntry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	select {
	case r.workers[r.shardIndex(entry.UserID)] <- entry:
	default:
		r.log.Error().
			Str("user_id", entry.UserID).
			Str("action", entry.Action).
			Msg("activity shard full, entry dropped")
	}
}

// shardIndex maps a user deterministically to a worker index.
func (r *Recorder) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32()) % len(r.workers)
}

func (r *Recorder) runWorker(ctx context.Context, id int, ch <-chan domain.ActivityLogEntry) {
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			if err := r.repo.Append(ctx, &entry); err != nil {
				r.log.Error().Err(err).
					Str("user_id", entry.UserID).
					Str("action", entry.Action).
					Int("worker_id", id).
					Msg("activity append failed")
			}
		}
	}
}
