// Package ledger batches move records and hands them to a Submitter.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-2048/internal/engine"
)

// DefaultBatchSize is used when NewBatcher gets a size below one.
const DefaultBatchSize = 8

// ErrNoSubmitter is returned by Flush when the batcher has nowhere to send records.
var ErrNoSubmitter = errors.New("ledger: no submitter configured")

// Batch is a group of records submitted together.
type Batch struct {
	ID        string
	GameID    string
	CreatedAt time.Time
	Records   []engine.MoveRecord
}

// Submitter persists or forwards a batch. A returned error means nothing
// from the batch was accepted.
type Submitter interface {
	SubmitBatch(ctx context.Context, batch Batch) error
}

// Batcher collects move records and submits them in groups of size.
// It is safe for concurrent use.
type Batcher struct {
	mu        sync.Mutex
	sub       Submitter
	gameID    string
	size      int
	pending   []engine.MoveRecord
	submitted int
	logger    *log.Logger
	now       func() time.Time
}

// NewBatcher creates a batcher for one game. logger may be nil.
func NewBatcher(sub Submitter, gameID string, size int, logger *log.Logger) *Batcher {
	if size < 1 {
		size = DefaultBatchSize
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Batcher{
		sub:    sub,
		gameID: gameID,
		size:   size,
		logger: logger.WithPrefix("ledger"),
		now:    time.Now,
	}
}

// Add stamps the record with its hash and queues it. When the queue reaches
// the batch size it is flushed; the flush error, if any, is returned and the
// records stay queued.
func (b *Batcher) Add(ctx context.Context, rec engine.MoveRecord) error {
	rec.Hash = Hash(rec)
	rec.Submitted = false

	b.mu.Lock()
	b.pending = append(b.pending, rec)
	full := len(b.pending) >= b.size
	b.mu.Unlock()

	if !full {
		return nil
	}
	_, err := b.Flush(ctx)
	return err
}

// Flush submits everything pending as one batch and returns it.
// An empty queue is a no-op that returns a zero Batch.
func (b *Batcher) Flush(ctx context.Context) (Batch, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.pending) == 0 {
		return Batch{}, nil
	}
	if b.sub == nil {
		return Batch{}, ErrNoSubmitter
	}

	batch := Batch{
		ID:        uuid.NewString(),
		GameID:    b.gameID,
		CreatedAt: b.now(),
		Records:   make([]engine.MoveRecord, len(b.pending)),
	}
	for i, rec := range b.pending {
		rec.BatchID = batch.ID
		batch.Records[i] = rec
	}

	if err := b.sub.SubmitBatch(ctx, batch); err != nil {
		b.logger.Warn("batch submit failed", "batch", batch.ID, "records", len(batch.Records), "err", err)
		return Batch{}, fmt.Errorf("ledger: submit batch %s: %w", batch.ID, err)
	}

	for i := range batch.Records {
		batch.Records[i].Submitted = true
	}
	b.submitted += len(batch.Records)
	b.pending = b.pending[:0]
	b.logger.Debug("batch submitted", "batch", batch.ID, "game", b.gameID, "records", len(batch.Records))
	return batch, nil
}

// Pending returns the number of queued records.
func (b *Batcher) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Submitted returns how many records have been accepted by the submitter.
func (b *Batcher) Submitted() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.submitted
}

// GameID returns the game the batcher records for.
func (b *Batcher) GameID() string {
	return b.gameID
}
