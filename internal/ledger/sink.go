package ledger

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/zamzuriyaakob/AiCoach/internal/models"
	"github.com/zamzuriyaakob/AiCoach/internal/utils"
)

// Sink receives copies of ledger entries for archival. Enqueue must be
// cheap and non-blocking; a full buffer drops the record rather than
// stalling a billing request.
type Sink interface {
	Enqueue(tx *models.Transaction) error
	Shutdown(ctx context.Context) error
}

// NoopSink discards records. Used when archiving is disabled.
type NoopSink struct{}

func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (s *NoopSink) Enqueue(tx *models.Transaction) error {
	return nil
}

func (s *NoopSink) Shutdown(ctx context.Context) error {
	return nil
}

// BatchWriter persists a batch of ledger entries somewhere durable.
type BatchWriter interface {
	WriteBatch(ctx context.Context, records []*models.Transaction) (string, error)
}

// BufferedSink buffers ledger entries in memory and flushes them to a
// BatchWriter when the batch size or the flush interval is reached.
type BufferedSink struct {
	writer        BatchWriter
	buffer        chan *models.Transaction
	flushSize     int
	flushInterval time.Duration
	logger        *utils.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// BufferedSinkConfig holds buffered sink settings
type BufferedSinkConfig struct {
	BufferSize    int
	FlushSize     int
	FlushInterval time.Duration
}

// NewBufferedSink creates a buffered sink and starts its flush worker
func NewBufferedSink(writer BatchWriter, cfg BufferedSinkConfig) *BufferedSink {
	s := &BufferedSink{
		writer:        writer,
		buffer:        make(chan *models.Transaction, cfg.BufferSize),
		flushSize:     cfg.FlushSize,
		flushInterval: cfg.FlushInterval,
		logger:        utils.NewLogger("ledger-archive"),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}

	go s.worker()

	return s
}

// Enqueue adds a ledger entry to the archive buffer. Returns an error when
// the buffer is full; the entry is dropped in that case.
func (s *BufferedSink) Enqueue(tx *models.Transaction) error {
	select {
	case s.buffer <- tx:
		return nil
	default:
		return errors.New("archive buffer full, record dropped")
	}
}

// Shutdown stops the worker and flushes remaining records.
func (s *BufferedSink) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() {
		close(s.stop)
	})

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *BufferedSink) worker() {
	defer close(s.done)

	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	batch := make([]*models.Transaction, 0, s.flushSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := s.writer.WriteBatch(ctx, batch); err != nil {
			s.logger.Error("Failed to flush archive batch", "error", err, "count", len(batch))
		}
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case tx := <-s.buffer:
			batch = append(batch, tx)
			if len(batch) >= s.flushSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stop:
			// Drain whatever is still buffered, then flush once.
			for {
				select {
				case tx := <-s.buffer:
					batch = append(batch, tx)
				default:
					flush()
					return
				}
			}
		}
	}
}
