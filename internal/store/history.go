package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumenhq/livefeed/internal/dispatch"
	"github.com/lumenhq/livefeed/internal/event"
)

// WriterConfig holds event writer settings.
type WriterConfig struct {
	BatchSize     int
	FlushInterval time.Duration
	BufferSize    int
}

// DefaultWriterConfig returns sensible defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		BatchSize:     500,
		FlushInterval: time.Second,
		BufferSize:    10000,
	}
}

// WriterMetrics counts writer outcomes.
type WriterMetrics struct {
	Inserts int64
	Flushes int64
	Errors  int64
	Dropped int64
}

// eventRow is one channel event ready for insertion.
type eventRow struct {
	ReceivedAt int64 // µs since epoch
	Endpoint   string
	MsgType    string
	Payload    []byte
}

// EventWriter mirrors the live event stream into the channel_events table.
// Frames arrive through per-endpoint dispatch handlers, queue in a growable
// buffer, and flush in batches.
type EventWriter struct {
	cfg    WriterConfig
	logger *slog.Logger

	input *Buffer[eventRow]
	db    *pgxpool.Pool

	batchMu sync.Mutex
	metrics WriterMetrics

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEventWriter creates a new EventWriter.
func NewEventWriter(cfg WriterConfig, db *pgxpool.Pool, logger *slog.Logger) *EventWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventWriter{
		cfg:    cfg,
		db:     db,
		logger: logger,
		input:  NewBuffer[eventRow](cfg.BufferSize),
	}
}

// Handler returns a dispatch handler that records every frame from the named
// endpoint. It never blocks the dispatch goroutine.
func (w *EventWriter) Handler(endpoint string) dispatch.Handler {
	return func(msg event.Message) {
		row := eventRow{
			ReceivedAt: msg.ReceivedAt.UnixMicro(),
			Endpoint:   endpoint,
			MsgType:    msg.Type,
			Payload:    msg.Data,
		}
		if !w.input.Push(row) {
			w.batchMu.Lock()
			w.metrics.Dropped++
			w.batchMu.Unlock()
		}
	}
}

// Start begins consuming queued events and writing them to the database.
func (w *EventWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("event writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down the writer, flushing anything still queued.
func (w *EventWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping event writer")

	if w.cancel != nil {
		w.cancel()
	}
	w.input.Close()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("event writer stopped")
	case <-ctx.Done():
		w.logger.Warn("event writer stop timed out")
	}

	// Final flush of whatever is left in the buffer.
	w.flush(context.Background())

	return nil
}

// Stats returns current metrics.
func (w *EventWriter) Stats() WriterMetrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

// flushLoop drains the buffer on a fixed cadence and whenever a full batch
// has accumulated.
func (w *EventWriter) flushLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.flush(w.ctx)
		default:
			if w.input.Len() >= w.cfg.BatchSize {
				w.flush(w.ctx)
				continue
			}
			select {
			case <-w.ctx.Done():
				return
			case <-time.After(10 * time.Millisecond):
			}
		}
	}
}

// flush writes everything currently queued, one batch at a time.
func (w *EventWriter) flush(ctx context.Context) {
	for {
		rows := w.input.Drain(w.cfg.BatchSize)
		if len(rows) == 0 {
			return
		}

		start := time.Now()

		if err := w.batchInsert(ctx, rows); err != nil {
			w.logger.Error("batch insert failed", "error", err, "count", len(rows))
			w.batchMu.Lock()
			w.metrics.Errors++
			w.batchMu.Unlock()
			return
		}

		w.batchMu.Lock()
		w.metrics.Inserts += int64(len(rows))
		w.metrics.Flushes++
		w.batchMu.Unlock()

		w.logger.Debug("flushed events",
			"count", len(rows),
			"duration", time.Since(start),
		)
	}
}

// batchInsert inserts rows using pgx.Batch.
func (w *EventWriter) batchInsert(ctx context.Context, rows []eventRow) error {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO channel_events (received_at, endpoint, msg_type, payload)
			VALUES ($1, $2, $3, $4)
		`, r.ReceivedAt, r.Endpoint, r.MsgType, r.Payload)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	return nil
}
