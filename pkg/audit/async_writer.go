package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/intelgrid/dashguard/pkg/logger"
)

// AsyncOptions tunes batching. Zero values take the defaults.
type AsyncOptions struct {
	BufferSize     int           // queued events before new ones are dropped (1000)
	BatchSize      int           // events per storage call (100)
	BatchTimeout   time.Duration // max wait for a partial batch (100ms)
	StorageTimeout time.Duration // per-batch storage deadline (5s)
	Logger         *slog.Logger
}

// AsyncWriter queues events and flushes them in batches.
type AsyncWriter struct {
	next    Writer
	opts    AsyncOptions
	events  chan Event
	done    chan struct{}
	wg      sync.WaitGroup
	closing sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

// NewAsyncWriter starts the flush goroutine. Close must be called to drain it.
func NewAsyncWriter(next Writer, opts AsyncOptions) *AsyncWriter {
	if next == nil {
		panic("audit: writer cannot be nil")
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = 100 * time.Millisecond
	}
	if opts.StorageTimeout <= 0 {
		opts.StorageTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	w := &AsyncWriter{
		next:   next,
		opts:   opts,
		events: make(chan Event, opts.BufferSize),
		done:   make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w
}

// Store enqueues events without waiting for storage. Events that do not fit
// in the buffer are dropped and ErrBufferFull is returned.
func (w *AsyncWriter) Store(_ context.Context, events ...Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrWriterClosed
	}
	for _, e := range events {
		select {
		case w.events <- e:
		default:
			w.dropped.Add(1)
			return ErrBufferFull
		}
	}
	return nil
}

// Dropped reports how many events were discarded because the buffer was full.
func (w *AsyncWriter) Dropped() uint64 { return w.dropped.Load() }

func (w *AsyncWriter) run() {
	defer w.wg.Done()

	batch := make([]Event, 0, w.opts.BatchSize)
	ticker := time.NewTicker(w.opts.BatchTimeout)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), w.opts.StorageTimeout)
		defer cancel()
		if err := w.next.Store(ctx, batch...); err != nil {
			w.opts.Logger.Error("audit batch lost",
				logger.Component("audit"),
				slog.Int("events", len(batch)),
				logger.Error(err),
			)
		}
		batch = batch[:0]
	}

	for {
		select {
		case e := <-w.events:
			batch = append(batch, e)
			if len(batch) >= w.opts.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-w.done:
			for {
				select {
				case e := <-w.events:
					batch = append(batch, e)
					if len(batch) >= w.opts.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close stops accepting events and waits for queued ones to be flushed or
// for ctx to expire.
func (w *AsyncWriter) Close(ctx context.Context) error {
	w.closing.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.done)
	})

	finished := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
