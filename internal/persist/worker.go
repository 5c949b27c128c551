// Package persist moves store snapshots to durable storage in the
// background. Mutations enqueue the new document and return immediately;
// a failed or dropped write never fails the mutation path. The in-memory
// state stays authoritative for the life of the process, so the worst a
// lost write can cost is the gap a crash would expose anyway.
package persist

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Aryan-Srivastava/expense-tracker/internal/metrics"
	"github.com/Aryan-Srivastava/expense-tracker/internal/storage"
)

// Saver accepts a document snapshot for eventual persistence.
type Saver interface {
	// Enqueue hands off the document stored under key. It must not block
	// and must not fail the caller.
	Enqueue(key string, value []byte)
}

type request struct {
	id    string
	key   string
	value []byte
}

// Worker persists enqueued documents on a background goroutine. Writes are
// issued in enqueue order; when the buffer is full new writes are dropped
// with a warning rather than blocking a mutation.
type Worker struct {
	requests chan request
	store    storage.Store
	metrics  *metrics.Metrics
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

var _ Saver = (*Worker)(nil)

// NewWorker creates a worker writing to store with the given buffer size.
func NewWorker(store storage.Store, m *metrics.Metrics, bufferSize int) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		requests: make(chan request, bufferSize),
		store:    store,
		metrics:  m,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the background save loop.
func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-w.ctx.Done():
				slog.Info("draining pending saves before shutdown", "remaining", len(w.requests))
				for len(w.requests) > 0 {
					w.save(context.Background(), <-w.requests)
				}
				return
			case req := <-w.requests:
				w.save(w.ctx, req)
			}
		}
	}()
}

// Enqueue queues a document write. If the buffer is full the write is
// dropped and logged; the in-memory state remains authoritative.
func (w *Worker) Enqueue(key string, value []byte) {
	req := request{id: uuid.New().String(), key: key, value: value}
	select {
	case w.requests <- req:
	default:
		slog.Warn("persist buffer full, dropping write", "write_id", req.id, "key", key)
		w.metrics.SavesTotal.WithLabelValues("dropped").Inc()
	}
}

// Shutdown stops the worker after draining queued writes. Enqueue must not
// be called once Shutdown has begun.
func (w *Worker) Shutdown() {
	w.cancel()
	w.wg.Wait()
	close(w.requests)
}

func (w *Worker) save(ctx context.Context, req request) {
	if err := w.store.Save(ctx, req.key, req.value); err != nil {
		slog.Error("failed to persist document", "write_id", req.id, "key", req.key, "error", err)
		w.metrics.SavesTotal.WithLabelValues("error").Inc()
		return
	}
	slog.Debug("document persisted", "write_id", req.id, "key", req.key, "bytes", len(req.value))
	w.metrics.SavesTotal.WithLabelValues("ok").Inc()
}

// Direct is a Saver that writes synchronously. Used by tests and one-shot
// commands where there is no long-lived process to run a worker in.
type Direct struct {
	Store   storage.Store
	Metrics *metrics.Metrics
}

var _ Saver = Direct{}

// Enqueue saves immediately, logging failures like the worker does.
func (d Direct) Enqueue(key string, value []byte) {
	if err := d.Store.Save(context.Background(), key, value); err != nil {
		slog.Error("failed to persist document", "key", key, "error", err)
		d.Metrics.SavesTotal.WithLabelValues("error").Inc()
		return
	}
	d.Metrics.SavesTotal.WithLabelValues("ok").Inc()
}
