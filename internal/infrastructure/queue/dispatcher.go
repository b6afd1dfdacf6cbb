package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/listado/marketplace-api/internal/api/metrics"
	"github.com/listado/marketplace-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	processTimeout = 10 * time.Second
)

// Dispatcher routes moderation events to a fixed set of workers using
// consistent hashing on the listing id, guaranteeing per-listing audit
// ordering. Workers run until Stop is called; Stop closes the intake and
// blocks until every buffered event has been processed, so events enqueued
// while the HTTP server drains are not lost on shutdown.
type Dispatcher struct {
	workers  []chan ports.ModerationEventInput
	service  ports.AuditService
	log      zerolog.Logger
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ModerationEventInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ModerationEventInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines.
func (d *Dispatcher) Start() {
	d.wg.Add(len(d.workers))
	for i, ch := range d.workers {
		go d.runWorker(i, ch)
	}
}

// Stop closes the intake channels and blocks until the workers have drained
// every buffered event. Call only after the producers (the HTTP server)
// have stopped; Enqueue after Stop is a programming error.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		for _, ch := range d.workers {
			close(ch)
		}
	})
	d.wg.Wait()
}

// Enqueue sends an event to the worker responsible for its listing. The
// send never blocks the request goroutine: when a shard's buffer is full
// the event is dropped and counted instead.
func (d *Dispatcher) Enqueue(event ports.ModerationEventInput) {
	idx := d.shardIndex(event.ListingID)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditEventsDroppedTotal.Inc()
		d.log.Error().
			Str("listing_id", event.ListingID).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps a listing id deterministically to a worker index.
func (d *Dispatcher) shardIndex(listingID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(listingID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(id int, ch <-chan ports.ModerationEventInput) {
	defer d.wg.Done()
	worker := strconv.Itoa(id)
	for event := range ch {
		metrics.AuditQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
		ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
		if err := d.service.Process(ctx, event); err != nil {
			d.log.Error().Err(err).
				Str("listing_id", event.ListingID).
				Int("worker_id", id).
				Msg("audit event processing failed")
		}
		cancel()
	}
}
