package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/canvord/blog-api/internal/api/metrics"
	"github.com/canvord/blog-api/internal/core/domain"
	"github.com/canvord/blog-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes article events to a fixed set of workers using consistent
// hashing on the article ID, guaranteeing per-article event ordering.
type Dispatcher struct {
	workers []chan domain.ArticleEvent
	service ports.EventService
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	// stopped is closed once no worker will read again: the Start context
	// ended or Close began. Enqueue gives up on a full shard when it fires.
	stopped  chan struct{}
	stopOnce sync.Once
}

var _ ports.EventRecorder = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.EventService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.ArticleEvent, numWorkers),
		service: service,
		log:     log,
		stopped: make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ArticleEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or, after draining their channel, when Close is called.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
	context.AfterFunc(ctx, d.stop)
}

func (d *Dispatcher) stop() {
	d.stopOnce.Do(func() { close(d.stopped) })
}

// Enqueue sends an event to the worker responsible for its article.
// The call is non-blocking up to channelBuffer capacity; past that it waits
// for the worker. Events enqueued after Close, or while waiting on a full
// shard when the workers stop, are dropped.
func (d *Dispatcher) Enqueue(event domain.ArticleEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.dropped(event, "dispatcher closed, event dropped")
		return
	}

	idx := d.shardIndex(event.ArticleID)
	select {
	case d.workers[idx] <- event:
		metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	case <-d.stopped:
		d.dropped(event, "workers stopped, event dropped")
	}
}

func (d *Dispatcher) dropped(event domain.ArticleEvent, msg string) {
	d.log.Warn().Str("article_id", event.ArticleID).Str("action", string(event.Action)).Msg(msg)
}

// Close stops accepting events and waits until the workers have drained
// their channels or ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	// Release any Enqueue stuck on a full shard so the write lock can be taken.
	d.stop()
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps an article ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(articleID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(articleID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ArticleEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, event); err != nil {
				metrics.EventsErrorsTotal.Inc()
				d.log.Error().Err(err).
					Str("article_id", event.ArticleID).
					Str("action", string(event.Action)).
					Int("worker_id", id).
					Msg("event processing failed")
			}
			metrics.EventsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
		}
	}
}
