package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"sync/atomic"

	"github.com/rs/zerolog"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// ErrStopped is returned by Do once the serializer has been shut down.
var ErrStopped = errors.New("serializer stopped")

type job struct {
	ctx  context.Context
	key  string
	fn   func(context.Context) error
	done chan error
}

// Serializer routes mutations to a fixed set of workers using consistent
// hashing on a key, so at most one mutation per key is in flight and
// mutations on the same key run in submission order.
type Serializer struct {
	workers []chan job
	log     zerolog.Logger
	stopped chan struct{}
	pending atomic.Int64
	depth   func(pending int)
}

// Option customises a Serializer.
type Option func(*Serializer)

// WithDepthObserver registers a callback that receives the number of
// queued and running jobs after every change.
func WithDepthObserver(fn func(pending int)) Option {
	return func(s *Serializer) { s.depth = fn }
}

// NewSerializer creates a Serializer with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewSerializer(numWorkers int, log zerolog.Logger, opts ...Option) *Serializer {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	s := &Serializer{
		workers: make([]chan job, numWorkers),
		log:     log.With().Str("component", "serializer").Logger(),
		stopped: make(chan struct{}),
		depth:   func(int) {},
	}
	for i := range s.workers {
		s.workers[i] = make(chan job, channelBuffer)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (s *Serializer) Start(ctx context.Context) {
	for i, ch := range s.workers {
		go s.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		close(s.stopped)
	}()
}

// Do runs fn on the worker owning key and waits for its result. When ctx
// ends first, Do returns ctx.Err(); a job that has not started yet is then
// skipped by the worker.
func (s *Serializer) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	j := job{ctx: ctx, key: key, fn: fn, done: make(chan error, 1)}

	select {
	case <-s.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	case s.workers[s.shardIndex(key)] <- j:
		s.depth(int(s.pending.Add(1)))
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopped:
		return ErrStopped
	}
}

// shardIndex maps a key deterministically to a worker index.
func (s *Serializer) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(s.workers)))
}

func (s *Serializer) runWorker(ctx context.Context, id int, ch <-chan job) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-ch:
			s.run(id, j)
			s.depth(int(s.pending.Add(-1)))
		}
	}
}

func (s *Serializer) run(id int, j job) {
	if err := j.ctx.Err(); err != nil {
		s.log.Debug().Str("key", j.key).Int("worker_id", id).Msg("skipping cancelled job")
		j.done <- err
		return
	}
	err := j.fn(j.ctx)
	if err != nil {
		s.log.Debug().Err(err).Str("key", j.key).Int("worker_id", id).Msg("job failed")
	}
	j.done <- err
}
