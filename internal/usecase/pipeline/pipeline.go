package pipeline

import (
	"sync"

	"github.com/52tanbivv/coin-exchange-backend/pkg/errors"
	"github.com/52tanbivv/coin-exchange-backend/pkg/logger"
)

// Consumer handles items in publish order. All registered consumers of a
// pipeline see every item with the same sequence, delivered from a single
// goroutine: consumer code never needs its own locking.
type Consumer[T any] interface {
	OnNext(sequence uint64, item T)
}

// ConsumerFunc adapts a function to the Consumer interface.
type ConsumerFunc[T any] func(sequence uint64, item T)

// OnNext implements Consumer.
func (f ConsumerFunc[T]) OnNext(sequence uint64, item T) {
	f(sequence, item)
}

// Pipeline is a bounded multi-producer channel with a single dispatch
// goroutine that fans every item out to all registered consumers in
// registration order. Sequence numbers are assigned atomically with the
// enqueue, so the sequence order is exactly the delivery order. Producers
// block while the buffer is full.
type Pipeline[T any] struct {
	name      string
	consumers []Consumer[T]
	log       logger.Interface

	mu      sync.Mutex
	seq     uint64
	ch      chan entry[T]
	started bool
	stopped bool

	wg sync.WaitGroup
}

type entry[T any] struct {
	seq  uint64
	item T
}

// New creates a pipeline with the given buffer size.
func New[T any](name string, size int, log logger.Interface) *Pipeline[T] {
	return &Pipeline[T]{
		name: name,
		log:  log,
		ch:   make(chan entry[T], size),
	}
}

// Register adds a consumer. Must be called before Start.
func (p *Pipeline[T]) Register(c Consumer[T]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		panic("pipeline: register after start")
	}
	p.consumers = append(p.consumers, c)
}

// Start launches the dispatch goroutine.
func (p *Pipeline[T]) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	p.wg.Add(1)
	go p.dispatch()
	p.log.Info("pipeline started",
		logger.Field{Key: "pipeline", Value: p.name},
		logger.Field{Key: "consumers", Value: len(p.consumers)},
	)
}

// Publish assigns the next sequence and enqueues the item, blocking while
// the buffer is full. It returns the assigned sequence.
func (p *Pipeline[T]) Publish(item T) (uint64, error) {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return 0, errors.NewErrorDetails("pipeline "+p.name+" is not started", errors.ErrPipelineNotStarted, "")
	}
	if p.stopped {
		p.mu.Unlock()
		return 0, errors.NewErrorDetails("pipeline "+p.name+" is stopped", errors.ErrPipelineStopped, "")
	}
	p.seq++
	seq := p.seq
	// The send happens under the lock so the sequence order and the
	// channel order can never diverge between concurrent producers.
	p.ch <- entry[T]{seq: seq, item: item}
	p.mu.Unlock()
	return seq, nil
}

// Stop rejects further publishes, drains the buffer and waits for the
// dispatch goroutine to finish.
func (p *Pipeline[T]) Stop() {
	p.mu.Lock()
	if !p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.ch)
	p.mu.Unlock()

	p.wg.Wait()
	p.log.Info("pipeline stopped", logger.Field{Key: "pipeline", Value: p.name})
}

// Seed raises the sequence floor so publishes continue after a recovered
// watermark instead of reusing journaled sequence numbers. Must be called
// before Start.
func (p *Pipeline[T]) Seed(seq uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if seq > p.seq {
		p.seq = seq
	}
}

// Sequence returns the last assigned sequence number.
func (p *Pipeline[T]) Sequence() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seq
}

func (p *Pipeline[T]) dispatch() {
	defer p.wg.Done()
	for e := range p.ch {
		for _, c := range p.consumers {
			c.OnNext(e.seq, e.item)
		}
	}
}
