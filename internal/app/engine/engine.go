package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	journalv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/journal/v1"
	orderbookv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/orderbook/v1"
	eventpublisher "github.com/52tanbivv/coin-exchange-backend/internal/usecase/event-publisher"
	"github.com/52tanbivv/coin-exchange-backend/internal/usecase/exchange"
	"github.com/52tanbivv/coin-exchange-backend/internal/usecase/journal"
	"github.com/52tanbivv/coin-exchange-backend/internal/usecase/marketdata"
	orderreader "github.com/52tanbivv/coin-exchange-backend/internal/usecase/order-reader"
	"github.com/52tanbivv/coin-exchange-backend/internal/usecase/pipeline"
	"github.com/52tanbivv/coin-exchange-backend/internal/usecase/snapshot"
	"github.com/52tanbivv/coin-exchange-backend/pkg/logger"
)

// Config sizes the engine's pipelines and background work.
type Config struct {
	Pairs            []orderbookv1.CurrencyPair
	DepthLevels      int
	CreateMissing    bool
	InputBuffer      int
	OutputBuffer     int
	SnapshotInterval time.Duration
	TradeHistory     int
}

// Deps are the engine's external collaborators. InputStore, EventStore and
// Logger are required; the rest are optional and simply not wired when
// nil.
type Deps struct {
	Logger     logger.Interface
	InputStore journalv1.InputStore
	EventStore journalv1.Store
	Snapshots  *snapshot.Store
	Reader     *orderreader.Reader
	Publisher  *eventpublisher.Publisher
}

// Engine wires the matching core together: the input pipeline feeding the
// exchange and the input journaler, the output pipeline feeding the event
// journaler, the read-model projector, metrics and the optional Kafka
// publisher. It owns recovery on start and graceful drain on stop.
type Engine struct {
	cfg  Config
	deps Deps
	log  logger.Interface

	exchange  *exchange.Exchange
	input     *pipeline.Pipeline[orderbookv1.InputPayload]
	output    *pipeline.Pipeline[orderbookv1.Event]
	projector *marketdata.Projector
	metrics   *Metrics

	snapshotWanted atomic.Bool
	snapshotQueue  chan []orderbookv1.BookState

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a stopped engine. Call Start to recover state and begin
// consuming.
func New(cfg Config, deps Deps) *Engine {
	e := &Engine{
		cfg:           cfg,
		deps:          deps,
		log:           deps.Logger,
		metrics:       NewMetrics(),
		projector:     marketdata.NewProjector(cfg.TradeHistory),
		snapshotQueue: make(chan []orderbookv1.BookState, 1),
	}

	e.output = pipeline.New[orderbookv1.Event]("output", cfg.OutputBuffer, deps.Logger)
	e.exchange = exchange.New(exchange.Config{
		Pairs:         cfg.Pairs,
		DepthLevels:   cfg.DepthLevels,
		CreateMissing: cfg.CreateMissing,
	}, e.emit, deps.Logger)

	e.input = pipeline.New[orderbookv1.InputPayload]("input", cfg.InputBuffer, deps.Logger)
	e.input.Register(pipeline.ConsumerFunc[orderbookv1.InputPayload](e.metrics.ObserveInput))
	e.input.Register(journal.NewInputJournaler(deps.InputStore, deps.Logger, e.metrics.JournalFailure))
	e.input.Register(e.exchange)
	e.input.Register(pipeline.ConsumerFunc[orderbookv1.InputPayload](e.maybeCaptureSnapshot))

	e.output.Register(pipeline.ConsumerFunc[orderbookv1.Event](e.metrics.ObserveEvent))
	e.output.Register(journal.NewEventJournaler(deps.EventStore, deps.Logger, e.metrics.JournalFailure))
	e.output.Register(e.projector)
	if deps.Publisher != nil {
		e.output.Register(deps.Publisher)
	}

	return e
}

// Projector exposes the read model for the query API.
func (e *Engine) Projector() *marketdata.Projector {
	return e.projector
}

// Metrics exposes the engine's instrumentation.
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// Publish hands one payload to the input pipeline. It is the entry point
// for in-process producers and tests; the Kafka reader uses it too.
func (e *Engine) Publish(payload orderbookv1.InputPayload) (uint64, error) {
	return e.input.Publish(payload)
}

// Exchange exposes the matching core. Mutating calls are only safe while
// the engine is stopped.
func (e *Engine) Exchange() *exchange.Exchange {
	return e.exchange
}

// Start recovers book state from snapshots and the input journal, then
// starts the pipelines and background goroutines.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	watermark, err := e.recover(e.ctx)
	if err != nil {
		return err
	}
	e.input.Seed(watermark)

	e.output.Start()
	e.input.Start()

	if e.deps.Snapshots != nil && e.cfg.SnapshotInterval > 0 {
		e.wg.Add(2)
		go e.runSnapshotTicker()
		go e.runSnapshotWriter()
	}

	if e.deps.Reader != nil {
		e.wg.Add(1)
		go e.runOrderReader()
	}

	e.log.Info("engine started",
		logger.Field{Key: "pairs", Value: e.cfg.Pairs},
		logger.Field{Key: "recoveredSequence", Value: watermark},
	)
	return nil
}

// Stop drains both pipelines, takes a final snapshot and waits for the
// background goroutines, honoring the context deadline.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}
	if e.deps.Reader != nil {
		_ = e.deps.Reader.Close()
	}

	e.input.Stop()
	e.output.Stop()

	// The pipelines are drained, nothing mutates the books anymore.
	if e.deps.Snapshots != nil {
		e.saveStates(ctx, e.exchange.States())
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		e.log.Info("engine stopped")
		return nil
	case <-ctx.Done():
		e.log.Warn("engine stop timed out")
		return ctx.Err()
	}
}

// recover restores books from the snapshot set and replays journaled
// inputs past its watermark. Snapshots are only usable as a set: every
// configured pair must have one and all must record the same input
// sequence, otherwise the books they describe come from different points
// of the input stream. An incomplete or mixed set is discarded and the
// whole journal replays from the start.
func (e *Engine) recover(ctx context.Context) (uint64, error) {
	var watermark uint64
	if e.deps.Snapshots != nil && len(e.cfg.Pairs) > 0 {
		states := make([]orderbookv1.BookState, 0, len(e.cfg.Pairs))
		consistent := true
		for _, pair := range e.cfg.Pairs {
			state, ok, err := e.deps.Snapshots.Load(ctx, pair)
			if err != nil {
				return 0, err
			}
			if !ok {
				consistent = false
				continue
			}
			if len(states) > 0 && state.InputSequence != states[0].InputSequence {
				consistent = false
			}
			states = append(states, state)
		}
		switch {
		case consistent && len(states) > 0:
			for _, state := range states {
				e.exchange.RestoreState(state)
			}
			watermark = states[0].InputSequence
		case len(states) > 0:
			e.log.Warn("discarding inconsistent snapshot set, replaying full journal",
				logger.Field{Key: "snapshots", Value: len(states)},
				logger.Field{Key: "pairs", Value: len(e.cfg.Pairs)},
			)
		}
	}

	replayer := journal.NewReplayer(e.deps.InputStore, e.log)
	if _, err := replayer.Replay(ctx, watermark, e.exchange); err != nil {
		return 0, err
	}
	if last := e.exchange.LastInputSequence(); last > watermark {
		watermark = last
	}
	return watermark, nil
}

// emit is the exchange's event sink. It runs on the matching goroutine
// and must only hand off.
func (e *Engine) emit(event orderbookv1.Event) {
	if _, err := e.output.Publish(event); err != nil {
		// Only possible during shutdown drain.
		e.log.Warn("dropping event after output pipeline stop",
			logger.Field{Key: "eventId", Value: event.ID},
			logger.Field{Key: "eventType", Value: event.Type},
		)
	}
}

// maybeCaptureSnapshot runs after the exchange consumer on the input
// pipeline, so capturing here observes a book state no other goroutine is
// mutating. The actual write happens on the snapshot writer goroutine.
func (e *Engine) maybeCaptureSnapshot(uint64, orderbookv1.InputPayload) {
	if !e.snapshotWanted.CompareAndSwap(true, false) {
		return
	}
	select {
	case e.snapshotQueue <- e.exchange.States():
	default:
		// Writer is behind, try again on a later payload.
		e.snapshotWanted.Store(true)
	}
}

func (e *Engine) runSnapshotTicker() {
	defer e.wg.Done()
	ticker := time.NewTicker(e.cfg.SnapshotInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			e.snapshotWanted.Store(true)
		case <-e.ctx.Done():
			return
		}
	}
}

func (e *Engine) runSnapshotWriter() {
	defer e.wg.Done()
	for {
		select {
		case states := <-e.snapshotQueue:
			e.saveStates(e.ctx, states)
		case <-e.ctx.Done():
			return
		}
	}
}

func (e *Engine) saveStates(ctx context.Context, states []orderbookv1.BookState) {
	for _, state := range states {
		if err := e.deps.Snapshots.Save(ctx, state); err != nil {
			e.log.Error(err,
				logger.Field{Key: "op", Value: "save_snapshot"},
				logger.Field{Key: "pair", Value: state.Pair},
			)
		}
	}
}

func (e *Engine) runOrderReader() {
	defer e.wg.Done()
	if err := e.deps.Reader.Run(e.ctx, e.input.Publish); err != nil && e.ctx.Err() == nil {
		e.log.Error(err, logger.Field{Key: "op", Value: "order_reader"})
	}
}
