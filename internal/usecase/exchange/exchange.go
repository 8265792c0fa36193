package exchange

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	orderbookv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/orderbook/v1"
	"github.com/52tanbivv/coin-exchange-backend/internal/usecase/depth"
	"github.com/52tanbivv/coin-exchange-backend/internal/usecase/orderbook"
	"github.com/52tanbivv/coin-exchange-backend/pkg/logger"
)

// EventSink receives every event the exchange emits, in emission order,
// on the matching goroutine. Sinks must hand off quickly, typically to the
// output pipeline.
type EventSink func(orderbookv1.Event)

// Config controls which instruments the exchange trades.
type Config struct {
	// Pairs are created eagerly at construction.
	Pairs []orderbookv1.CurrencyPair
	// DepthLevels is the per-side size of the aggregated view.
	DepthLevels int
	// CreateMissing makes the exchange open a book on first reference to
	// an unknown pair instead of rejecting the order.
	CreateMissing bool
}

type instrument struct {
	book  *orderbook.Book
	depth *depth.Book
}

// Exchange owns one limit order book and one depth view per currency pair
// and is the sole consumer of the input pipeline. All mutations are
// serialized through OnNext, which is the cornerstone of correctness: no
// lock guards the books because only one goroutine ever touches them.
type Exchange struct {
	cfg         Config
	instruments map[orderbookv1.CurrencyPair]*instrument
	sink        EventSink
	log         logger.Interface

	entropy  *ulid.MonotonicEntropy
	inputSeq uint64
	eventSeq uint64
}

// New creates an exchange with a book per configured pair.
func New(cfg Config, sink EventSink, log logger.Interface) *Exchange {
	e := &Exchange{
		cfg:         cfg,
		instruments: make(map[orderbookv1.CurrencyPair]*instrument),
		sink:        sink,
		log:         log,
		entropy:     ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
	for _, pair := range cfg.Pairs {
		e.open(pair)
	}
	return e
}

func (e *Exchange) open(pair orderbookv1.CurrencyPair) *instrument {
	book := orderbook.NewBook(pair, e.log)
	view := depth.NewBook(pair, e.cfg.DepthLevels)
	book.Subscribe(e)
	book.Subscribe(view)
	view.Subscribe(e)
	inst := &instrument{book: book, depth: view}
	e.instruments[pair] = inst
	return inst
}

// OnNext dispatches one sequenced input payload to the right book. It is
// the input pipeline consumer entry point.
func (e *Exchange) OnNext(sequence uint64, payload orderbookv1.InputPayload) {
	e.inputSeq = sequence
	switch payload.Kind {
	case orderbookv1.PayloadOrder:
		if payload.Order == nil {
			return
		}
		// Rest a private copy so the published payload stays the value
		// snapshot it was at publish time; matching mutates the copy.
		o := payload.Order.Snapshot()
		e.addOrder(&o)
	case orderbookv1.PayloadCancel:
		if payload.Cancel == nil {
			return
		}
		e.cancelOrder(payload.Cancel)
	default:
		e.log.Warn("dropping input payload of unknown kind",
			logger.Field{Key: "kind", Value: payload.Kind},
			logger.Field{Key: "sequence", Value: sequence},
		)
	}
}

func (e *Exchange) addOrder(o *orderbookv1.Order) {
	inst, ok := e.instruments[o.Pair]
	if !ok {
		if !e.cfg.CreateMissing {
			o.State = orderbookv1.OrderStateRejected
			e.log.Warn("order for unknown pair rejected",
				logger.Field{Key: "pair", Value: o.Pair},
				logger.Field{Key: "orderId", Value: o.ID},
			)
			e.OnOrderChanged(o.Snapshot())
			return
		}
		inst = e.open(o.Pair)
	}
	inst.book.AddOrder(o)
}

func (e *Exchange) cancelOrder(c *orderbookv1.CancelRequest) {
	inst, ok := e.instruments[c.Pair]
	if !ok {
		return
	}
	inst.book.CancelOrder(c.OrderID)
}

// Book returns the authoritative book for a pair, or nil. Only the
// matching goroutine may call the returned book's mutating methods.
func (e *Exchange) Book(pair orderbookv1.CurrencyPair) *orderbook.Book {
	if inst, ok := e.instruments[pair]; ok {
		return inst.book
	}
	return nil
}

// Depth returns the aggregated view for a pair, or nil.
func (e *Exchange) Depth(pair orderbookv1.CurrencyPair) *depth.Book {
	if inst, ok := e.instruments[pair]; ok {
		return inst.depth
	}
	return nil
}

// Pairs returns every instrument currently open.
func (e *Exchange) Pairs() []orderbookv1.CurrencyPair {
	pairs := make([]orderbookv1.CurrencyPair, 0, len(e.instruments))
	for pair := range e.instruments {
		pairs = append(pairs, pair)
	}
	return pairs
}

// LastInputSequence returns the sequence of the last processed payload.
func (e *Exchange) LastInputSequence() uint64 {
	return e.inputSeq
}

// States captures a durable snapshot of every book, stamped with the last
// applied input sequence. Must run on the matching goroutine.
func (e *Exchange) States() []orderbookv1.BookState {
	states := make([]orderbookv1.BookState, 0, len(e.instruments))
	for _, inst := range e.instruments {
		states = append(states, inst.book.State(e.inputSeq))
	}
	return states
}

// RestoreState reloads one book from a snapshot, opening the pair first
// when needed.
func (e *Exchange) RestoreState(state orderbookv1.BookState) {
	inst, ok := e.instruments[state.Pair]
	if !ok {
		inst = e.open(state.Pair)
	}
	inst.book.Restore(state)
	if state.InputSequence > e.inputSeq {
		e.inputSeq = state.InputSequence
	}
}

func (e *Exchange) nextEvent(t orderbookv1.EventType, pair orderbookv1.CurrencyPair) orderbookv1.Event {
	e.eventSeq++
	now := time.Now()
	return orderbookv1.Event{
		ID:        ulid.MustNew(ulid.Timestamp(now), e.entropy).String(),
		Sequence:  e.eventSeq,
		Type:      t,
		Pair:      pair,
		Timestamp: now,
	}
}

func (e *Exchange) publish(ev orderbookv1.Event) {
	if e.sink != nil {
		e.sink(ev)
	}
}

// OnOrderAccepted implements the book listener, translating the callback
// into an output event.
func (e *Exchange) OnOrderAccepted(o orderbookv1.Order, price orderbookv1.Price, volume orderbookv1.Volume) {
	ev := e.nextEvent(orderbookv1.EventOrderAccepted, o.Pair)
	ev.Order = &o
	ev.Price = price
	ev.Volume = volume
	e.publish(ev)
}

// OnOrderFilled implements the book listener.
func (e *Exchange) OnOrderFilled(inbound, matched orderbookv1.Order, flags orderbookv1.FillFlags, price orderbookv1.Price, volume orderbookv1.Volume) {
	ev := e.nextEvent(orderbookv1.EventOrderFilled, inbound.Pair)
	ev.Order = &inbound
	ev.Matched = &matched
	ev.Flags = flags
	ev.Price = price
	ev.Volume = volume
	e.publish(ev)
}

// OnOrderCancelled implements the book listener.
func (e *Exchange) OnOrderCancelled(o orderbookv1.Order) {
	ev := e.nextEvent(orderbookv1.EventOrderCancelled, o.Pair)
	ev.Order = &o
	e.publish(ev)
}

// OnOrderChanged implements the book listener.
func (e *Exchange) OnOrderChanged(o orderbookv1.Order) {
	ev := e.nextEvent(orderbookv1.EventOrderChanged, o.Pair)
	ev.Order = &o
	e.publish(ev)
}

// OnOrderBookChanged implements the book listener.
func (e *Exchange) OnOrderBookChanged(snapshot orderbookv1.BookSnapshot) {
	ev := e.nextEvent(orderbookv1.EventOrderBookChanged, snapshot.Pair)
	ev.Book = &snapshot
	e.publish(ev)
}

// OnTradeExecuted implements the book listener.
func (e *Exchange) OnTradeExecuted(t orderbookv1.Trade) {
	ev := e.nextEvent(orderbookv1.EventTradeExecuted, t.Pair)
	ev.Trade = &t
	e.publish(ev)
}

// OnDepthChanged implements the depth listener.
func (e *Exchange) OnDepthChanged(d orderbookv1.Depth) {
	ev := e.nextEvent(orderbookv1.EventDepthChanged, d.Pair)
	ev.Depth = &d
	e.publish(ev)
}

// OnBboChanged implements the depth listener.
func (e *Exchange) OnBboChanged(b orderbookv1.Bbo) {
	ev := e.nextEvent(orderbookv1.EventBboChanged, b.Pair)
	ev.Bbo = &b
	e.publish(ev)
}
