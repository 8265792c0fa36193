package orderbook

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	orderbookv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/orderbook/v1"
	"github.com/52tanbivv/coin-exchange-backend/pkg/logger"
)

// Book is the authoritative limit order book for one currency pair. It is
// owned by the single matching goroutine: no method is safe for concurrent
// use and none takes a lock. All external visibility happens through the
// registered listeners, which are invoked synchronously with value
// snapshots.
type Book struct {
	pair      orderbookv1.CurrencyPair
	bids      *orderbookv1.OrderList
	asks      *orderbookv1.OrderList
	listeners []orderbookv1.BookListener
	entropy   *ulid.MonotonicEntropy
	log       logger.Interface
}

// NewBook creates an empty book for the given pair.
func NewBook(pair orderbookv1.CurrencyPair, log logger.Interface) *Book {
	return &Book{
		pair:    pair,
		bids:    orderbookv1.NewOrderList(orderbookv1.SideBuy),
		asks:    orderbookv1.NewOrderList(orderbookv1.SideSell),
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		log:     log,
	}
}

// Pair returns the instrument this book trades.
func (b *Book) Pair() orderbookv1.CurrencyPair {
	return b.pair
}

// Subscribe registers a listener for every event the book raises.
func (b *Book) Subscribe(l orderbookv1.BookListener) {
	b.listeners = append(b.listeners, l)
}

// AddOrder validates the order and runs it through matching. Invalid
// orders transition to rejected, raise OrderChanged and never touch the
// book. The return value reports whether any crossing occurred.
func (b *Book) AddOrder(o *orderbookv1.Order) bool {
	if details := o.Validate(); details != nil {
		o.State = orderbookv1.OrderStateRejected
		b.log.Warn("order rejected",
			logger.Field{Key: "pair", Value: b.pair},
			logger.Field{Key: "orderId", Value: o.ID},
			logger.Field{Key: "reason", Value: details.Message},
		)
		b.emitOrderChanged(o.Snapshot())
		return false
	}

	var crossed bool
	if o.Side == orderbookv1.SideBuy {
		crossed = b.match(o, b.asks, b.bids)
	} else {
		crossed = b.match(o, b.bids, b.asks)
	}
	b.assertUncrossed()
	return crossed
}

// CancelOrder removes the resting order with the given id. Cancelling an
// unknown or already-terminal id is a benign no-op reported as false.
func (b *Book) CancelOrder(id orderbookv1.OrderID) bool {
	o := b.asks.Remove(id)
	if o == nil {
		o = b.bids.Remove(id)
	}
	if o == nil {
		return false
	}
	o.State = orderbookv1.OrderStateCancelled
	b.emitOrderCancelled(o.Snapshot())
	b.emitOrderChanged(o.Snapshot())
	b.emitOrderBookChanged()
	b.assertUncrossed()
	return true
}

// match walks the opposite side in priority order, executing against every
// candidate the inbound order crosses. Fully filled candidates are removed
// after the walk so the list is never mutated while iterated.
func (b *Book) match(inbound *orderbookv1.Order, opposite, own *orderbookv1.OrderList) bool {
	var (
		accepted    bool
		crossed     bool
		bookChanged bool
		done        []orderbookv1.OrderID
	)

	for i := 0; i < opposite.Len(); i++ {
		candidate := opposite.At(i)
		if !b.crosses(inbound, candidate) {
			// The list is price-sorted, no deeper candidate can match.
			break
		}

		price := candidate.Price
		if inbound.IsMarket() && candidate.Price.IsZero() {
			// Two market orders meet: there is no resting counter-price
			// to inherit, the execution carries the zero sentinel.
			price = inbound.Price
		}
		quantity := inbound.OpenQuantity.Min(candidate.OpenQuantity)

		if !accepted {
			accepted = true
			inbound.State = orderbookv1.OrderStateAccepted
			b.emitOrderAccepted(inbound.Snapshot(), price, quantity)
		}

		inbound.Fill(quantity)
		candidate.Fill(quantity)
		crossed = true
		// Resting quantity changed even when the candidate survives.
		bookChanged = true

		flags := fillFlags(inbound, candidate)
		b.emitOrderFilled(inbound.Snapshot(), candidate.Snapshot(), flags, price, quantity)
		b.emitTradeExecuted(b.newTrade(price, quantity, inbound, candidate))

		if candidate.IsFilled() {
			done = append(done, candidate.ID)
			bookChanged = true
		}
		if inbound.IsFilled() {
			break
		}
	}

	for _, id := range done {
		opposite.Remove(id)
	}

	if !inbound.IsFilled() {
		if !accepted {
			inbound.State = orderbookv1.OrderStateAccepted
			b.emitOrderAccepted(inbound.Snapshot(), orderbookv1.ZeroPrice(), orderbookv1.ZeroVolume())
		}
		own.Add(inbound)
		bookChanged = true
	}

	if bookChanged {
		b.emitOrderBookChanged()
	}
	return crossed
}

// crosses reports whether the inbound order may trade against the
// candidate. Market orders always take the current best candidate. A
// resting market residual (zero price sentinel) names no price, so only
// another market order can take it.
func (b *Book) crosses(inbound, candidate *orderbookv1.Order) bool {
	if inbound.IsMarket() {
		return true
	}
	if candidate.Price.IsZero() {
		return false
	}
	if inbound.Side == orderbookv1.SideBuy {
		return inbound.Price.Cmp(candidate.Price) >= 0
	}
	return inbound.Price.Cmp(candidate.Price) <= 0
}

func fillFlags(inbound, matched *orderbookv1.Order) orderbookv1.FillFlags {
	switch {
	case inbound.IsFilled() && matched.IsFilled():
		return orderbookv1.BothFilled
	case inbound.IsFilled():
		return orderbookv1.InboundFilled
	case matched.IsFilled():
		return orderbookv1.MatchedFilled
	default:
		return orderbookv1.NeitherFilled
	}
}

func (b *Book) newTrade(
	price orderbookv1.Price,
	quantity orderbookv1.Volume,
	inbound, matched *orderbookv1.Order,
) orderbookv1.Trade {
	buy, sell := inbound, matched
	if inbound.Side == orderbookv1.SideSell {
		buy, sell = matched, inbound
	}
	now := time.Now()
	id := ulid.MustNew(ulid.Timestamp(now), b.entropy).String()
	return orderbookv1.NewTrade(id, b.pair, price, quantity, buy.Snapshot(), sell.Snapshot(), now)
}

// assertUncrossed panics when the best bid meets or exceeds the best ask.
// A crossed book after an operation completed means matching is broken and
// continuing would corrupt every downstream view. Resting market orders
// carry the zero price sentinel and are excluded from the comparison.
func (b *Book) assertUncrossed() {
	bestBid, bestAsk := b.bids.Best(), b.asks.Best()
	if bestBid == nil || bestAsk == nil {
		return
	}
	if bestBid.Price.IsZero() || bestAsk.Price.IsZero() {
		return
	}
	if bestBid.Price.Cmp(bestAsk.Price) >= 0 {
		panic(fmt.Sprintf(
			"book %s crossed: best bid %s >= best ask %s",
			b.pair, bestBid.Price, bestAsk.Price,
		))
	}
}

// BidCount returns the number of resting bids.
func (b *Book) BidCount() int { return b.bids.Len() }

// AskCount returns the number of resting asks.
func (b *Book) AskCount() int { return b.asks.Len() }

// BestBid returns a snapshot of the highest-priority bid, or nil.
func (b *Book) BestBid() *orderbookv1.Order {
	if o := b.bids.Best(); o != nil {
		snap := o.Snapshot()
		return &snap
	}
	return nil
}

// BestAsk returns a snapshot of the highest-priority ask, or nil.
func (b *Book) BestAsk() *orderbookv1.Order {
	if o := b.asks.Best(); o != nil {
		snap := o.Snapshot()
		return &snap
	}
	return nil
}

// Snapshot aggregates the book into per-price levels for derived views.
func (b *Book) Snapshot() orderbookv1.BookSnapshot {
	return orderbookv1.BookSnapshot{
		Pair: b.pair,
		Bids: b.bids.Levels(),
		Asks: b.asks.Levels(),
	}
}

// State captures every resting order for durable snapshots. inputSequence
// records the last input applied to the book.
func (b *Book) State(inputSequence uint64) orderbookv1.BookState {
	state := orderbookv1.BookState{
		Pair:          b.pair,
		InputSequence: inputSequence,
		TakenAt:       time.Now().UnixNano(),
	}
	for _, o := range b.bids.Orders() {
		state.Bids = append(state.Bids, o.Snapshot())
	}
	for _, o := range b.asks.Orders() {
		state.Asks = append(state.Asks, o.Snapshot())
	}
	return state
}

// Restore replaces the book content with a previously captured state. The
// stored sides are in priority order, so re-adding preserves time priority
// within each price level.
func (b *Book) Restore(state orderbookv1.BookState) {
	b.bids = orderbookv1.NewOrderList(orderbookv1.SideBuy)
	b.asks = orderbookv1.NewOrderList(orderbookv1.SideSell)
	for i := range state.Bids {
		o := state.Bids[i]
		b.bids.Add(&o)
	}
	for i := range state.Asks {
		o := state.Asks[i]
		b.asks.Add(&o)
	}
	b.assertUncrossed()
}

func (b *Book) emitOrderAccepted(o orderbookv1.Order, price orderbookv1.Price, volume orderbookv1.Volume) {
	for _, l := range b.listeners {
		l.OnOrderAccepted(o, price, volume)
	}
}

func (b *Book) emitOrderFilled(inbound, matched orderbookv1.Order, flags orderbookv1.FillFlags, price orderbookv1.Price, volume orderbookv1.Volume) {
	for _, l := range b.listeners {
		l.OnOrderFilled(inbound, matched, flags, price, volume)
	}
}

func (b *Book) emitOrderCancelled(o orderbookv1.Order) {
	for _, l := range b.listeners {
		l.OnOrderCancelled(o)
	}
}

func (b *Book) emitOrderChanged(o orderbookv1.Order) {
	for _, l := range b.listeners {
		l.OnOrderChanged(o)
	}
}

func (b *Book) emitOrderBookChanged() {
	snapshot := b.Snapshot()
	for _, l := range b.listeners {
		l.OnOrderBookChanged(snapshot)
	}
}

func (b *Book) emitTradeExecuted(t orderbookv1.Trade) {
	for _, l := range b.listeners {
		l.OnTradeExecuted(t)
	}
}
