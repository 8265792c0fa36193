package depth

import (
	orderbookv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/orderbook/v1"
)

// DefaultLevels is the number of aggregated levels kept per side.
const DefaultLevels = 5

// Book maintains the fixed-size aggregated view of one limit order book.
// It implements the book listener interface and recomputes its levels from
// the snapshot carried by every book change, so the view can never drift
// from the authoritative state. Like the book itself, it is owned by the
// matching goroutine and takes no locks.
type Book struct {
	pair      orderbookv1.CurrencyPair
	levels    int
	listeners []orderbookv1.DepthListener

	current orderbookv1.Depth
	bbo     orderbookv1.Bbo
}

// NewBook creates a depth view with the given number of levels per side.
// Non-positive levels fall back to DefaultLevels.
func NewBook(pair orderbookv1.CurrencyPair, levels int) *Book {
	if levels <= 0 {
		levels = DefaultLevels
	}
	b := &Book{pair: pair, levels: levels}
	b.current = orderbookv1.Depth{
		Pair: pair,
		Bids: emptyLevels(levels),
		Asks: emptyLevels(levels),
	}
	b.bbo = orderbookv1.Bbo{Pair: pair}
	return b
}

// Subscribe registers a listener for depth and top-of-book changes.
func (b *Book) Subscribe(l orderbookv1.DepthListener) {
	b.listeners = append(b.listeners, l)
}

// Depth returns the current fixed-size view. Levels beyond the populated
// ones are empty, never omitted.
func (b *Book) Depth() orderbookv1.Depth {
	return b.current
}

// Bbo returns the current best bid and offer.
func (b *Book) Bbo() orderbookv1.Bbo {
	return b.bbo
}

// OnOrderBookChanged recomputes the view from the snapshot and notifies
// listeners about what actually changed.
func (b *Book) OnOrderBookChanged(snapshot orderbookv1.BookSnapshot) {
	next := orderbookv1.Depth{
		Pair: b.pair,
		Bids: clamp(snapshot.Bids, b.levels),
		Asks: clamp(snapshot.Asks, b.levels),
	}
	if next.Equal(b.current) {
		return
	}
	b.current = next
	b.emitDepthChanged(next)

	nextBbo := orderbookv1.Bbo{
		Pair:    b.pair,
		BestBid: next.Bids[0],
		BestAsk: next.Asks[0],
	}
	if !nextBbo.Equal(b.bbo) {
		b.bbo = nextBbo
		b.emitBboChanged(nextBbo)
	}
}

// The remaining book callbacks carry no information the snapshot in
// OnOrderBookChanged does not already provide.

func (b *Book) OnOrderAccepted(orderbookv1.Order, orderbookv1.Price, orderbookv1.Volume) {}

func (b *Book) OnOrderFilled(_, _ orderbookv1.Order, _ orderbookv1.FillFlags, _ orderbookv1.Price, _ orderbookv1.Volume) {
}

func (b *Book) OnOrderCancelled(orderbookv1.Order) {}

func (b *Book) OnOrderChanged(orderbookv1.Order) {}

func (b *Book) OnTradeExecuted(orderbookv1.Trade) {}

func (b *Book) emitDepthChanged(d orderbookv1.Depth) {
	for _, l := range b.listeners {
		l.OnDepthChanged(d)
	}
}

func (b *Book) emitBboChanged(bbo orderbookv1.Bbo) {
	for _, l := range b.listeners {
		l.OnBboChanged(bbo)
	}
}

// clamp cuts the per-price levels down to size and pads the tail with
// empty levels so consumers always see a fixed-size array.
func clamp(levels []orderbookv1.DepthLevel, size int) []orderbookv1.DepthLevel {
	out := make([]orderbookv1.DepthLevel, size)
	copy(out, levels)
	return out
}

func emptyLevels(size int) []orderbookv1.DepthLevel {
	return make([]orderbookv1.DepthLevel, size)
}
