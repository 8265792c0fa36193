package marketdata

import (
	"sync"

	orderbookv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/orderbook/v1"
)

// defaultTradeHistory bounds the per-pair recent trade list.
const defaultTradeHistory = 100

// Projector folds the output event stream into query-side state: latest
// book snapshot, depth, top of book and recent trades per pair. It is an
// output pipeline consumer; reads come from HTTP handler goroutines, so
// this is the one place in the core that takes a lock.
type Projector struct {
	mu        sync.RWMutex
	books     map[orderbookv1.CurrencyPair]orderbookv1.BookSnapshot
	depths    map[orderbookv1.CurrencyPair]orderbookv1.Depth
	bbos      map[orderbookv1.CurrencyPair]orderbookv1.Bbo
	trades    map[orderbookv1.CurrencyPair][]orderbookv1.Trade
	tradeSize int
}

// NewProjector creates an empty read model. tradeHistory bounds the recent
// trade list per pair; non-positive values fall back to the default.
func NewProjector(tradeHistory int) *Projector {
	if tradeHistory <= 0 {
		tradeHistory = defaultTradeHistory
	}
	return &Projector{
		books:     make(map[orderbookv1.CurrencyPair]orderbookv1.BookSnapshot),
		depths:    make(map[orderbookv1.CurrencyPair]orderbookv1.Depth),
		bbos:      make(map[orderbookv1.CurrencyPair]orderbookv1.Bbo),
		trades:    make(map[orderbookv1.CurrencyPair][]orderbookv1.Trade),
		tradeSize: tradeHistory,
	}
}

// OnNext implements the output pipeline consumer.
func (p *Projector) OnNext(_ uint64, event orderbookv1.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch event.Type {
	case orderbookv1.EventOrderBookChanged:
		if event.Book != nil {
			p.books[event.Pair] = *event.Book
		}
	case orderbookv1.EventDepthChanged:
		if event.Depth != nil {
			p.depths[event.Pair] = *event.Depth
		}
	case orderbookv1.EventBboChanged:
		if event.Bbo != nil {
			p.bbos[event.Pair] = *event.Bbo
		}
	case orderbookv1.EventTradeExecuted:
		if event.Trade != nil {
			list := append(p.trades[event.Pair], *event.Trade)
			if len(list) > p.tradeSize {
				list = list[len(list)-p.tradeSize:]
			}
			p.trades[event.Pair] = list
		}
	}
}

// Book returns the latest full snapshot for a pair.
func (p *Projector) Book(pair orderbookv1.CurrencyPair) (orderbookv1.BookSnapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	snap, ok := p.books[pair]
	return snap, ok
}

// Depth returns the latest fixed-size depth for a pair.
func (p *Projector) Depth(pair orderbookv1.CurrencyPair) (orderbookv1.Depth, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	d, ok := p.depths[pair]
	return d, ok
}

// Bbo returns the latest top of book for a pair.
func (p *Projector) Bbo(pair orderbookv1.CurrencyPair) (orderbookv1.Bbo, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	b, ok := p.bbos[pair]
	return b, ok
}

// Trades returns the recent trades for a pair, newest last.
func (p *Projector) Trades(pair orderbookv1.CurrencyPair) []orderbookv1.Trade {
	p.mu.RLock()
	defer p.mu.RUnlock()
	list := p.trades[pair]
	out := make([]orderbookv1.Trade, len(list))
	copy(out, list)
	return out
}
