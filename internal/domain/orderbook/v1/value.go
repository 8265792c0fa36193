package orderbookv1

import (
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyPair identifies a traded instrument, e.g. "BTC-USD".
type CurrencyPair string

// OrderID identifies an order. IDs are never reused within a running instance.
type OrderID int64

// TraderID identifies the trader who owns an order.
type TraderID int64

// Side represents the side of an order.
type Side string

const (
	// SideBuy represents a buy (bid) order.
	SideBuy Side = "buy"
	// SideSell represents a sell (ask) order.
	SideSell Side = "sell"
)

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// OrderType represents the type of an order.
type OrderType string

const (
	// OrderTypeLimit represents a limit order.
	OrderTypeLimit OrderType = "limit"
	// OrderTypeMarket represents a market order. Market orders carry a
	// zero price sentinel.
	OrderTypeMarket OrderType = "market"
)

// Price is an immutable decimal-backed price. Equality and ordering use the
// decimal value, never identity. The zero value is the market-order sentinel.
type Price struct {
	dec decimal.Decimal
}

// NewPrice wraps a decimal as a Price.
func NewPrice(d decimal.Decimal) Price {
	return Price{dec: d}
}

// PriceFromString parses a decimal string into a Price.
func PriceFromString(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, err
	}
	return Price{dec: d}, nil
}

// PriceFromInt builds a Price from an integer number of quote units.
func PriceFromInt(v int64) Price {
	return Price{dec: decimal.NewFromInt(v)}
}

// ZeroPrice returns the zero-price sentinel used by market orders.
func ZeroPrice() Price {
	return Price{}
}

// Decimal returns the underlying decimal value.
func (p Price) Decimal() decimal.Decimal { return p.dec }

// IsZero reports whether the price is the zero sentinel.
func (p Price) IsZero() bool { return p.dec.IsZero() }

// IsPositive reports whether the price is strictly positive.
func (p Price) IsPositive() bool { return p.dec.IsPositive() }

// Cmp compares two prices: -1 if p < other, 0 if equal, +1 if p > other.
func (p Price) Cmp(other Price) int { return p.dec.Cmp(other.dec) }

// Equal reports whether two prices have the same decimal value.
func (p Price) Equal(other Price) bool { return p.dec.Equal(other.dec) }

// LessThan reports whether p < other.
func (p Price) LessThan(other Price) bool { return p.dec.LessThan(other.dec) }

// GreaterThan reports whether p > other.
func (p Price) GreaterThan(other Price) bool { return p.dec.GreaterThan(other.dec) }

func (p Price) String() string { return p.dec.String() }

// MarshalJSON implements json.Marshaler.
func (p Price) MarshalJSON() ([]byte, error) { return p.dec.MarshalJSON() }

// UnmarshalJSON implements json.Unmarshaler.
func (p *Price) UnmarshalJSON(data []byte) error { return p.dec.UnmarshalJSON(data) }

// Volume is an immutable decimal-backed quantity.
type Volume struct {
	dec decimal.Decimal
}

// NewVolume wraps a decimal as a Volume.
func NewVolume(d decimal.Decimal) Volume {
	return Volume{dec: d}
}

// VolumeFromString parses a decimal string into a Volume.
func VolumeFromString(s string) (Volume, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Volume{}, err
	}
	return Volume{dec: d}, nil
}

// VolumeFromInt builds a Volume from an integer number of base units.
func VolumeFromInt(v int64) Volume {
	return Volume{dec: decimal.NewFromInt(v)}
}

// ZeroVolume returns the zero quantity.
func ZeroVolume() Volume {
	return Volume{}
}

// Decimal returns the underlying decimal value.
func (v Volume) Decimal() decimal.Decimal { return v.dec }

// Add returns v + other.
func (v Volume) Add(other Volume) Volume { return Volume{dec: v.dec.Add(other.dec)} }

// Sub returns v - other.
func (v Volume) Sub(other Volume) Volume { return Volume{dec: v.dec.Sub(other.dec)} }

// Min returns the smaller of v and other.
func (v Volume) Min(other Volume) Volume {
	if v.dec.LessThan(other.dec) {
		return v
	}
	return other
}

// IsZero reports whether the volume is zero.
func (v Volume) IsZero() bool { return v.dec.IsZero() }

// IsPositive reports whether the volume is strictly positive.
func (v Volume) IsPositive() bool { return v.dec.IsPositive() }

// Cmp compares two volumes: -1 if v < other, 0 if equal, +1 if v > other.
func (v Volume) Cmp(other Volume) int { return v.dec.Cmp(other.dec) }

// Equal reports whether two volumes have the same decimal value.
func (v Volume) Equal(other Volume) bool { return v.dec.Equal(other.dec) }

// GreaterThan reports whether v > other.
func (v Volume) GreaterThan(other Volume) bool { return v.dec.GreaterThan(other.dec) }

func (v Volume) String() string { return v.dec.String() }

// MarshalJSON implements json.Marshaler.
func (v Volume) MarshalJSON() ([]byte, error) { return v.dec.MarshalJSON() }

// UnmarshalJSON implements json.Unmarshaler.
func (v *Volume) UnmarshalJSON(data []byte) error { return v.dec.UnmarshalJSON(data) }

// OrderIDGenerator hands out monotonically increasing order ids. The
// generator is seeded with the current nanosecond clock so ids stay unique
// across process restarts without coordination.
type OrderIDGenerator struct {
	last atomic.Int64
}

// NewOrderIDGenerator creates a generator seeded from the wall clock.
func NewOrderIDGenerator() *OrderIDGenerator {
	g := &OrderIDGenerator{}
	g.last.Store(time.Now().UnixNano())
	return g
}

// Next returns the next order id.
func (g *OrderIDGenerator) Next() OrderID {
	return OrderID(g.last.Add(1))
}

// Seed raises the generator floor to at least last. Used when restoring
// state from a snapshot.
func (g *OrderIDGenerator) Seed(last OrderID) {
	for {
		cur := g.last.Load()
		if cur >= int64(last) {
			return
		}
		if g.last.CompareAndSwap(cur, int64(last)) {
			return
		}
	}
}
