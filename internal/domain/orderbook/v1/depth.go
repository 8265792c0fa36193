package orderbookv1

// DepthLevel aggregates the resting orders at one price.
type DepthLevel struct {
	Price      Price  `json:"price"`
	Volume     Volume `json:"volume"`
	OrderCount int    `json:"orderCount"`
}

// IsEmpty reports whether the level holds no orders. Downstream consumers
// receive a fixed number of levels per side, padded with empty levels.
func (l DepthLevel) IsEmpty() bool {
	return l.OrderCount == 0
}

// Equal reports whether two levels describe the same price, volume and
// order count.
func (l DepthLevel) Equal(other DepthLevel) bool {
	return l.OrderCount == other.OrderCount &&
		l.Price.Equal(other.Price) &&
		l.Volume.Equal(other.Volume)
}

// Depth is the aggregated fixed-size view of one book: a set number of
// levels per side, best level at index 0, empty levels padding the tail.
type Depth struct {
	Pair CurrencyPair `json:"pair"`
	Bids []DepthLevel `json:"bids"`
	Asks []DepthLevel `json:"asks"`
}

// Equal reports whether two depth views are level-for-level identical.
func (d Depth) Equal(other Depth) bool {
	if d.Pair != other.Pair || len(d.Bids) != len(other.Bids) || len(d.Asks) != len(other.Asks) {
		return false
	}
	for i := range d.Bids {
		if !d.Bids[i].Equal(other.Bids[i]) {
			return false
		}
	}
	for i := range d.Asks {
		if !d.Asks[i].Equal(other.Asks[i]) {
			return false
		}
	}
	return true
}

// Bbo is the best bid and best offer of one book. An empty side is
// represented by an empty level, not omitted.
type Bbo struct {
	Pair    CurrencyPair `json:"pair"`
	BestBid DepthLevel   `json:"bestBid"`
	BestAsk DepthLevel   `json:"bestAsk"`
}

// Equal reports whether both tops of book are identical.
func (b Bbo) Equal(other Bbo) bool {
	return b.Pair == other.Pair &&
		b.BestBid.Equal(other.BestBid) &&
		b.BestAsk.Equal(other.BestAsk)
}

// BookSnapshot is a full per-price aggregation of one book, unbounded in
// level count. It feeds read models and durable snapshots.
type BookSnapshot struct {
	Pair CurrencyPair `json:"pair"`
	Bids []DepthLevel `json:"bids"`
	Asks []DepthLevel `json:"asks"`
}

// BookState captures every resting order on one book together with the
// input sequence that produced it. Restoring a book from a BookState and
// replaying inputs after InputSequence rebuilds the exact live state.
type BookState struct {
	Pair          CurrencyPair `json:"pair"`
	Bids          []Order      `json:"bids"`
	Asks          []Order      `json:"asks"`
	InputSequence uint64       `json:"inputSequence"`
	TakenAt       int64        `json:"takenAt"`
}
