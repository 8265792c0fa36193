package orderbookv1

import "time"

// FillFlags records which side(s) of a match reached zero open quantity.
type FillFlags string

const (
	// NeitherFilled means both orders still have open quantity.
	NeitherFilled FillFlags = "neither_filled"
	// InboundFilled means only the inbound order completed.
	InboundFilled FillFlags = "inbound_filled"
	// MatchedFilled means only the resting order completed.
	MatchedFilled FillFlags = "matched_filled"
	// BothFilled means both orders completed.
	BothFilled FillFlags = "both_filled"
)

// BookListener receives the callbacks a book raises while processing a
// single input. Callbacks run synchronously on the matching goroutine and
// receive value snapshots, never live book state.
type BookListener interface {
	// OnOrderAccepted fires once per admitted order: with the first
	// execution's price and volume when the order crossed on entry, or
	// with zeros when it rested without matching.
	OnOrderAccepted(order Order, matchedPrice Price, matchedVolume Volume)
	// OnOrderFilled fires once per execution with snapshots of both
	// orders taken after the fill was applied.
	OnOrderFilled(inbound, matched Order, flags FillFlags, price Price, volume Volume)
	// OnOrderCancelled fires when a resting order is removed by request.
	OnOrderCancelled(order Order)
	// OnOrderChanged fires when an order's state changes outside of
	// fills, e.g. rejection or cancellation.
	OnOrderChanged(order Order)
	// OnOrderBookChanged fires after the set of resting orders changed.
	OnOrderBookChanged(snapshot BookSnapshot)
	// OnTradeExecuted fires once per trade.
	OnTradeExecuted(trade Trade)
}

// DepthListener receives aggregated-view change notifications.
type DepthListener interface {
	// OnDepthChanged fires when any level inside the configured depth
	// window changed.
	OnDepthChanged(depth Depth)
	// OnBboChanged fires when the top level of either side changed.
	OnBboChanged(bbo Bbo)
}

// EventType tags the records flowing through the output pipeline and the
// journal.
type EventType string

const (
	EventOrderAccepted    EventType = "order_accepted"
	EventOrderFilled      EventType = "order_filled"
	EventOrderCancelled   EventType = "order_cancelled"
	EventOrderChanged     EventType = "order_changed"
	EventOrderBookChanged EventType = "order_book_changed"
	EventTradeExecuted    EventType = "trade_executed"
	EventDepthChanged     EventType = "depth_changed"
	EventBboChanged       EventType = "bbo_changed"
)

// Event is the tagged record published on the output pipeline. Only the
// fields relevant to its Type are populated; every payload is a value
// snapshot detached from book state.
type Event struct {
	ID        string       `json:"id"`
	Sequence  uint64       `json:"sequence"`
	Type      EventType    `json:"type"`
	Pair      CurrencyPair `json:"pair"`
	Timestamp time.Time    `json:"timestamp"`

	Order   *Order        `json:"order,omitempty"`
	Matched *Order        `json:"matched,omitempty"`
	Flags   FillFlags     `json:"flags,omitempty"`
	Price   Price         `json:"price"`
	Volume  Volume        `json:"volume"`
	Trade   *Trade        `json:"trade,omitempty"`
	Book    *BookSnapshot `json:"book,omitempty"`
	Depth   *Depth        `json:"depth,omitempty"`
	Bbo     *Bbo          `json:"bbo,omitempty"`
}
