package orderbookv1

import "time"

// Trade is an immutable record of one match between a buy and a sell order.
// It carries value snapshots of both orders taken at execution time.
type Trade struct {
	ID        string       `json:"id"`
	Pair      CurrencyPair `json:"pair"`
	Price     Price        `json:"price"`
	Volume    Volume       `json:"volume"`
	Buy       Order        `json:"buy"`
	Sell      Order        `json:"sell"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewTrade creates a trade record for an execution of volume at price
// between the given order snapshots.
func NewTrade(id string, pair CurrencyPair, price Price, volume Volume, buy, sell Order, ts time.Time) Trade {
	return Trade{
		ID:        id,
		Pair:      pair,
		Price:     price,
		Volume:    volume,
		Buy:       buy,
		Sell:      sell,
		Timestamp: ts,
	}
}
