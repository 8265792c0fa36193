package orderbookv1

import (
	"fmt"
	"time"

	"github.com/52tanbivv/coin-exchange-backend/pkg/errors"
)

// OrderState tracks the lifecycle of an order on the book.
type OrderState string

const (
	// OrderStateNew is the state of an order that has been created but not
	// yet accepted by a book.
	OrderStateNew OrderState = "new"
	// OrderStateAccepted means the book admitted the order.
	OrderStateAccepted OrderState = "accepted"
	// OrderStatePartiallyFilled means the order matched but still has open
	// quantity.
	OrderStatePartiallyFilled OrderState = "partially_filled"
	// OrderStateComplete means the order has no open quantity left.
	OrderStateComplete OrderState = "complete"
	// OrderStateCancelled means the order was removed before completion.
	OrderStateCancelled OrderState = "cancelled"
	// OrderStateRejected means the order failed validation and never
	// reached the book.
	OrderStateRejected OrderState = "rejected"
)

// Order is a request to buy or sell a quantity of the base currency of a
// pair. Open and filled quantities always sum to the original volume.
type Order struct {
	ID             OrderID      `json:"id"`
	TraderID       TraderID     `json:"traderId"`
	Pair           CurrencyPair `json:"pair"`
	Side           Side         `json:"side"`
	Type           OrderType    `json:"type"`
	Price          Price        `json:"price"`
	Volume         Volume       `json:"volume"`
	OpenQuantity   Volume       `json:"openQuantity"`
	FilledQuantity Volume       `json:"filledQuantity"`
	State          OrderState   `json:"state"`
	Timestamp      int64        `json:"timestamp"`
}

// NewOrder creates an order in the new state with the full volume open.
func NewOrder(
	id OrderID,
	traderID TraderID,
	pair CurrencyPair,
	side Side,
	orderType OrderType,
	price Price,
	volume Volume,
) *Order {
	return &Order{
		ID:           id,
		TraderID:     traderID,
		Pair:         pair,
		Side:         side,
		Type:         orderType,
		Price:        price,
		Volume:       volume,
		OpenQuantity: volume,
		State:        OrderStateNew,
		Timestamp:    time.Now().UnixNano(),
	}
}

// Validate checks the order against admission rules before it reaches a
// book. It returns a coded error describing the first violation found.
func (o *Order) Validate() *errors.ErrorDetails {
	switch o.Side {
	case SideBuy, SideSell:
	default:
		return errors.NewErrorDetails(
			fmt.Sprintf("order %d has unknown side %q", o.ID, o.Side),
			errors.ErrOrderUnknownSide, "side",
		)
	}
	switch o.Type {
	case OrderTypeLimit, OrderTypeMarket:
	default:
		return errors.NewErrorDetails(
			fmt.Sprintf("order %d has unknown type %q", o.ID, o.Type),
			errors.ErrOrderUnknownType, "type",
		)
	}
	if !o.Volume.IsPositive() {
		return errors.NewErrorDetails(
			fmt.Sprintf("order %d has non-positive volume %s", o.ID, o.Volume),
			errors.ErrOrderZeroVolume, "volume",
		)
	}
	if o.Type == OrderTypeLimit && !o.Price.IsPositive() {
		return errors.NewErrorDetails(
			fmt.Sprintf("limit order %d needs a positive price, got %s", o.ID, o.Price),
			errors.ErrOrderMissingLimitPrice, "price",
		)
	}
	return nil
}

// IsMarket reports whether the order is a market order.
func (o *Order) IsMarket() bool {
	return o.Type == OrderTypeMarket
}

// IsFilled reports whether the order has no open quantity left.
func (o *Order) IsFilled() bool {
	return o.OpenQuantity.IsZero()
}

// Fill reduces the open quantity by qty and grows the filled quantity by
// the same amount. Filling more than the open quantity is a matching bug,
// not an input error, so it panics.
func (o *Order) Fill(qty Volume) {
	if !qty.IsPositive() {
		panic(fmt.Sprintf("order %d: fill quantity %s is not positive", o.ID, qty))
	}
	if qty.GreaterThan(o.OpenQuantity) {
		panic(fmt.Sprintf(
			"order %d: fill quantity %s exceeds open quantity %s",
			o.ID, qty, o.OpenQuantity,
		))
	}
	o.OpenQuantity = o.OpenQuantity.Sub(qty)
	o.FilledQuantity = o.FilledQuantity.Add(qty)
	if o.OpenQuantity.IsZero() {
		o.State = OrderStateComplete
	} else {
		o.State = OrderStatePartiallyFilled
	}
}

// Snapshot returns a value copy of the order, detached from future
// mutations by the book.
func (o *Order) Snapshot() Order {
	return *o
}
