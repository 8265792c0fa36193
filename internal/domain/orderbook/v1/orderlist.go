package orderbookv1

import "sort"

// OrderList keeps one side of a book in priority order: best price first,
// and first-come-first-served among orders at the same price. Bids sort by
// descending price, asks by ascending price.
type OrderList struct {
	side   Side
	orders []*Order
}

// NewOrderList creates an empty list for the given side.
func NewOrderList(side Side) *OrderList {
	return &OrderList{side: side}
}

// Side returns the side this list holds.
func (l *OrderList) Side() Side {
	return l.side
}

// Len returns the number of resting orders.
func (l *OrderList) Len() int {
	return len(l.orders)
}

// Best returns the order with the highest priority, or nil when empty.
func (l *OrderList) Best() *Order {
	if len(l.orders) == 0 {
		return nil
	}
	return l.orders[0]
}

// At returns the order at position i in priority order.
func (l *OrderList) At(i int) *Order {
	return l.orders[i]
}

// Add inserts the order after every resting order of equal or better price,
// preserving time priority within a price level.
func (l *OrderList) Add(o *Order) {
	idx := sort.Search(len(l.orders), func(i int) bool {
		return l.outranks(o, l.orders[i])
	})
	l.orders = append(l.orders, nil)
	copy(l.orders[idx+1:], l.orders[idx:])
	l.orders[idx] = o
}

// outranks reports whether the inbound order has strictly better price
// priority than the resting order. Equal prices never outrank, which keeps
// arrival order intact. The zero price sentinel of a resting market order
// is the worst rank on either side: it names no price of its own.
func (l *OrderList) outranks(inbound, resting *Order) bool {
	if inbound.Price.IsZero() {
		return false
	}
	if resting.Price.IsZero() {
		return true
	}
	if l.side == SideBuy {
		return inbound.Price.GreaterThan(resting.Price)
	}
	return inbound.Price.LessThan(resting.Price)
}

// Remove deletes the order with the given id and returns it, or nil when no
// such order rests on this side.
func (l *OrderList) Remove(id OrderID) *Order {
	for i, o := range l.orders {
		if o.ID == id {
			l.orders = append(l.orders[:i], l.orders[i+1:]...)
			return o
		}
	}
	return nil
}

// Find returns the resting order with the given id, or nil.
func (l *OrderList) Find(id OrderID) *Order {
	for _, o := range l.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// Orders returns a copy of the list in priority order.
func (l *OrderList) Orders() []*Order {
	out := make([]*Order, len(l.orders))
	copy(out, l.orders)
	return out
}

// Levels aggregates resting orders into per-price depth levels in priority
// order. Orders at the zero price sentinel are reported as their own level.
func (l *OrderList) Levels() []DepthLevel {
	var levels []DepthLevel
	for _, o := range l.orders {
		if n := len(levels); n > 0 && levels[n-1].Price.Equal(o.Price) {
			levels[n-1].Volume = levels[n-1].Volume.Add(o.OpenQuantity)
			levels[n-1].OrderCount++
			continue
		}
		levels = append(levels, DepthLevel{
			Price:      o.Price,
			Volume:     o.OpenQuantity,
			OrderCount: 1,
		})
	}
	return levels
}
