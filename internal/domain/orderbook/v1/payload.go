package orderbookv1

// PayloadKind tags the variants of InputPayload.
type PayloadKind string

const (
	// PayloadOrder carries a new order for matching.
	PayloadOrder PayloadKind = "order"
	// PayloadCancel carries a cancellation request.
	PayloadCancel PayloadKind = "cancel"
)

// CancelRequest asks for the removal of a resting order.
type CancelRequest struct {
	OrderID  OrderID      `json:"orderId"`
	TraderID TraderID     `json:"traderId"`
	Pair     CurrencyPair `json:"pair"`
}

// InputPayload is the tagged union carried through the input pipeline. It
// holds value snapshots only, so a published payload can never be mutated
// by its producer afterwards.
type InputPayload struct {
	Kind   PayloadKind    `json:"kind"`
	Order  *Order         `json:"order,omitempty"`
	Cancel *CancelRequest `json:"cancel,omitempty"`
}

// NewOrderPayload snapshots the order into an input payload.
func NewOrderPayload(o *Order) InputPayload {
	snap := o.Snapshot()
	return InputPayload{Kind: PayloadOrder, Order: &snap}
}

// NewCancelPayload builds a cancellation payload.
func NewCancelPayload(pair CurrencyPair, orderID OrderID, traderID TraderID) InputPayload {
	return InputPayload{
		Kind: PayloadCancel,
		Cancel: &CancelRequest{
			OrderID:  orderID,
			TraderID: traderID,
			Pair:     pair,
		},
	}
}

// Clone returns a deep copy detached from the original's Order, so a
// retained payload can never observe mutations made by the matching
// consumer.
func (p InputPayload) Clone() InputPayload {
	out := p
	if p.Order != nil {
		snap := p.Order.Snapshot()
		out.Order = &snap
	}
	if p.Cancel != nil {
		c := *p.Cancel
		out.Cancel = &c
	}
	return out
}

// CurrencyPair returns the instrument the payload targets.
func (p InputPayload) CurrencyPair() CurrencyPair {
	switch p.Kind {
	case PayloadOrder:
		if p.Order != nil {
			return p.Order.Pair
		}
	case PayloadCancel:
		if p.Cancel != nil {
			return p.Cancel.Pair
		}
	}
	return ""
}
