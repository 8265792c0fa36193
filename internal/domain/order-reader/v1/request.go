package orderreaderv1

import (
	orderbookv1 "github.com/52tanbivv/coin-exchange-backend/internal/domain/orderbook/v1"
	"github.com/52tanbivv/coin-exchange-backend/pkg/errors"
)

// RequestKind tags the wire variants arriving on the order topic.
type RequestKind string

const (
	// RequestKindOrder places a new order.
	RequestKindOrder RequestKind = "order"
	// RequestKindCancel cancels a resting order.
	RequestKindCancel RequestKind = "cancel"
)

// Request is the wire format the funds-validated API layer publishes to
// the order topic. Prices and volumes travel as decimal strings.
type Request struct {
	Kind     RequestKind `json:"kind"`
	Pair     string      `json:"pair"`
	Side     string      `json:"side"`
	Type     string      `json:"type"`
	Price    string      `json:"price,omitempty"`
	Volume   string      `json:"volume,omitempty"`
	TraderID int64       `json:"traderId"`
	OrderID  int64       `json:"orderId,omitempty"`
}

// ToPayload converts the wire request into an input payload, assigning a
// fresh order id for new orders. Structural problems (unparsable decimals,
// unknown kind) fail here, with every malformed field reported in one
// error; semantic validation happens in the book, where rejection
// produces an event.
func (r Request) ToPayload(gen *orderbookv1.OrderIDGenerator) (orderbookv1.InputPayload, error) {
	switch r.Kind {
	case RequestKindOrder:
		base := errors.NewBaseError()
		price := orderbookv1.ZeroPrice()
		if r.Price != "" {
			var err error
			price, err = orderbookv1.PriceFromString(r.Price)
			if err != nil {
				base.AddErrorDetails(errors.NewErrorDetails(
					"unparsable price "+r.Price, errors.KafkaReadError, "price",
				))
			}
		}
		volume, err := orderbookv1.VolumeFromString(r.Volume)
		if err != nil {
			base.AddErrorDetails(errors.NewErrorDetails(
				"unparsable volume "+r.Volume, errors.KafkaReadError, "volume",
			))
		}
		if len(base.GetDetails()) > 0 {
			return orderbookv1.InputPayload{}, base
		}
		order := orderbookv1.NewOrder(
			gen.Next(),
			orderbookv1.TraderID(r.TraderID),
			orderbookv1.CurrencyPair(r.Pair),
			orderbookv1.Side(r.Side),
			orderbookv1.OrderType(r.Type),
			price,
			volume,
		)
		return orderbookv1.NewOrderPayload(order), nil

	case RequestKindCancel:
		return orderbookv1.NewCancelPayload(
			orderbookv1.CurrencyPair(r.Pair),
			orderbookv1.OrderID(r.OrderID),
			orderbookv1.TraderID(r.TraderID),
		), nil

	default:
		return orderbookv1.InputPayload{}, errors.NewErrorDetails(
			"unknown request kind "+string(r.Kind), errors.KafkaReadError, "kind",
		)
	}
}
