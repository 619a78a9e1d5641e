package common

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Order is a resting or incoming instruction. Quantity is mutated in place
// as fills occur; the book owns every Order it admits and never hands out
// a live pointer to an external caller.
type Order struct {
	OrderID   uint64          // assigned by the book at admission, process-wide monotonic.
	Side      Side            //
	Type      OrderType       //
	Price     decimal.Decimal // unused for Market orders.
	Quantity  decimal.Decimal // residual quantity, mutated by partial fills.
	Timestamp int64           // microseconds since a monotonic epoch.
	Owner     string          // opaque account tag, never inspected by the matching core.
}

func (o Order) String() string {
	return fmt.Sprintf(
		"Order{id=%d side=%s type=%s price=%s qty=%s owner=%q}",
		o.OrderID, o.Side, o.Type, o.Price, o.Quantity, o.Owner,
	)
}
