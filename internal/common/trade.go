package common

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Trade is an immutable record of one fill: a resting maker order and an
// aggressing taker order crossed at the maker's price.
type Trade struct {
	TradeID       uint64          // process-wide monotonic.
	Symbol        string          // copy of the book's symbol.
	Price         decimal.Decimal // the maker's resting price.
	Quantity      decimal.Decimal // the filled quantity.
	Timestamp     int64           // microseconds at emission.
	MakerOrderID  uint64          // resting side.
	TakerOrderID  uint64          // aggressing side.
	AggressorSide Side            // side of the incoming (taker) order.
	MakerFee      decimal.Decimal // quantity * price * makerRate.
	TakerFee      decimal.Decimal // quantity * price * takerRate.
}

func (t Trade) String() string {
	return fmt.Sprintf(
		"Trade{id=%d symbol=%s price=%s qty=%s maker=%d taker=%d aggressor=%s makerFee=%s takerFee=%s}",
		t.TradeID, t.Symbol, t.Price, t.Quantity, t.MakerOrderID, t.TakerOrderID,
		t.AggressorSide, t.MakerFee, t.TakerFee,
	)
}
