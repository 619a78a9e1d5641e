package book

import (
	"github.com/shopspring/decimal"

	"fenrir/internal/common"
)

// AddOrder is the book's single entry point. It validates the request,
// assigns an order ID and timestamp, and dispatches to the handler for
// orderType. The returned trades are exactly those emitted by this call —
// partial fills, FOK kills, and unmatched IOC/MARKET residuals are not
// errors, per spec.md §7; they are communicated entirely through the
// (possibly empty) trade slice.
//
// price is ignored, and not validated, for MARKET orders; pass
// decimal.Zero.
func (b *Book) AddOrder(price, quantity decimal.Decimal, side common.Side, orderType common.OrderType) ([]common.Trade, error) {
	_, trades, err := b.AddOrderWithID(price, quantity, side, orderType)
	return trades, err
}

// AddOrderWithID behaves exactly like AddOrder but additionally returns the
// order_id assigned to the incoming order. It exists for binding layers
// (internal/server) that need to associate a resting order with its
// submitter before any trade involving it has occurred — AddOrder's plain
// three-value-minus-id signature can't express that without widening the
// core engine's documented contract.
func (b *Book) AddOrderWithID(price, quantity decimal.Decimal, side common.Side, orderType common.OrderType) (uint64, []common.Trade, error) {
	if side != common.Buy && side != common.Sell {
		return 0, nil, common.ErrInvalidSide
	}
	switch orderType {
	case common.Limit, common.Market, common.IOC, common.FOK:
	default:
		return 0, nil, common.ErrInvalidOrderType
	}
	if quantity.Sign() <= 0 {
		return 0, nil, common.ErrInvalidQuantity
	}
	if orderType != common.Market && price.Sign() <= 0 {
		return 0, nil, common.ErrInvalidPrice
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	order := common.Order{
		OrderID:   nextOrderID(),
		Side:      side,
		Type:      orderType,
		Price:     price,
		Quantity:  quantity,
		Timestamp: nowMicros(),
	}

	b.callbackFault = nil

	var trades []common.Trade
	switch orderType {
	case common.Limit:
		trades = b.handleLimit(order)
	case common.Market:
		trades = b.handleMarket(order)
	case common.IOC:
		trades = b.handleIOC(order)
	case common.FOK:
		trades = b.handleFOK(order)
	}

	if b.callbackFault != nil {
		err := b.callbackFault
		b.callbackFault = nil
		return order.OrderID, trades, err
	}
	return order.OrderID, trades, nil
}

// handleLimit inserts the order into its own side, then repeatedly crosses
// it against the opposite side while the book remains crossed. A resting
// remainder (partial or fully unmatched) stays queued at its declared
// price.
func (b *Book) handleLimit(taker common.Order) []common.Trade {
	if taker.Side == common.Buy {
		b.bids.PushOrder(taker)
		b.updateLevel(common.Buy, taker.Price, taker.Quantity)
	} else {
		b.asks.PushOrder(taker)
		b.updateLevel(common.Sell, taker.Price, taker.Quantity)
	}

	var trades []common.Trade
	for {
		trade, ok := b.crossOnce(taker.Side)
		if !ok {
			break
		}
		trades = append(trades, trade)
	}
	return trades
}

// handleMarket sweeps the opposite side at whatever prices are resting,
// without any price limit, until filled or the opposite side is exhausted.
// It is never inserted; any unfilled residual is discarded per spec.md §4.5.
func (b *Book) handleMarket(taker common.Order) []common.Trade {
	return b.sweep(&taker, nil)
}

// handleIOC sweeps the opposite side like MARKET but only at prices that
// cross the order's own limit, stopping the moment the opposite top no
// longer crosses. Any unfilled residual is discarded, never queued.
func (b *Book) handleIOC(taker common.Order) []common.Trade {
	return b.sweep(&taker, crossesLimit(taker))
}

// handleFOK pre-scans the opposite side's aggregated levels to determine
// whether the full requested quantity is available at crossing prices.
// If not, it kills the order with zero trades and no book mutation. If so,
// it sweeps exactly like IOC, which is then guaranteed to fill completely.
func (b *Book) handleFOK(taker common.Order) []common.Trade {
	_, oppLevels := b.opposite(taker.Side)
	accepts := crossesLimit(taker)

	available := decimal.Zero
	for _, lvl := range oppLevels.Levels(0) {
		if !accepts(lvl.Price) {
			break
		}
		available = available.Add(lvl.Quantity)
		if available.GreaterThanOrEqual(taker.Quantity) {
			break
		}
	}
	if available.LessThan(taker.Quantity) {
		return nil
	}
	return b.sweep(&taker, accepts)
}
