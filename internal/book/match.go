package book

import (
	"github.com/shopspring/decimal"

	"fenrir/internal/common"
	"fenrir/internal/levels"
	"fenrir/internal/queue"
)

// opposite returns the queue and level map on the far side of side —
// asks for an incoming Buy, bids for an incoming Sell.
func (b *Book) opposite(side common.Side) (*queue.Queue, *levels.Map) {
	if side == common.Buy {
		return b.asks, b.askLevels
	}
	return b.bids, b.bidLevels
}

// crossOnce matches the current top bid against the current top ask if,
// and only if, they cross (top_bid.price >= top_ask.price). It reports
// ok=false if either side is empty or the book is not crossed — the
// natural termination condition for handleLimit's loop.
//
// The trade executes at the maker's price: the ask's price when the
// incoming LIMIT order was a Buy, the bid's price when it was a Sell
// (spec.md §4.4). Both half-books' level maps are decremented at each
// side's *own* top price (not uniformly at the trade price) — this is a
// deliberate sharpening of the literal crossing-loop pseudocode, which
// decrements both maps at trade_price alone. That is only consistent with
// levels.Map's invariant (aggregate == sum of resting quantities at that
// exact price) when the aggressor's own declared price equals the trade
// price, true in every spec.md §8 scenario but not in general — see
// DESIGN.md.
func (b *Book) crossOnce(aggressorSide common.Side) (common.Trade, bool) {
	bid, okBid := b.bids.Top()
	ask, okAsk := b.asks.Top()
	if !okBid || !okAsk || bid.Price.LessThan(ask.Price) {
		return common.Trade{}, false
	}

	var makerPrice decimal.Decimal
	var makerID, takerID uint64
	if aggressorSide == common.Buy {
		makerPrice, makerID, takerID = ask.Price, ask.OrderID, bid.OrderID
	} else {
		makerPrice, makerID, takerID = bid.Price, bid.OrderID, ask.OrderID
	}

	matchQty := decimal.Min(bid.Quantity, ask.Quantity)
	bid.Quantity = bid.Quantity.Sub(matchQty)
	ask.Quantity = ask.Quantity.Sub(matchQty)

	b.bids.PopOrder()
	b.asks.PopOrder()
	if bid.Quantity.Sign() > 0 {
		b.bids.PushOrder(bid)
	}
	if ask.Quantity.Sign() > 0 {
		b.asks.PushOrder(ask)
	}

	b.updateLevel(common.Buy, bid.Price, matchQty.Neg())
	b.updateLevel(common.Sell, ask.Price, matchQty.Neg())

	makerFee, takerFee := b.fees(matchQty, makerPrice)
	trade := b.emit(common.Trade{
		Price:         makerPrice,
		Quantity:      matchQty,
		MakerOrderID:  makerID,
		TakerOrderID:  takerID,
		AggressorSide: aggressorSide,
		MakerFee:      makerFee,
		TakerFee:      takerFee,
	})
	return trade, true
}

// sweep matches taker (never itself queued) against the opposite side's
// resting orders, one top-of-book entry at a time, while taker has
// residual quantity, the opposite side is non-empty, and withinLimit
// accepts the opposite top's price (nil accepts unconditionally — the
// MARKET case). The opposite side's level map is decremented at its own
// top price on every fill; taker's quantity is never reflected in any
// level map because it was never inserted. Any residual left in taker once
// sweep returns is the caller's to discard.
func (b *Book) sweep(taker *common.Order, withinLimit func(oppositeTopPrice decimal.Decimal) bool) []common.Trade {
	var trades []common.Trade
	oppQueue, oppLevels := b.opposite(taker.Side)

	for taker.Quantity.Sign() > 0 {
		top, ok := oppQueue.Top()
		if !ok {
			break
		}
		if withinLimit != nil && !withinLimit(top.Price) {
			break
		}

		matchQty := decimal.Min(taker.Quantity, top.Quantity)
		taker.Quantity = taker.Quantity.Sub(matchQty)
		top.Quantity = top.Quantity.Sub(matchQty)

		oppQueue.PopOrder()
		if top.Quantity.Sign() > 0 {
			oppQueue.PushOrder(top)
		}
		oppLevels.Update(top.Price, matchQty.Neg())

		makerFee, takerFee := b.fees(matchQty, top.Price)
		trade := b.emit(common.Trade{
			Price:         top.Price,
			Quantity:      matchQty,
			MakerOrderID:  top.OrderID,
			TakerOrderID:  taker.OrderID,
			AggressorSide: taker.Side,
			MakerFee:      makerFee,
			TakerFee:      takerFee,
		})
		trades = append(trades, trade)
	}
	return trades
}

// crossesLimit builds the IOC/FOK price-acceptance predicate: the
// opposite top must be at or better than the taker's own limit.
func crossesLimit(taker common.Order) func(decimal.Decimal) bool {
	if taker.Side == common.Buy {
		return func(oppositePrice decimal.Decimal) bool {
			return oppositePrice.LessThanOrEqual(taker.Price)
		}
	}
	return func(oppositePrice decimal.Decimal) bool {
		return oppositePrice.GreaterThanOrEqual(taker.Price)
	}
}
