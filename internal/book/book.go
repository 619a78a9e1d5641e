// Package book is the matching engine: two half-books (bids/asks), each a
// queue.Queue of resting orders paired with a levels.Map of aggregated
// price->quantity, kept mutually consistent under a single mutex. It
// implements spec.md's LIMIT/MARKET/IOC/FOK dispatcher, the price-time
// crossing loop, maker/taker fee accounting, and the BBO/snapshot market
// data view.
//
// Grounded on the teacher's internal/engine/orderbook.go (PlaceOrder,
// handleLimit, handleMarket, Match) and resolved against
// original_source/cpp_engine, the most complete of the three divergent
// revisions the teacher itself carries (see DESIGN.md).
package book

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"fenrir/internal/common"
	"fenrir/internal/levels"
	"fenrir/internal/queue"
)

// Default fee rates per spec.md §6.
const (
	DefaultMakerRate = "0.001"
	DefaultTakerRate = "0.002"
)

// orderIDCounter and tradeIDCounter are process-wide, shared by every Book
// instance, per spec.md §5 and §9 ("cross-process uniqueness requires a
// different scheme" — not attempted here).
var (
	orderIDCounter atomic.Uint64
	tradeIDCounter atomic.Uint64
)

func nextOrderID() uint64 { return orderIDCounter.Add(1) }
func nextTradeID() uint64 { return tradeIDCounter.Add(1) }

// nowMicros returns microseconds since an arbitrary but monotonic epoch,
// suitable for ordering timestamps against each other (never against wall
// clock time from another process).
func nowMicros() int64 { return time.Since(processStart).Microseconds() }

// processStart is the epoch for nowMicros; time.Since reads its monotonic
// clock reading.
var processStart = time.Now()

// TradeCallback is invoked once per emitted trade, in emission order,
// before AddOrder returns. It runs synchronously under the book's lock —
// see spec.md §5 on the re-entrancy hazard this implies.
type TradeCallback func(common.Trade)

// Book is a single-symbol limit order book with an in-process matching
// engine. The zero value is not usable; construct with New.
type Book struct {
	mu sync.Mutex

	symbol string

	bids      *queue.Queue
	asks      *queue.Queue
	bidLevels *levels.Map
	askLevels *levels.Map

	trades []common.Trade

	makerRate decimal.Decimal
	takerRate decimal.Decimal

	callback      TradeCallback
	callbackFault error
}

// Option configures a Book at construction time.
type Option func(*Book)

// WithFeeRates overrides the default maker/taker fee rates.
func WithFeeRates(makerRate, takerRate decimal.Decimal) Option {
	return func(b *Book) {
		b.makerRate = makerRate
		b.takerRate = takerRate
	}
}

// WithTradeCallback installs the trade callback at construction time,
// equivalent to calling SetTradeCallback immediately after New.
func WithTradeCallback(cb TradeCallback) Option {
	return func(b *Book) { b.callback = cb }
}

// New constructs an empty book for symbol.
func New(symbol string, opts ...Option) *Book {
	b := &Book{
		symbol:    symbol,
		bids:      queue.NewBids(),
		asks:      queue.NewAsks(),
		bidLevels: levels.NewBidLevels(),
		askLevels: levels.NewAskLevels(),
		makerRate: decimal.RequireFromString(DefaultMakerRate),
		takerRate: decimal.RequireFromString(DefaultTakerRate),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Symbol returns the book's symbol, copied verbatim into every trade it
// emits.
func (b *Book) Symbol() string { return b.symbol }

// SetTradeCallback replaces the callback slot. A nil callback disables
// notification. Matches the source's single settable slot (see the
// pybind11 binding in original_source/cpp_engine/bindings.cpp, which
// exposes trade_callback as one read-write attribute, not a subscriber
// list).
func (b *Book) SetTradeCallback(cb TradeCallback) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callback = cb
}

// Trades returns a copy of the full trade history emitted by this book.
func (b *Book) Trades() []common.Trade {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]common.Trade, len(b.trades))
	copy(out, b.trades)
	return out
}

// updateLevel is the single helper through which both half-book level maps
// are mutated, centralizing the dual-index consistency spec.md §9 calls
// out as the hardest invariant to maintain.
func (b *Book) updateLevel(side common.Side, price, delta decimal.Decimal) {
	if side == common.Buy {
		b.bidLevels.Update(price, delta)
	} else {
		b.askLevels.Update(price, delta)
	}
}

// emit assigns a trade ID and timestamp, appends to history, and invokes
// the callback (if any) synchronously. Called while holding mu. The trade
// is committed to book state before the callback runs, so a panicking
// callback — recovered here and surfaced as ErrCallbackFault once AddOrder
// finishes matching — never loses or corrupts it.
func (b *Book) emit(trade common.Trade) common.Trade {
	trade.TradeID = nextTradeID()
	trade.Timestamp = nowMicros()
	trade.Symbol = b.symbol
	b.trades = append(b.trades, trade)
	if b.callback != nil {
		b.invokeCallback(trade)
	}
	return trade
}

func (b *Book) invokeCallback(trade common.Trade) {
	defer func() {
		if r := recover(); r != nil {
			b.callbackFault = fmt.Errorf("%w: %v", ErrCallbackFault, r)
		}
	}()
	b.callback(trade)
}

// fees computes the maker and taker absolute fee amounts for a fill.
func (b *Book) fees(quantity, price decimal.Decimal) (makerFee, takerFee decimal.Decimal) {
	notional := quantity.Mul(price)
	return notional.Mul(b.makerRate), notional.Mul(b.takerRate)
}
