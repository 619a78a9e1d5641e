package book

import (
	"time"

	"github.com/shopspring/decimal"
)

// timestampFormat renders UTC timestamps with a fixed six-digit
// microsecond fraction and a literal "Z" suffix, matching the
// strftime("%FT%T", ...) plus manually appended microseconds the source's
// market-data layer uses (original_source/cpp_engine/market_data.cpp).
const timestampFormat = "2006-01-02T15:04:05.000000Z"

// PriceLevel is one side of a book's best-or-depth view.
type PriceLevel struct {
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

// BBO is the best bid and offer. A side with no resting orders reports the
// zero PriceLevel (price and quantity both zero), per spec.md §4.6.
type BBO struct {
	Bid PriceLevel `json:"bid"`
	Ask PriceLevel `json:"ask"`
}

// BBO returns the current best bid and offer.
func (b *Book) BBO() BBO {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bboLocked()
}

func (b *Book) bboLocked() BBO {
	var out BBO
	if top, ok := b.bidLevels.Top(); ok {
		out.Bid = PriceLevel{Price: top.Price, Quantity: top.Quantity}
	}
	if top, ok := b.askLevels.Top(); ok {
		out.Ask = PriceLevel{Price: top.Price, Quantity: top.Quantity}
	}
	return out
}

// Snapshot is a point-in-time view of the book, suitable for publishing to
// subscribers (see internal/stream).
type Snapshot struct {
	Symbol    string       `json:"symbol"`
	Timestamp string       `json:"timestamp"`
	BBO       BBO          `json:"bbo"`
	Bids      []PriceLevel `json:"bids"`
	Asks      []PriceLevel `json:"asks"`
}

// Snapshot returns the book's symbol, BBO, and up to depth price levels per
// side (depth <= 0 returns every resting level).
func (b *Book) Snapshot(depth int) Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	bidLvls := b.bidLevels.Levels(depth)
	askLvls := b.askLevels.Levels(depth)

	snap := Snapshot{
		Symbol:    b.symbol,
		Timestamp: time.Now().UTC().Format(timestampFormat),
		BBO:       b.bboLocked(),
		Bids:      make([]PriceLevel, len(bidLvls)),
		Asks:      make([]PriceLevel, len(askLvls)),
	}
	for i, l := range bidLvls {
		snap.Bids[i] = PriceLevel{Price: l.Price, Quantity: l.Quantity}
	}
	for i, l := range askLvls {
		snap.Asks[i] = PriceLevel{Price: l.Price, Quantity: l.Quantity}
	}
	return snap
}
