// Package levels implements the aggregated price-level index: an ordered
// map from price to total resting quantity at that price, maintained in
// lockstep with a queue.Queue by internal/book's single update helper.
//
// Grounded on the teacher's internal/engine/orderbook.go, which keys a
// tidwall/btree.BTreeG by price for the same purpose (there, the tree held
// the orders directly; here it holds only the aggregate, since the
// per-order queue already carries the orders — see spec.md §9 design note
// (a): keep both structures, centralize the updates).
package levels

import (
	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"
)

// Level is one price point in the aggregated map.
type Level struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// Map is an ordered price -> quantity index for one side of a book.
type Map struct {
	tree *btree.BTreeG[*Level]
}

// NewBidLevels constructs a level map iterating in descending price order.
func NewBidLevels() *Map {
	return &Map{tree: btree.NewBTreeG(func(a, b *Level) bool {
		return a.Price.GreaterThan(b.Price)
	})}
}

// NewAskLevels constructs a level map iterating in ascending price order.
func NewAskLevels() *Map {
	return &Map{tree: btree.NewBTreeG(func(a, b *Level) bool {
		return a.Price.LessThan(b.Price)
	})}
}

// Update adds delta (signed) to the resting quantity at price. If the
// post-update quantity is zero or negative, the level is erased. Callers
// must only pass deltas consistent with actual fills or insertions — the
// map is a derived index, never authoritative over the orders themselves.
func (m *Map) Update(price decimal.Decimal, delta decimal.Decimal) {
	key := &Level{Price: price}
	existing, ok := m.tree.Get(key)
	if !ok {
		if delta.Sign() > 0 {
			m.tree.Set(&Level{Price: price, Quantity: delta})
		}
		return
	}

	newQty := existing.Quantity.Add(delta)
	if newQty.Sign() <= 0 {
		m.tree.Delete(key)
		return
	}
	m.tree.Set(&Level{Price: price, Quantity: newQty})
}

// Top returns the best (first-iterated) level. ok is false if the side is
// empty.
func (m *Map) Top() (level Level, ok bool) {
	l, ok := m.tree.Min()
	if !ok {
		return Level{}, false
	}
	return *l, true
}

// Len reports the number of distinct price levels.
func (m *Map) Len() int { return m.tree.Len() }

// Levels returns up to depth levels in this map's iteration order
// (descending for bids, ascending for asks). depth <= 0 returns all
// levels.
func (m *Map) Levels(depth int) []Level {
	out := make([]Level, 0, max(depth, 0))
	m.tree.Scan(func(l *Level) bool {
		if depth > 0 && len(out) >= depth {
			return false
		}
		out = append(out, *l)
		return true
	})
	return out
}
