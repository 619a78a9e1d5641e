package book_test

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"fenrir/internal/book"
	"fenrir/internal/common"
)

// prefillOrderBook seeds levels resting price levels on each side, one
// order per level, mirroring original_source/cpp_engine/test.cpp's
// prefillOrderBook (200,000 levels/side there; scaled down for a unit-test
// run here).
func prefillOrderBook(b *testing.B, ob *book.Book, levels int, qtyPerLevel string) {
	b.Helper()
	qty := d(qtyPerLevel)
	for i := 0; i < levels; i++ {
		price := d("60000").Sub(d(intToStr(i)))
		if _, err := ob.AddOrder(price, qty, common.Buy, common.Limit); err != nil {
			b.Fatal(err)
		}
	}
	for i := 0; i < levels; i++ {
		price := d("60001").Add(d(intToStr(i)))
		if _, err := ob.AddOrder(price, qty, common.Sell, common.Limit); err != nil {
			b.Fatal(err)
		}
	}
}

func intToStr(i int) string {
	return decimal.NewFromInt(int64(i)).String()
}

// BenchmarkMarketOrders mirrors test.cpp's benchmarkOrders(ob, N, true):
// a pre-filled book absorbing a stream of MARKET orders at randomized
// quantities.
func BenchmarkMarketOrders(b *testing.B) {
	ob := book.New("BTC-USDT")
	prefillOrderBook(b, ob, 200, "1")

	gen := rand.New(rand.NewSource(42))
	sides := [2]common.Side{common.Buy, common.Sell}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		qty := decimal.NewFromFloat(0.01 + gen.Float64()*1.99)
		side := sides[i%2]
		if _, err := ob.AddOrder(decimal.Zero, qty, side, common.Market); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkLimitOrders mirrors test.cpp's benchmarkOrders(ob, N, false): a
// pre-filled book absorbing a stream of randomly priced LIMIT orders, most
// of which rest rather than cross.
func BenchmarkLimitOrders(b *testing.B) {
	ob := book.New("BTC-USDT")
	prefillOrderBook(b, ob, 200, "1")

	gen := rand.New(rand.NewSource(42))
	sides := [2]common.Side{common.Buy, common.Sell}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		price := decimal.NewFromFloat(59950 + gen.Float64()*100)
		qty := decimal.NewFromFloat(0.01 + gen.Float64()*1.99)
		side := sides[i%2]
		if _, err := ob.AddOrder(price, qty, side, common.Limit); err != nil {
			b.Fatal(err)
		}
	}
}
