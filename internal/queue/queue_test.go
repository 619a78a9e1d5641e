package queue_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"fenrir/internal/common"
	"fenrir/internal/queue"
)

func order(price string, ts int64) common.Order {
	return common.Order{
		Price:     decimal.RequireFromString(price),
		Quantity:  decimal.NewFromInt(1),
		Timestamp: ts,
	}
}

func TestBidsHighestPriceFirst(t *testing.T) {
	q := queue.NewBids()
	q.PushOrder(order("10", 1))
	q.PushOrder(order("12", 2))
	q.PushOrder(order("11", 3))

	top, ok := q.Top()
	assert.True(t, ok)
	assert.True(t, top.Price.Equal(decimal.RequireFromString("12")))
}

func TestAsksLowestPriceFirst(t *testing.T) {
	q := queue.NewAsks()
	q.PushOrder(order("10", 1))
	q.PushOrder(order("8", 2))
	q.PushOrder(order("9", 3))

	top, ok := q.Top()
	assert.True(t, ok)
	assert.True(t, top.Price.Equal(decimal.RequireFromString("8")))
}

func TestTiePriceEarliestTimestampFirst(t *testing.T) {
	q := queue.NewBids()
	q.PushOrder(order("10", 5))
	q.PushOrder(order("10", 2))
	q.PushOrder(order("10", 8))

	top, ok := q.PopOrder()
	assert.True(t, ok)
	assert.Equal(t, int64(2), top.Timestamp)

	top, ok = q.PopOrder()
	assert.True(t, ok)
	assert.Equal(t, int64(5), top.Timestamp)

	top, ok = q.PopOrder()
	assert.True(t, ok)
	assert.Equal(t, int64(8), top.Timestamp)
}

func TestEmptyQueue(t *testing.T) {
	q := queue.NewBids()
	assert.True(t, q.Empty())
	_, ok := q.Top()
	assert.False(t, ok)
	_, ok = q.PopOrder()
	assert.False(t, ok)
}

func TestPopRemovesTop(t *testing.T) {
	q := queue.NewAsks()
	q.PushOrder(order("10", 1))
	q.PushOrder(order("11", 2))
	assert.Equal(t, 2, q.Len())

	top, ok := q.PopOrder()
	assert.True(t, ok)
	assert.True(t, top.Price.Equal(decimal.RequireFromString("10")))
	assert.Equal(t, 1, q.Len())
}
