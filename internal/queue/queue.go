// Package queue implements the per-side priority-ordered order queue: a
// container/heap of resting orders kept in price-time priority.
//
// This generalizes the teacher's BuyBook/SellBook pair. Those types
// declared Push(o Order) / Pop() Order, which does not satisfy
// container/heap.Interface (it requires Push(x any) / Pop() any) — a stale
// revision bug of exactly the kind spec.md §9 warns about. Queue fixes it
// by implementing the real interface, as github.com/mkhoshkam/orderbook's
// orderHeap/bidHeap/askHeap split does.
package queue

import (
	"container/heap"

	"fenrir/internal/common"
)

// LessFunc reports whether a has priority over b on this queue's side.
type LessFunc func(a, b common.Order) bool

// Queue is a price-time-ordered heap of resting orders for one side of a
// book. The zero value is not usable; construct with New.
type Queue struct {
	orders []*common.Order
	less   LessFunc
}

// New constructs an empty Queue using less to determine priority.
func New(less LessFunc) *Queue {
	q := &Queue{less: less}
	heap.Init(q)
	return q
}

// NewBids constructs the bid-side queue: higher price wins, ties broken by
// earlier timestamp.
func NewBids() *Queue {
	return New(func(a, b common.Order) bool {
		if !a.Price.Equal(b.Price) {
			return a.Price.GreaterThan(b.Price)
		}
		return a.Timestamp < b.Timestamp
	})
}

// NewAsks constructs the ask-side queue: lower price wins, ties broken by
// earlier timestamp.
func NewAsks() *Queue {
	return New(func(a, b common.Order) bool {
		if !a.Price.Equal(b.Price) {
			return a.Price.LessThan(b.Price)
		}
		return a.Timestamp < b.Timestamp
	})
}

// Empty reports whether the queue holds no resting orders.
func (q *Queue) Empty() bool { return len(q.orders) == 0 }

// Top returns the highest-priority order without removing it. ok is false
// if the queue is empty.
func (q *Queue) Top() (order common.Order, ok bool) {
	if len(q.orders) == 0 {
		return common.Order{}, false
	}
	return *q.orders[0], true
}

// PushOrder inserts order, preserving heap order.
func (q *Queue) PushOrder(order common.Order) {
	heap.Push(q, &order)
}

// PopOrder removes and returns the highest-priority order. ok is false if
// the queue was empty.
func (q *Queue) PopOrder() (order common.Order, ok bool) {
	if len(q.orders) == 0 {
		return common.Order{}, false
	}
	o := heap.Pop(q).(*common.Order)
	return *o, true
}

// heap.Interface -------------------------------------------------------

// Len reports the number of resting orders; also satisfies heap.Interface.
func (q *Queue) Len() int { return len(q.orders) }

func (q *Queue) Less(i, j int) bool {
	return q.less(*q.orders[i], *q.orders[j])
}

func (q *Queue) Swap(i, j int) {
	q.orders[i], q.orders[j] = q.orders[j], q.orders[i]
}

func (q *Queue) Push(x any) {
	q.orders = append(q.orders, x.(*common.Order))
}

func (q *Queue) Pop() any {
	old := q.orders
	n := len(old)
	o := old[n-1]
	old[n-1] = nil
	q.orders = old[:n-1]
	return o
}
