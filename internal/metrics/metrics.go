// Package metrics exposes book activity as Prometheus collectors, grounded
// on abdoElHodaky-tradSys/internal/metrics's registry + promhttp.HandlerFor
// pattern (fx wiring dropped — this module has no DI framework in its
// stack).
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fenrir/internal/common"
)

// Collector wraps a dedicated registry with the book-activity gauges and
// counters this module exposes.
type Collector struct {
	registry *prometheus.Registry

	ordersTotal  *prometheus.CounterVec
	tradesTotal  prometheus.Counter
	tradeVolume  prometheus.Counter
	bestBidPrice prometheus.Gauge
	bestAskPrice prometheus.Gauge
}

// New constructs a Collector with its own registry (never the global
// default, so multiple books in one process don't collide on metric
// names).
func New(symbol string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		ordersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "fenrir",
			Name:        "orders_total",
			Help:        "Orders submitted, by side and order type.",
			ConstLabels: prometheus.Labels{"symbol": symbol},
		}, []string{"side", "type"}),
		tradesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "fenrir",
			Name:        "trades_total",
			Help:        "Trades emitted by the matching engine.",
			ConstLabels: prometheus.Labels{"symbol": symbol},
		}),
		tradeVolume: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "fenrir",
			Name:        "trade_volume_total",
			Help:        "Cumulative traded quantity.",
			ConstLabels: prometheus.Labels{"symbol": symbol},
		}),
		bestBidPrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "fenrir",
			Name:        "best_bid_price",
			Help:        "Current best bid price, 0 if the bid side is empty.",
			ConstLabels: prometheus.Labels{"symbol": symbol},
		}),
		bestAskPrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "fenrir",
			Name:        "best_ask_price",
			Help:        "Current best ask price, 0 if the ask side is empty.",
			ConstLabels: prometheus.Labels{"symbol": symbol},
		}),
	}

	registry.MustRegister(c.ordersTotal, c.tradesTotal, c.tradeVolume, c.bestBidPrice, c.bestAskPrice)
	return c
}

// ObserveOrder increments the order counter for side/type.
func (c *Collector) ObserveOrder(side common.Side, orderType common.OrderType) {
	c.ordersTotal.WithLabelValues(side.String(), orderType.String()).Inc()
}

// ObserveTrade increments the trade counter and cumulative volume.
func (c *Collector) ObserveTrade(trade common.Trade) {
	c.tradesTotal.Inc()
	qty, _ := trade.Quantity.Float64()
	c.tradeVolume.Add(qty)
}

// SetBBO updates the best-bid/best-ask gauges.
func (c *Collector) SetBBO(bidPrice, askPrice float64) {
	c.bestBidPrice.Set(bidPrice)
	c.bestAskPrice.Set(askPrice)
}

// Handler returns the HTTP handler serving this collector's registry in
// the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
