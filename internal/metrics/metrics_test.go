package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fenrir/internal/common"
	"fenrir/internal/metrics"
)

func TestCollectorExposesObservedActivity(t *testing.T) {
	c := metrics.New("XYZ")
	c.ObserveOrder(common.Buy, common.Limit)
	c.ObserveTrade(common.Trade{Quantity: decimal.RequireFromString("5")})
	c.SetBBO(10.5, 10.75)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	exposed := string(body)

	assert.True(t, strings.Contains(exposed, `fenrir_orders_total{side="BUY",symbol="XYZ",type="LIMIT"} 1`))
	assert.True(t, strings.Contains(exposed, `fenrir_trades_total{symbol="XYZ"} 1`))
	assert.True(t, strings.Contains(exposed, `fenrir_trade_volume_total{symbol="XYZ"} 5`))
	assert.True(t, strings.Contains(exposed, `fenrir_best_bid_price{symbol="XYZ"} 10.5`))
	assert.True(t, strings.Contains(exposed, `fenrir_best_ask_price{symbol="XYZ"} 10.75`))
}
