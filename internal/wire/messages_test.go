package wire_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fenrir/internal/common"
	"fenrir/internal/wire"
)

func TestNewOrderRoundTrip(t *testing.T) {
	msg := wire.NewOrderMessage{
		Side:      common.Sell,
		OrderType: common.FOK,
		Price:     decimal.RequireFromString("101.50"),
		Quantity:  decimal.RequireFromString("12.34"),
		Owner:     "alice",
	}

	encoded := msg.Encode()
	typeOf, body, err := wire.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, wire.NewOrder, typeOf)

	decoded, err := wire.DecodeNewOrder(body)
	require.NoError(t, err)
	assert.Equal(t, msg.Side, decoded.Side)
	assert.Equal(t, msg.OrderType, decoded.OrderType)
	assert.True(t, msg.Price.Equal(decoded.Price))
	assert.True(t, msg.Quantity.Equal(decoded.Quantity))
	assert.Equal(t, msg.Owner, decoded.Owner)
}

func TestReportRoundTrip(t *testing.T) {
	trade := common.Trade{
		TradeID:       7,
		Symbol:        "XYZ",
		Price:         decimal.RequireFromString("10"),
		Quantity:      decimal.RequireFromString("5"),
		Timestamp:     1234,
		MakerOrderID:  1,
		TakerOrderID:  2,
		AggressorSide: common.Buy,
		MakerFee:      decimal.RequireFromString("0.01"),
		TakerFee:      decimal.RequireFromString("0.02"),
	}
	report := wire.TradeReport("XYZ", trade)

	encoded := report.Encode()
	decoded, err := wire.DecodeReport(encoded)
	require.NoError(t, err)

	assert.Equal(t, wire.ExecutionReport, decoded.Type)
	assert.Equal(t, trade.Symbol, decoded.Symbol)
	assert.True(t, trade.Price.Equal(decoded.Price))
	assert.True(t, trade.Quantity.Equal(decoded.Quantity))
	assert.Equal(t, trade.MakerOrderID, decoded.MakerOrderID)
	assert.Equal(t, trade.TakerOrderID, decoded.TakerOrderID)
	assert.Equal(t, trade.AggressorSide, decoded.AggressorSide)
	assert.True(t, trade.MakerFee.Equal(decoded.MakerFee))
	assert.True(t, trade.TakerFee.Equal(decoded.TakerFee))
}

func TestErrorReportRoundTrip(t *testing.T) {
	report := wire.ErrorReportMsg(common.ErrInvalidQuantity)
	decoded, err := wire.DecodeReport(report.Encode())
	require.NoError(t, err)
	assert.Equal(t, wire.ErrorReport, decoded.Type)
	assert.Equal(t, common.ErrInvalidQuantity.Error(), decoded.Err)
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	buf := []byte{0xFF, 0xFF}
	_, _, err := wire.Decode(buf)
	assert.ErrorIs(t, err, wire.ErrInvalidMessageType)
}

func TestDecodeRejectsShortMessage(t *testing.T) {
	_, _, err := wire.Decode([]byte{0x00})
	assert.ErrorIs(t, err, wire.ErrMessageTooShort)
}
