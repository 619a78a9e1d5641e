package levels_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"fenrir/internal/levels"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestUpdateInsertsAndAggregates(t *testing.T) {
	m := levels.NewBidLevels()
	m.Update(d("10"), d("5"))
	m.Update(d("10"), d("3"))

	top, ok := m.Top()
	assert.True(t, ok)
	assert.True(t, top.Quantity.Equal(d("8")))
}

func TestUpdateErasesNonPositive(t *testing.T) {
	m := levels.NewAskLevels()
	m.Update(d("10"), d("5"))
	m.Update(d("10"), d("-5"))

	_, ok := m.Top()
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestBidOrderingDescending(t *testing.T) {
	m := levels.NewBidLevels()
	m.Update(d("10"), d("1"))
	m.Update(d("12"), d("1"))
	m.Update(d("11"), d("1"))

	ls := m.Levels(0)
	assert.Len(t, ls, 3)
	assert.True(t, ls[0].Price.Equal(d("12")))
	assert.True(t, ls[1].Price.Equal(d("11")))
	assert.True(t, ls[2].Price.Equal(d("10")))
}

func TestAskOrderingAscending(t *testing.T) {
	m := levels.NewAskLevels()
	m.Update(d("10"), d("1"))
	m.Update(d("8"), d("1"))
	m.Update(d("9"), d("1"))

	ls := m.Levels(0)
	assert.Len(t, ls, 3)
	assert.True(t, ls[0].Price.Equal(d("8")))
	assert.True(t, ls[1].Price.Equal(d("9")))
	assert.True(t, ls[2].Price.Equal(d("10")))
}

func TestLevelsRespectsDepth(t *testing.T) {
	m := levels.NewAskLevels()
	m.Update(d("10"), d("1"))
	m.Update(d("11"), d("1"))
	m.Update(d("12"), d("1"))

	assert.Len(t, m.Levels(2), 2)
	assert.Len(t, m.Levels(0), 3)
}

func TestUpdateOnMissingPriceWithNonPositiveDeltaIsNoop(t *testing.T) {
	m := levels.NewBidLevels()
	m.Update(d("10"), d("-5"))
	assert.Equal(t, 0, m.Len())
}
