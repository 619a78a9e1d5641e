package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fenrir/internal/config"
)

func TestLoadWithNoPathReturnsDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default().Symbol, cfg.Symbol)
	assert.Equal(t, config.Default().Server.Port, cfg.Server.Port)
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsEmptySymbol(t *testing.T) {
	cfg := config.Default()
	cfg.Symbol = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositivePort(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsMissingFeeRates(t *testing.T) {
	cfg := config.Default()
	cfg.Fees.MakerRate = ""
	assert.Error(t, cfg.Validate())
}
