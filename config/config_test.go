package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "savvy_loyalty", cfg.Database.DBName)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 200, cfg.Loyalty.SilverAt)
	assert.Equal(t, 550, cfg.Loyalty.GoldAt)
	assert.Equal(t, 5, cfg.Loyalty.VisitPoints)
	assert.Equal(t, 15, cfg.Loyalty.ReferralBonus)
	assert.Equal(t, 10, cfg.Loyalty.WelcomeBonus)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LOYALTY_SILVER_AT", "100")
	t.Setenv("LOYALTY_GOLD_AT", "400")
	t.Setenv("LOYALTY_VISIT_POINTS", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Loyalty.SilverAt)
	assert.Equal(t, 400, cfg.Loyalty.GoldAt)
	assert.Equal(t, 3, cfg.Loyalty.VisitPoints)
}

func TestLoadRejectsInvertedThresholds(t *testing.T) {
	t.Setenv("LOYALTY_SILVER_AT", "600")
	t.Setenv("LOYALTY_GOLD_AT", "550")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadIgnoresUnparseableInt(t *testing.T) {
	t.Setenv("LOYALTY_VISIT_POINTS", "a lot")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Loyalty.VisitPoints)
}

func TestGetDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "loyalty",
		Password: "secret",
		DBName:   "savvy_loyalty",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=loyalty password=secret dbname=savvy_loyalty sslmode=require",
		db.GetDSN())
}
