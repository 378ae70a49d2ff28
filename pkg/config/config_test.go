package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.Eval.Source)
	assert.Equal(t, []int{10}, cfg.Eval.Ks)
	assert.Equal(t, 1.0, cfg.Eval.FBeta)
	assert.Equal(t, 1.5, cfg.Eval.DebiasIQRCoef)
	assert.Equal(t, int64(32), cfg.Eval.DebiasSeed)
	assert.False(t, cfg.Eval.Debias)
}

func TestLoad_EvalOverrides(t *testing.T) {
	t.Setenv("EVAL_SOURCE", "postgres")
	t.Setenv("EVAL_KS", "5, 10,20")
	t.Setenv("EVAL_CATALOG_SIZE", "1000")
	t.Setenv("EVAL_DEBIAS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Eval.Source)
	assert.Equal(t, []int{5, 10, 20}, cfg.Eval.Ks)
	assert.Equal(t, 1000, cfg.Eval.CatalogSize)
	assert.True(t, cfg.Eval.Debias)
}

func TestLoad_InvalidSource(t *testing.T) {
	t.Setenv("EVAL_SOURCE", "mongodb")

	_, err := Load()
	assert.ErrorContains(t, err, "EVAL_SOURCE")
}

func TestLoad_InvalidKs(t *testing.T) {
	t.Setenv("EVAL_KS", "10,zero")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("EVAL_KS", "-5")
	_, err = Load()
	assert.ErrorContains(t, err, "positive")
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "eval",
		Password: "secret",
		Database: "recmetrics",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=eval password=secret dbname=recmetrics sslmode=require",
		cfg.DatabaseDSN())
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", cfg.RedisAddr())
}
