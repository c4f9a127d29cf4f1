package rates

import (
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

func TestDefault_HasCompiledInValues(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 7000.0, cfg.Value(KeyAdminGo))
	assert.Equal(t, 11.80, cfg.Value(KeyRateKR))
	assert.Equal(t, 7000.0, cfg.Value(KeyTransferFeeKR))
	assert.Equal(t, 2000.0, cfg.Value(KeyShippingKR))
	assert.Equal(t, 2460.0, cfg.Value(KeyRateCH))
	assert.Equal(t, 10000.0, cfg.Value(KeyTransferFeeCH))
	assert.Equal(t, 8.0, cfg.Value(KeyShippingCH))
	assert.Len(t, cfg.Keys(), len(RequiredKeys))
}

func TestRateConfig_WithDoesNotMutate(t *testing.T) {
	base := Default()
	changed := base.With(KeyRateKR, 12.5)

	assert.Equal(t, 11.80, base.Value(KeyRateKR))
	assert.Equal(t, 12.5, changed.Value(KeyRateKR))
	assert.False(t, base.Equal(changed))
}

func TestRateConfig_MapIsACopy(t *testing.T) {
	cfg := Default()
	m := cfg.Map()
	m[KeyAdminGo] = 1

	assert.Equal(t, 7000.0, cfg.Value(KeyAdminGo))
}

func TestFromMap_FillsGapsFromDefaults(t *testing.T) {
	cfg := FromMap(map[string]float64{
		KeyRateKR:   12,
		KeyRateCH:   math.NaN(),
		"promo_fee": 500,
	})

	assert.Equal(t, 12.0, cfg.Value(KeyRateKR))
	assert.Equal(t, 2460.0, cfg.Value(KeyRateCH))
	assert.Equal(t, 7000.0, cfg.Value(KeyAdminGo))

	v, ok := cfg.lookup("promo_fee")
	assert.True(t, ok)
	assert.Equal(t, 500.0, v)
}

func TestRateConfig_ZeroValueFallsBackToDefaults(t *testing.T) {
	var cfg RateConfig

	assert.Equal(t, 11.80, cfg.Value(KeyRateKR))
	assert.True(t, cfg.Equal(Default()))
}

func TestRateConfig_JSON(t *testing.T) {
	data, err := json.Marshal(Default().With("extra", 1))
	require.NoError(t, err)

	var m map[string]float64
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, 11.8, m[KeyRateKR])
	assert.Equal(t, 1.0, m["extra"])
	for _, k := range RequiredKeys {
		assert.Contains(t, m, k)
	}

	var partial RateConfig
	require.NoError(t, json.Unmarshal([]byte(`{"rate_kr": 12.1}`), &partial))
	assert.Equal(t, 12.1, partial.Value(KeyRateKR))
	assert.Equal(t, 2460.0, partial.Value(KeyRateCH))
	assert.Len(t, partial.Keys(), len(RequiredKeys))

	var bad RateConfig
	assert.Error(t, json.Unmarshal([]byte(`{"rate_kr": "abc"}`), &bad))
}
