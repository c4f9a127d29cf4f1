// Package rates resolves the exchange-rate and fee table used by the
// calculator, preferring a remote sheet and falling back to compiled-in values.
package rates

import (
	"encoding/json"
	"math"
	"sort"
)

const (
	KeyAdminGo       = "admin_go"
	KeyRateKR        = "rate_kr"
	KeyTransferFeeKR = "jasa_tf_kr"
	KeyShippingKR    = "ongkir_kr_default"
	KeyRateCH        = "rate_ch"
	KeyTransferFeeCH = "jasa_tf_ch"
	KeyShippingCH    = "ongkir_ch_default"
)

// RequiredKeys are the keys every resolved config carries.
var RequiredKeys = []string{
	KeyAdminGo,
	KeyRateKR,
	KeyTransferFeeKR,
	KeyShippingKR,
	KeyRateCH,
	KeyTransferFeeCH,
	KeyShippingCH,
}

var defaults = map[string]float64{
	KeyAdminGo:       7000,
	KeyRateKR:        11.80,
	KeyTransferFeeKR: 7000,
	KeyShippingKR:    2000,
	KeyRateCH:        2460,
	KeyTransferFeeCH: 10000,
	KeyShippingCH:    8,
}

// RateConfig is an immutable table of rates and fees keyed by name. Use With to
// derive a modified copy.
type RateConfig struct {
	values map[string]float64
}

// Default returns the compiled-in config.
func Default() RateConfig {
	return RateConfig{values: copyValues(defaults)}
}

// FromMap overlays finite values from m onto the defaults. Required keys that
// end up missing or non-finite keep their default value.
func FromMap(m map[string]float64) RateConfig {
	values := copyValues(defaults)
	for k, v := range m {
		if k == "" || !isFinite(v) {
			continue
		}
		values[k] = v
	}
	return RateConfig{values: values}.complete()
}

// Value returns the value stored under key. A required key that is absent
// yields its compiled-in default; any other absent key yields 0.
func (c RateConfig) Value(key string) float64 {
	if v, ok := c.values[key]; ok && isFinite(v) {
		return v
	}
	return defaults[key]
}

// lookup reports the stored value without falling back to defaults.
func (c RateConfig) lookup(key string) (float64, bool) {
	v, ok := c.values[key]
	return v, ok
}

// With returns a copy of c with key set to v.
func (c RateConfig) With(key string, v float64) RateConfig {
	values := copyValues(c.values)
	values[key] = v
	return RateConfig{values: values}.complete()
}

// Keys returns all keys in lexical order.
func (c RateConfig) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a copy of the underlying table.
func (c RateConfig) Map() map[string]float64 {
	return copyValues(c.complete().values)
}

// Equal reports whether both configs hold the same keys and values once
// required keys are filled in.
func (c RateConfig) Equal(other RateConfig) bool {
	a, b := c.complete().values, other.complete().values
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the config as a flat object of key to number.
func (c RateConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.complete().values)
}

// UnmarshalJSON decodes a flat object and overlays it onto the defaults, the
// same way FromMap does.
func (c *RateConfig) UnmarshalJSON(data []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*c = FromMap(m)
	return nil
}

// complete resets every required key that is missing or non-finite.
func (c RateConfig) complete() RateConfig {
	var fixed map[string]float64
	for _, k := range RequiredKeys {
		if v, ok := c.values[k]; ok && isFinite(v) {
			continue
		}
		if fixed == nil {
			fixed = copyValues(c.values)
		}
		fixed[k] = defaults[k]
	}
	if fixed == nil {
		return c
	}
	return RateConfig{values: fixed}
}

func copyValues(src map[string]float64) map[string]float64 {
	dst := make(map[string]float64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
