package models

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strings"
)

// NotAvailable replaces NaN and ±Inf wherever a metric is rendered.
const NotAvailable = "N/A"

func (m MonthlyReturn) MarshalJSON() ([]byte, error) {
	type plain MonthlyReturn
	return marshalFinite(plain(m))
}

func (m MonthlyStats) MarshalJSON() ([]byte, error) {
	type plain MonthlyStats
	return marshalFinite(plain(m))
}

func (d DrawdownPeriod) MarshalJSON() ([]byte, error) {
	type plain DrawdownPeriod
	return marshalFinite(plain(d))
}

func (m ReturnMetrics) MarshalJSON() ([]byte, error) {
	type plain ReturnMetrics
	return marshalFinite(plain(m))
}

func (m RiskMetrics) MarshalJSON() ([]byte, error) {
	type plain RiskMetrics
	return marshalFinite(plain(m))
}

func (m TradingMetrics) MarshalJSON() ([]byte, error) {
	type plain TradingMetrics
	return marshalFinite(plain(m))
}

func (b BenchmarkComparison) MarshalJSON() ([]byte, error) {
	type plain BenchmarkComparison
	return marshalFinite(plain(b))
}

// marshalFinite encodes a flat struct in field order, writing non-finite
// float64 fields as NotAvailable. Nested values use their own encoding.
func marshalFinite(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	rt := rv.Type()
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fv := rv.Field(i)
		if strings.Contains(opts, "omitempty") && fv.IsZero() {
			continue
		}

		var val any = fv.Interface()
		if fv.Kind() == reflect.Float64 {
			if x := fv.Float(); math.IsNaN(x) || math.IsInf(x, 0) {
				val = NotAvailable
			}
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
