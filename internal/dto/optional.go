package dto

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var jsonNull = []byte("null")

// Optional distinguishes a field that was absent from the request body from
// one explicitly sent as null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		var zero T
		o.Null = true
		o.Value = zero
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Present reports whether the field was sent with a non-null value.
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}

// FlexibleNumber accepts a JSON number or a numeric string. Anything else
// decodes without error as an invalid (zero) value.
type FlexibleNumber struct {
	Value float64
	Valid bool
}

func Number(v float64) FlexibleNumber {
	return FlexibleNumber{Value: v, Valid: true}
}

func (n *FlexibleNumber) UnmarshalJSON(data []byte) error {
	*n = FlexibleNumber{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		n.set(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return nil
	}
	n.set(f)
	return nil
}

func (n *FlexibleNumber) set(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return
	}
	*n = FlexibleNumber{Value: f, Valid: true}
}

// Decimal converts the value to a money amount with cent precision; invalid
// values become zero.
func (n FlexibleNumber) Decimal() decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	return decimal.NewFromFloat(n.Value).Round(2)
}

func (n FlexibleNumber) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return jsonNull, nil
	}
	return json.Marshal(n.Value)
}
