package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Num is a number that may be absent. The zero value is "no value".
type Num struct {
	Value float64
	Valid bool
}

func Some(v float64) Num {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Num{}
	}
	return Num{Value: v, Valid: true}
}

func None() Num { return Num{} }

// ParseNum parses a decimal string. Empty or malformed input yields None.
func ParseNum(s string) Num {
	if s == "" {
		return Num{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Num{}
	}
	f, _ := d.Float64()
	return Some(f)
}

// Ptr returns nil for None, for nullable columns.
func (n Num) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

func NumFromPtr(p *float64) Num {
	if p == nil {
		return Num{}
	}
	return Some(*p)
}

func (n Num) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts numbers and numeric strings. Anything it cannot read
// as a finite number becomes None rather than an error.
func (n *Num) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*n = Num{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		*n = ParseNum(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return nil
	}
	*n = Some(f)
	return nil
}
