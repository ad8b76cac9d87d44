package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Diopter is a fixed-point lens power with 2 decimal places (scale = 100).
//
// Rationale:
// - Lens powers come in 0.25 steps, so two fractional digits are exact
// - Stored as INTEGER in the DB (scaled), comparable and indexable
// - JSON stays a plain number with up to 2 decimals
type Diopter int64

const DiopterScale int64 = 100

func NewDiopterFromFloat64(v float64) Diopter {
	return Diopter(math.Round(v * float64(DiopterScale)))
}

func NewDiopterFromInt64Scaled(v int64) Diopter { return Diopter(v) }

func (d Diopter) Int64Scaled() int64 { return int64(d) }

func (d Diopter) Float64() float64 { return float64(d) / float64(DiopterScale) }

func (d Diopter) IsZero() bool { return d == 0 }

func (d Diopter) IsNegative() bool { return d < 0 }

// String returns a decimal string with 2 fractional digits, e.g. "-1.25".
func (d Diopter) String() string {
	neg := d < 0
	v := d
	if neg {
		v = -v
	}
	intPart := int64(v) / DiopterScale
	frac := int64(v) % DiopterScale
	if neg {
		return fmt.Sprintf("-%d.%02d", intPart, frac)
	}
	return fmt.Sprintf("%d.%02d", intPart, frac)
}

// MarshalJSON encodes Diopter as JSON number (not string), preserving 2 digits.
func (d Diopter) MarshalJSON() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalJSON accepts either a JSON number or string and parses to fixed-point.
func (d *Diopter) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = 0
		return nil
	}

	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := parseDiopterString(s)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}

	parsed, err := parseDiopterString(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func parseDiopterString(s string) (Diopter, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty diopter")
	}

	// Exponent form is not something optical catalogs produce, but accept it.
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("parse diopter: %w", err)
		}
		return NewDiopterFromFloat64(f), nil
	}

	sign := int64(1)
	if strings.HasPrefix(s, "-") {
		sign = -1
		s = strings.TrimPrefix(s, "-")
	} else if strings.HasPrefix(s, "+") {
		s = strings.TrimPrefix(s, "+")
	}

	parts := strings.SplitN(s, ".", 2)
	intPartStr := parts[0]
	fracStr := ""
	if len(parts) == 2 {
		fracStr = parts[1]
	}

	if intPartStr == "" {
		intPartStr = "0"
	}
	intPart, err := strconv.ParseInt(intPartStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse diopter integer part: %w", err)
	}

	// Normalize fractional part to 2 digits (pad right, truncate extra digits).
	if len(fracStr) > 2 {
		fracStr = fracStr[:2]
	}
	for len(fracStr) < 2 {
		fracStr += "0"
	}
	frac, err := strconv.ParseInt(fracStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse diopter fractional part: %w", err)
	}

	return Diopter(sign * (intPart*DiopterScale + frac)), nil
}
