package pricing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMoney parses a free-text money amount such as "AED 1,200.50".
// Every character other than digits and '.' is dropped first, then the
// longest numeric prefix is read, so "1.2.3" is 1.2. No digits yields zero.
func ParseMoney(raw string) decimal.Decimal {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	d, err := decimal.NewFromString(numericPrefix(b.String()))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// numericPrefix returns the longest prefix of s, made of digits and dots,
// that reads as one decimal number
func numericPrefix(s string) string {
	end, digits := 0, 0
	seenDot := false
	for ; end < len(s); end++ {
		if s[end] == '.' {
			if seenDot {
				break
			}
			seenDot = true
			continue
		}
		digits++
	}
	if digits == 0 {
		return "0"
	}

	prefix := strings.TrimSuffix(s[:end], ".")
	if strings.HasPrefix(prefix, ".") {
		prefix = "0" + prefix
	}
	return prefix
}

// ParseCount parses a non-negative whole count from a JSON value. Strings use
// their leading integer ("3 slabs" is 3). Fractions are truncated. Unparsable
// or negative input yields zero.
func ParseCount(raw any) int {
	var n int64
	switch v := raw.(type) {
	case nil:
		return 0
	case int:
		n = int64(v)
	case int64:
		n = v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		n = int64(v)
	case json.Number:
		return ParseCount(string(v))
	case string:
		n = leadingInt(strings.TrimSpace(v))
	case bool:
		return 0
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	return int(n)
}

func leadingInt(s string) int64 {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ParseDimension parses a millimetre measurement. Missing, empty and
// unparsable values are reported as not valid.
func ParseDimension(raw any) decimal.NullDecimal {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(decimal.NewFromFloat(v))
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(v)))
	case json.Number:
		return ParseDimension(string(v))
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return decimal.NullDecimal{}
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(d)
	}
	return decimal.NullDecimal{}
}
