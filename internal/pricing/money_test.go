package pricing_test

import (
	"encoding/json"
	"testing"

	"github.com/luxone/quotation-api/internal/pricing"
	"github.com/stretchr/testify/assert"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "AED 1,200", want: "1200.00"},
		{input: "1200.50", want: "1200.50"},
		{input: " 950 dirhams", want: "950.00"},
		{input: "", want: "0.00"},
		{input: "abc", want: "0.00"},
		{input: "1.2.3", want: "1.20"},
		{input: "AED 1,200.50.75", want: "1200.50"},
		{input: ".5", want: "0.50"},
		{input: "12.", want: "12.00"},
		{input: ".", want: "0.00"},
		{input: "..5", want: "0.00"},
		{input: "-40", want: "40.00"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, pricing.ParseMoney(tt.input).StringFixed(2))
		})
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  int
	}{
		{name: "string", input: "3", want: 3},
		{name: "string with unit", input: "3 slabs", want: 3},
		{name: "padded string", input: "  2 ", want: 2},
		{name: "float", input: float64(4), want: 4},
		{name: "fraction truncated", input: 2.9, want: 2},
		{name: "json number", input: json.Number("7"), want: 7},
		{name: "int", input: 5, want: 5},
		{name: "negative", input: "-2", want: 0},
		{name: "garbage", input: "many", want: 0},
		{name: "empty", input: "", want: 0},
		{name: "nil", input: nil, want: 0},
		{name: "bool", input: true, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pricing.ParseCount(tt.input))
		})
	}
}

func TestParseDimension(t *testing.T) {
	assert.True(t, pricing.ParseDimension("1200").Valid)
	assert.True(t, pricing.ParseDimension(float64(600)).Valid)
	assert.Equal(t, "600", pricing.ParseDimension(float64(600)).Decimal.String())
	assert.False(t, pricing.ParseDimension("").Valid)
	assert.False(t, pricing.ParseDimension("wide").Valid)
	assert.False(t, pricing.ParseDimension(nil).Valid)
}
