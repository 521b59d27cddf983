package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		region string
		want   string
	}{
		{
			name:   "BR thousands grouping",
			amount: 1234.5,
			region: "BR",
			want:   "1.234,50",
		},
		{
			name:   "GLOBAL thousands grouping",
			amount: 1234.5,
			region: "GLOBAL",
			want:   "1,234.50",
		},
		{
			name:   "BR no grouping needed",
			amount: 500,
			region: "BR",
			want:   "500,00",
		},
		{
			name:   "BR millions",
			amount: 1234567.89,
			region: "BR",
			want:   "1.234.567,89",
		},
		{
			name:   "GLOBAL millions",
			amount: 1234567.89,
			region: "GLOBAL",
			want:   "1,234,567.89",
		},
		{
			name:   "zero amount",
			amount: 0,
			region: "BR",
			want:   "0,00",
		},
		{
			name:   "negative amount BR",
			amount: -1234.5,
			region: "BR",
			want:   "-1.234,50",
		},
		{
			name:   "unknown region uses global convention",
			amount: 1234.5,
			region: "US",
			want:   "1,234.50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(tt.amount, tt.region))
		})
	}
}

func TestLabelsFor(t *testing.T) {
	tests := []struct {
		name       string
		region     string
		wantSymbol string
		wantBrand  string
	}{
		{
			name:       "BR labels",
			region:     "BR",
			wantSymbol: "R$",
			wantBrand:  "THRONECLASH",
		},
		{
			name:       "GLOBAL labels",
			region:     "GLOBAL",
			wantSymbol: "$",
			wantBrand:  "THRONECLASH GLOBAL",
		},
		{
			name:       "unrecognized region falls back to BR",
			region:     "FR",
			wantSymbol: "R$",
			wantBrand:  "THRONECLASH",
		},
		{
			name:       "empty region falls back to BR",
			region:     "",
			wantSymbol: "R$",
			wantBrand:  "THRONECLASH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labels := LabelsFor(tt.region)
			assert.Equal(t, tt.wantSymbol, labels.CurrencySymbol)
			assert.Equal(t, tt.wantBrand, labels.Brand)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "BR", Normalize(""))
	assert.Equal(t, "BR", Normalize("br"))
	assert.Equal(t, "GLOBAL", Normalize("global"))
	assert.Equal(t, "GLOBAL", Normalize(" Global "))
	assert.Equal(t, "US", Normalize("us"))
}
