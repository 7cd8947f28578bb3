package util

import "testing"

func TestFormatPriceBRL(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "R$ 0,00"},
		{50, "R$ 0,50"},
		{1250, "R$ 12,50"},
		{123456, "R$ 1.234,56"},
	}

	for _, tt := range tests {
		if got := FormatPriceBRL(tt.cents); got != tt.want {
			t.Errorf("FormatPriceBRL(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestFormatPriceRangeBRL(t *testing.T) {
	if got := FormatPriceRangeBRL(1000, 1000); got != "R$ 10,00" {
		t.Errorf("equal bounds = %q, want %q", got, "R$ 10,00")
	}
	if got := FormatPriceRangeBRL(1000, 1500); got != "R$ 10,00 – R$ 15,00" {
		t.Errorf("range = %q, want %q", got, "R$ 10,00 – R$ 15,00")
	}
}
