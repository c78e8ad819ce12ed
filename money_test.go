package docbuilder

import (
	"errors"
	"math"
	"testing"
)

func TestNewPriceBreakdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		net       Money
		wantVAT   Money
		wantTotal Money
	}{
		{"round thousands", MoneyFromFloat(10000), MoneyFromFloat(1800), MoneyFromFloat(11800)},
		{"agorot carry", MoneyFromFloat(100.50), MoneyFromFloat(18.09), MoneyFromFloat(118.59)},
		{"half agora rounds up", 25, 5, 30},    // 4.5 agorot
		{"below half rounds down", 2, 0, 2},    // 0.36 agorot
		{"above half rounds up", 3, 1, 4},      // 0.54 agorot
		{"negative rounds away", -25, -5, -30}, // credit notes
		{"zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := NewPriceBreakdown(tt.net)
			if got.Net != tt.net {
				t.Errorf("Net = %d, want %d", got.Net, tt.net)
			}
			if got.VAT != tt.wantVAT {
				t.Errorf("VAT = %d, want %d", got.VAT, tt.wantVAT)
			}
			if got.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", got.Total, tt.wantTotal)
			}
			if got.Total != got.Net+got.VAT {
				t.Errorf("Total %d != Net %d + VAT %d", got.Total, got.Net, got.VAT)
			}
		})
	}
}

func TestMoneyFromFloat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want Money
	}{
		{10000, 1000000},
		{0.1 + 0.2, 30},
		{19.999, 2000},
		{0.005, 1},
		{-12.34, -1234},
	}

	for _, tt := range tests {
		if got := MoneyFromFloat(tt.in); got != tt.want {
			t.Errorf("MoneyFromFloat(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		m    Money
		lang Language
		want string
	}{
		{"hebrew grouping", MoneyFromFloat(10000), Hebrew, "₪10,000"},
		{"english grouping", MoneyFromFloat(11800), English, "₪11,800"},
		{"fraction kept", MoneyFromFloat(1234.5), English, "₪1,234.5"},
		{"two fraction digits", MoneyFromFloat(118.59), Hebrew, "₪118.59"},
		{"small amount", MoneyFromFloat(18), Hebrew, "₪18"},
		{"unknown language uses english", MoneyFromFloat(1800), Language("fr"), "₪1,800"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatCurrency(tt.m, tt.lang); got != tt.want {
				t.Errorf("FormatCurrency(%d, %q) = %q, want %q", tt.m, tt.lang, got, tt.want)
			}
		})
	}
}

func TestDivRound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n, d, want int64
	}{
		{149, 100, 1},
		{150, 100, 2},
		{-149, 100, -1},
		{-150, 100, -2},
		{0, 100, 0},
	}

	for _, tt := range tests {
		if got := divRound(tt.n, tt.d); got != tt.want {
			t.Errorf("divRound(%d, %d) = %d, want %d", tt.n, tt.d, got, tt.want)
		}
	}
}

func TestValidatePrice(t *testing.T) {
	t.Parallel()

	ptr := func(v float64) *float64 { return &v }
	tests := []struct {
		name    string
		amount  *float64
		wantErr bool
	}{
		{"nil", nil, false},
		{"zero", ptr(0), false},
		{"at limit", ptr(MaxPriceAmount), false},
		{"negative at limit", ptr(-MaxPriceAmount), false},
		{"just over limit", ptr(MaxPriceAmount + 0.01), true},
		{"large vat overflow", ptr(6e15), true},
		{"large net overflow", ptr(1e17), true},
		{"nan", ptr(math.NaN()), true},
		{"infinity", ptr(math.Inf(1)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidatePrice(tt.amount)
			if tt.wantErr != errors.Is(err, ErrInvalidPrice) {
				t.Errorf("ValidatePrice() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewPriceBreakdown_AtLimit(t *testing.T) {
	t.Parallel()

	net := MoneyFromFloat(MaxPriceAmount)
	if net != 100_000_000_000_000 {
		t.Fatalf("MoneyFromFloat(MaxPriceAmount) = %d", net)
	}

	b := NewPriceBreakdown(net)
	if b.VAT != 18_000_000_000_000 {
		t.Errorf("VAT = %d, want 18000000000000", b.VAT)
	}
	if b.Total != b.Net+b.VAT || b.Total <= 0 {
		t.Errorf("Total = %d, want positive Net+VAT", b.Total)
	}
}
