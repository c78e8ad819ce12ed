package docbuilder

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// VATPercent is the fixed Israeli VAT rate applied to every price.
const VATPercent = 18

// CurrencySymbol prefixes every amount regardless of language.
const CurrencySymbol = "₪"

// MaxPriceAmount bounds the absolute shekel amount a document may carry.
// In agorot times VATPercent it stays far inside int64 and float64 keeps
// every agora exact.
const MaxPriceAmount = 1_000_000_000_000

// Money is an amount in agorot (1/100 of a shekel).
type Money int64

// ValidatePrice rejects amounts that are not finite or whose magnitude
// exceeds MaxPriceAmount. A nil amount is valid.
func ValidatePrice(amount *float64) error {
	if amount == nil {
		return nil
	}
	v := *amount
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > MaxPriceAmount {
		return fmt.Errorf("%w: %v (limit ±%d)", ErrInvalidPrice, v, int64(MaxPriceAmount))
	}
	return nil
}

// MoneyFromFloat converts a shekel amount to Money, rounding to the agora.
func MoneyFromFloat(v float64) Money {
	return Money(math.Round(v * 100))
}

// Float returns the amount in shekels.
func (m Money) Float() float64 {
	return float64(m) / 100
}

// PriceBreakdown is a pre-VAT price with its derived VAT and total.
// It is computed on demand and never stored.
type PriceBreakdown struct {
	Net   Money
	VAT   Money
	Total Money
}

// NewPriceBreakdown derives VAT (rounded half away from zero to the agora)
// and the VAT-inclusive total from a pre-VAT amount.
func NewPriceBreakdown(net Money) PriceBreakdown {
	vat := divRound(int64(net)*VATPercent, 100)
	return PriceBreakdown{
		Net:   net,
		VAT:   Money(vat),
		Total: net + Money(vat),
	}
}

func divRound(n, d int64) int64 {
	if n < 0 {
		return -((-n + d/2) / d)
	}
	return (n + d/2) / d
}

var localeTags = map[Language]language.Tag{
	Hebrew:  language.MustParse("he-IL"),
	English: language.AmericanEnglish,
}

// FormatNumber groups digits per the language's locale with at most two
// fraction digits ("10,000", "1,234.5").
func FormatNumber(m Money, lang Language) string {
	p := message.NewPrinter(localeTags[lang.Canonical()])
	return p.Sprintf("%v", number.Decimal(m.Float(), number.MaxFractionDigits(2)))
}

// FormatCurrency prefixes FormatNumber with the shekel sign.
func FormatCurrency(m Money, lang Language) string {
	return CurrencySymbol + FormatNumber(m, lang)
}
