package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// EffectivePrice is what the learner pays for the certificate once their
// flexible price, if any, is applied. A nil product costs zero, which callers
// must read as "no certificate" rather than "free". The result is not clamped.
func EffectivePrice(p *Product) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}

	fp := p.FlexiblePrice
	if fp == nil {
		return p.Price
	}

	switch fp.DiscountType {
	case DollarsOff:
		return p.Price.Sub(fp.Amount)
	case PercentOff:
		return p.Price.Sub(fp.Amount.Div(hundred).Mul(p.Price))
	case FixedPrice:
		return fp.Amount
	default:
		return p.Price
	}
}

// FormatPrice renders an amount as US currency, e.g. "$1,234.50".
// Negative amounts render as "$0.00".
func FormatPrice(amount decimal.Decimal) string {
	if amount.IsNegative() {
		amount = decimal.Zero
	}

	s := amount.StringFixed(2)
	whole, cents := s[:len(s)-3], s[len(s)-2:]

	var b strings.Builder
	b.WriteByte('$')
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteByte('.')
	b.WriteString(cents)
	return b.String()
}
