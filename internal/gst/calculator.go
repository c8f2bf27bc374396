package gst

import (
	"strings"

	"github.com/shopspring/decimal"
)

// HomeState is the state of GST registration. Invoices billed within it
// attract CGST+SGST; every other state attracts IGST.
const HomeState = "Uttarakhand"

// Regime selects which GST components apply to an invoice.
type Regime int

const (
	RegimeIntraState Regime = iota // CGST + SGST
	RegimeInterState               // IGST
)

// RegimeFor returns the regime for a billing state, compared
// case-insensitively against HomeState.
func RegimeFor(state string) Regime {
	if strings.EqualFold(state, HomeState) {
		return RegimeIntraState
	}
	return RegimeInterState
}

// Rates holds the configured GST percentage points for an invoice. A zero
// value for any rate is treated as zero percent, never as an error.
type Rates struct {
	CGST decimal.Decimal
	SGST decimal.Decimal
	IGST decimal.Decimal
}

// Breakdown is the decomposition of a tax-inclusive total. Total is the
// integer-rounded amount actually stored on the invoice, and
// Base + CGST + SGST + IGST + RoundOff == Total holds exactly.
type Breakdown struct {
	Base     decimal.Decimal
	CGST     decimal.Decimal
	SGST     decimal.Decimal
	IGST     decimal.Decimal
	RoundOff decimal.Decimal
	Total    decimal.Decimal
}

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Calculate reverses a tax-inclusive total into base and tax components.
// The base is recovered as total / (1 + rate/100) and quantized to two
// decimals before the tax components are derived from it, so the stored
// fields reconstitute the rounded total without residue. All rounding is
// half-to-even (banker's), including the final integer rounding of the
// subtotal that yields RoundOff.
func Calculate(total decimal.Decimal, state string, rates Rates) Breakdown {
	var b Breakdown
	if RegimeFor(state) == RegimeIntraState {
		combined := rates.CGST.Add(rates.SGST)
		b.Base = total.Div(one.Add(combined.Div(hundred))).RoundBank(2)
		b.CGST = b.Base.Mul(rates.CGST).Div(hundred).RoundBank(2)
		b.SGST = b.Base.Mul(rates.SGST).Div(hundred).RoundBank(2)
		b.IGST = decimal.Zero
	} else {
		b.Base = total.Div(one.Add(rates.IGST.Div(hundred))).RoundBank(2)
		b.CGST = decimal.Zero
		b.SGST = decimal.Zero
		b.IGST = b.Base.Mul(rates.IGST).Div(hundred).RoundBank(2)
	}

	subtotal := b.Base.Add(b.CGST).Add(b.SGST).Add(b.IGST)
	b.Total = subtotal.RoundBank(0)
	b.RoundOff = b.Total.Sub(subtotal)
	return b
}
