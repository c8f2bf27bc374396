package gst

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func rates(cgst, sgst, igst string) Rates {
	return Rates{CGST: dec(cgst), SGST: dec(sgst), IGST: dec(igst)}
}

func TestCalculate_IntraState(t *testing.T) {
	b := Calculate(dec("1000.00"), "Uttarakhand", rates("9", "9", "18"))

	assert.True(t, b.Base.Equal(dec("847.46")), "base = %s", b.Base)
	assert.True(t, b.CGST.Equal(dec("76.27")), "cgst = %s", b.CGST)
	assert.True(t, b.SGST.Equal(dec("76.27")), "sgst = %s", b.SGST)
	assert.True(t, b.IGST.IsZero())
	assert.True(t, b.Total.Equal(dec("1000")), "total = %s", b.Total)
	assert.True(t, b.RoundOff.IsZero(), "round_off = %s", b.RoundOff)
}

func TestCalculate_InterState(t *testing.T) {
	b := Calculate(dec("1000.00"), "Delhi", rates("9", "9", "18"))

	assert.True(t, b.Base.Equal(dec("847.46")), "base = %s", b.Base)
	assert.True(t, b.CGST.IsZero())
	assert.True(t, b.SGST.IsZero())
	assert.True(t, b.IGST.Equal(dec("152.54")), "igst = %s", b.IGST)
	assert.True(t, b.Total.Equal(dec("1000")), "total = %s", b.Total)
	assert.True(t, b.RoundOff.IsZero(), "round_off = %s", b.RoundOff)
}

func TestCalculate_RoundOffCorrection(t *testing.T) {
	// 999 / 1.18 = 846.61, components sum to 998.99, rounded up to 999.
	b := Calculate(dec("999.00"), "Uttarakhand", rates("9", "9", "18"))

	assert.True(t, b.Base.Equal(dec("846.61")), "base = %s", b.Base)
	assert.True(t, b.CGST.Equal(dec("76.19")), "cgst = %s", b.CGST)
	assert.True(t, b.SGST.Equal(dec("76.19")), "sgst = %s", b.SGST)
	assert.True(t, b.Total.Equal(dec("999")), "total = %s", b.Total)
	assert.True(t, b.RoundOff.Equal(dec("0.01")), "round_off = %s", b.RoundOff)
}

func TestCalculate_StateComparisonIsCaseInsensitive(t *testing.T) {
	for _, state := range []string{"uttarakhand", "UTTARAKHAND", "UttaraKhand"} {
		b := Calculate(dec("500.00"), state, rates("9", "9", "18"))
		assert.True(t, b.IGST.IsZero(), "state %q should use CGST+SGST", state)
		assert.False(t, b.CGST.IsZero(), "state %q should use CGST+SGST", state)
	}

	b := Calculate(dec("500.00"), "Karnataka", rates("9", "9", "18"))
	assert.True(t, b.CGST.IsZero())
	assert.True(t, b.SGST.IsZero())
	assert.False(t, b.IGST.IsZero())
}

func TestCalculate_ZeroRates(t *testing.T) {
	b := Calculate(dec("250.00"), "Uttarakhand", Rates{})

	assert.True(t, b.Base.Equal(dec("250.00")))
	assert.True(t, b.CGST.IsZero())
	assert.True(t, b.SGST.IsZero())
	assert.True(t, b.IGST.IsZero())
	assert.True(t, b.Total.Equal(dec("250")))
	assert.True(t, b.RoundOff.IsZero())
}

func TestCalculate_TiesRoundHalfToEven(t *testing.T) {
	// With zero rates the subtotal lands on exactly .50, exercising the tie
	// policy: half rounds toward the even integer.
	b := Calculate(dec("100.50"), "Uttarakhand", Rates{})
	assert.True(t, b.Total.Equal(dec("100")), "100.50 rounds to 100, got %s", b.Total)
	assert.True(t, b.RoundOff.Equal(dec("-0.50")), "round_off = %s", b.RoundOff)

	b = Calculate(dec("101.50"), "Uttarakhand", Rates{})
	assert.True(t, b.Total.Equal(dec("102")), "101.50 rounds to 102, got %s", b.Total)
	assert.True(t, b.RoundOff.Equal(dec("0.50")), "round_off = %s", b.RoundOff)
}

func TestCalculate_StoredIdentityIsExact(t *testing.T) {
	cases := []struct {
		total string
		state string
	}{
		{"1000.00", "Uttarakhand"},
		{"1000.00", "Delhi"},
		{"999.00", "Uttarakhand"},
		{"123456.78", "Uttarakhand"},
		{"123456.78", "Maharashtra"},
		{"0.01", "Uttarakhand"},
		{"55000", "Delhi"},
	}
	r := rates("9", "9", "18")
	for _, tc := range cases {
		b := Calculate(dec(tc.total), tc.state, r)
		sum := b.Base.Add(b.CGST).Add(b.SGST).Add(b.IGST).Add(b.RoundOff)
		assert.True(t, sum.Equal(b.Total),
			"total=%s state=%s: %s != %s", tc.total, tc.state, sum, b.Total)
		assert.True(t, b.Total.Equal(b.Total.Truncate(0)),
			"stored total must be an integer value, got %s", b.Total)
	}
}

func TestCalculate_BaseReconstructsSubtotal(t *testing.T) {
	r := rates("9", "9", "18")
	tolerance := dec("0.03")
	for _, total := range []string{"1000.00", "999.00", "84745.76", "12.34"} {
		for _, state := range []string{"Uttarakhand", "Delhi"} {
			b := Calculate(dec(total), state, r)
			var rate decimal.Decimal
			if RegimeFor(state) == RegimeIntraState {
				rate = r.CGST.Add(r.SGST)
			} else {
				rate = r.IGST
			}
			reconstructed := b.Base.Mul(one.Add(rate.Div(hundred)))
			diff := reconstructed.Sub(dec(total)).Abs()
			assert.True(t, diff.LessThanOrEqual(tolerance),
				"total=%s state=%s: reconstructed %s", total, state, reconstructed)
		}
	}
}

func TestCalculate_NegativeInputsPropagate(t *testing.T) {
	// Known gap preserved at the calculator level: negative inputs are not
	// rejected, they flow into negative derived amounts.
	b := Calculate(dec("-118.00"), "Uttarakhand", rates("9", "9", "18"))
	assert.True(t, b.Base.IsNegative())
	assert.True(t, b.CGST.IsNegative())
}

func TestFiscalYear(t *testing.T) {
	cases := []struct {
		date string
		want int
	}{
		{"2025-03-31", 2024},
		{"2025-04-01", 2025},
		{"2024-12-15", 2024},
		{"2024-01-10", 2023},
		{"2024-04-30", 2024},
	}
	for _, tc := range cases {
		d, err := time.Parse("2006-01-02", tc.date)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, FiscalYear(d), "date %s", tc.date)
	}
}

func TestFiscalYearWindow(t *testing.T) {
	start, end := FiscalYearWindow(2024)
	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC), end)

	// Window edges agree with FiscalYear.
	assert.Equal(t, 2024, FiscalYear(start))
	assert.Equal(t, 2024, FiscalYear(end))
	assert.Equal(t, 2025, FiscalYear(end.AddDate(0, 0, 1)))
}
