package currency_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"metalprices/internal/currency"
)

func TestFormatPrice(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		amount   float64
		code     string
		showIcon bool
		want     string
	}{
		{"rupee with icon", 166432.5, "INR", true, "₹166432.50"},
		{"rupee without icon", 166432.5, "INR", false, "166432.50 INR"},
		{"dollar with icon", 1950.75, "USD", true, "$1950.75"},
		{"euro with icon", 1800, "EUR", true, "€1800.00"},
		{"pound without icon", 1520.4, "GBP", false, "1520.40 GBP"},
		{"lowercase code accepted", 10, "usd", true, "$10.00"},
		{"zero amount", 0, "INR", true, "₹0.00"},
		{"unknown code falls back", 12.5, "JPY", true, "12.50 JPY"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, currency.FormatPrice(tc.amount, tc.code, tc.showIcon))
		})
	}
}

func TestFormatRupee_MatchesPrimaryFormatting(t *testing.T) {
	t.Parallel()
	require.Equal(t, "₹2500.00", currency.FormatRupee(2500, true))
	require.Equal(t, "2500.00 INR", currency.FormatRupee(2500, false))
}

func TestFormatForUI_FullAgreesWithFormatPrice(t *testing.T) {
	t.Parallel()
	amounts := []float64{0, 0.01, 1234.5, 9999999.99}
	for _, code := range currency.Supported() {
		for _, amount := range amounts {
			parts := currency.FormatForUI(amount, code)
			require.Equal(t, currency.FormatPrice(amount, code, true), parts.Full,
				"code=%s amount=%v", code, amount)
			require.Equal(t, code, parts.Code)
			require.NotEmpty(t, parts.Symbol)
		}
	}
}

func TestFormatForUI_UnknownCodeFallsBackToPrimary(t *testing.T) {
	t.Parallel()
	parts := currency.FormatForUI(100, "XYZ")
	require.Equal(t, "INR", parts.Code)
	require.Equal(t, "₹", parts.Symbol)
	require.Equal(t, "₹100.00", parts.Full)
}

func TestFormatLargeAmount(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		amount float64
		code   string
		want   string
	}{
		{"inr crore", 10000000, "INR", "1.00 Cr"},
		{"inr crore and a half", 25000000, "INR", "2.50 Cr"},
		{"inr lakh", 150000, "INR", "1.50 L"},
		{"inr thousand", 2500, "INR", "2.50 K"},
		{"inr under a thousand", 999.99, "INR", "999.99"},
		{"usd million", 2500000, "USD", "2.50 M"},
		{"usd billion", 1200000000, "USD", "1.20 B"},
		{"usd thousand", 45000, "USD", "45.00 K"},
		{"usd plain", 500, "USD", "500.00"},
		{"eur uses western scale", 150000, "EUR", "150.00 K"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, currency.FormatLargeAmount(tc.amount, tc.code))
		})
	}
}

func TestConvert(t *testing.T) {
	t.Parallel()
	// Same currency is a no-op regardless of case.
	require.InEpsilon(t, 123.45, currency.Convert(123.45, "inr", "INR"), 1e-9)

	// 1000 INR at 0.012 USD per INR.
	require.InDelta(t, 12.0, currency.Convert(1000, "INR", "USD"), 1e-9)

	// Round trip through the static table comes back where it started.
	usd := currency.Convert(166000, "INR", "USD")
	require.InDelta(t, 166000, currency.Convert(usd, "USD", "INR"), 1e-6)
}

func TestSupportedAndValidity(t *testing.T) {
	t.Parallel()
	require.Equal(t, []string{"INR", "USD", "EUR", "GBP"}, currency.Supported())
	require.True(t, currency.IsValid("eur"))
	require.False(t, currency.IsValid("JPY"))
	require.True(t, currency.IsPrimary("inr"))
	require.False(t, currency.IsPrimary("USD"))
	require.Equal(t, "₹", currency.Icon("INR"))
	require.Equal(t, "₹", currency.Icon("nope"))
	require.Equal(t, "British Pound", currency.Name("GBP"))
}
