package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Primary is the currency every formatting function defaults to.
const Primary = "INR"

// Info is the static configuration for one supported currency.
type Info struct {
	Code          string `json:"code"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Icon          string `json:"icon"`
	Position      string `json:"position"` // "before" or "after"
	DecimalPlaces int32  `json:"decimalPlaces"`
}

var currencies = map[string]Info{
	"INR": {Code: "INR", Symbol: "₹", Name: "Indian Rupee", Icon: "₹", Position: "before", DecimalPlaces: 2},
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar", Icon: "$", Position: "before", DecimalPlaces: 2},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro", Icon: "€", Position: "before", DecimalPlaces: 2},
	"GBP": {Code: "GBP", Symbol: "£", Name: "British Pound", Icon: "£", Position: "before", DecimalPlaces: 2},
}

// Rates relative to INR, used by Convert. Static, not market data.
var exchangeRates = map[string]float64{
	"INR": 1,
	"USD": 0.012,
	"EUR": 0.011,
	"GBP": 0.0096,
}

// supportedOrder keeps listing output stable.
var supportedOrder = []string{"INR", "USD", "EUR", "GBP"}

// Get returns the configuration for code (case-insensitive).
func Get(code string) (Info, bool) {
	info, ok := currencies[strings.ToUpper(code)]
	return info, ok
}

// PrimaryInfo returns the configuration of the primary currency.
func PrimaryInfo() Info {
	return currencies[Primary]
}

// Supported returns the supported currency codes in stable order.
func Supported() []string {
	out := make([]string, len(supportedOrder))
	copy(out, supportedOrder)
	return out
}

// IsValid reports whether code names a supported currency.
func IsValid(code string) bool {
	_, ok := currencies[strings.ToUpper(code)]
	return ok
}

// IsPrimary reports whether code is the primary currency.
func IsPrimary(code string) bool {
	return strings.ToUpper(code) == Primary
}

// Icon returns the display glyph for code, falling back to the primary
// currency's glyph for unknown codes.
func Icon(code string) string {
	if info, ok := Get(code); ok {
		return info.Icon
	}
	return PrimaryInfo().Icon
}

// Name returns the display name for code, or "" when unknown.
func Name(code string) string {
	info, _ := Get(code)
	return info.Name
}

// FormatPrice renders amount in the given currency. With showIcon the glyph
// is placed per the currency's position; without it the code is appended.
// Unknown codes fall back to "<amount> <code>".
func FormatPrice(amount float64, code string, showIcon bool) string {
	info, ok := Get(code)
	if !ok {
		return fmt.Sprintf("%s %s", fixed(amount, 2), code)
	}
	s := fixed(amount, info.DecimalPlaces)
	if !showIcon {
		return fmt.Sprintf("%s %s", s, info.Code)
	}
	if info.Position == "after" {
		return s + info.Icon
	}
	return info.Icon + s
}

// FormatRupee renders amount in the primary currency.
func FormatRupee(amount float64, showIcon bool) string {
	return FormatPrice(amount, Primary, showIcon)
}

// Parts carries a formatted price broken into pieces for flexible rendering.
type Parts struct {
	Symbol string `json:"symbol"`
	Amount string `json:"amount"`
	Code   string `json:"code"`
	Full   string `json:"full"`
	Icon   string `json:"icon"`
}

// FormatForUI formats amount into parts. Unknown codes fall back to the
// primary currency.
func FormatForUI(amount float64, code string) Parts {
	info, ok := Get(code)
	if !ok {
		info = PrimaryInfo()
	}
	return Parts{
		Symbol: info.Symbol,
		Amount: fixed(amount, info.DecimalPlaces),
		Code:   info.Code,
		Full:   FormatPrice(amount, info.Code, true),
		Icon:   info.Icon,
	}
}

// FormatLargeAmount abbreviates amount with a magnitude suffix: thousands,
// lakhs and crores for INR, thousands/millions/billions otherwise. Amounts
// under a thousand come back plain with two decimals.
func FormatLargeAmount(amount float64, code string) string {
	d := decimal.NewFromFloat(amount)
	if strings.ToUpper(code) == "INR" {
		switch {
		case amount >= 1e7:
			return scaled(d, 1e7) + " Cr"
		case amount >= 1e5:
			return scaled(d, 1e5) + " L"
		case amount >= 1e3:
			return scaled(d, 1e3) + " K"
		}
	} else {
		switch {
		case amount >= 1e9:
			return scaled(d, 1e9) + " B"
		case amount >= 1e6:
			return scaled(d, 1e6) + " M"
		case amount >= 1e3:
			return scaled(d, 1e3) + " K"
		}
	}
	return d.StringFixed(2)
}

// Convert converts amount between two supported currencies using the static
// rate table. Unknown codes are treated as rate 1.
func Convert(amount float64, from, to string) float64 {
	if strings.EqualFold(from, to) {
		return amount
	}
	fromRate, ok := exchangeRates[strings.ToUpper(from)]
	if !ok {
		fromRate = 1
	}
	toRate, ok := exchangeRates[strings.ToUpper(to)]
	if !ok {
		toRate = 1
	}
	base := decimal.NewFromFloat(amount).Div(decimal.NewFromFloat(fromRate))
	out, _ := base.Mul(decimal.NewFromFloat(toRate)).Float64()
	return out
}

func fixed(amount float64, places int32) string {
	return decimal.NewFromFloat(amount).StringFixed(places)
}

func scaled(d decimal.Decimal, div float64) string {
	return d.Div(decimal.NewFromFloat(div)).StringFixed(2)
}
