// Package format renders market figures for display. Every function
// takes a pointer so that an unknown figure renders as NotAvailable
// instead of as zero.
package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is shown for unknown figures.
const NotAvailable = "N/A"

var printer = message.NewPrinter(language.English)

type unit struct {
	threshold float64
	suffix    string
}

var units = []unit{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Price formats a unit price with precision that grows as the price shrinks.
func Price(price *float64) string {
	if price == nil {
		return NotAvailable
	}
	p := *price
	switch {
	case p == 0:
		return "$0.00"
	case p < 0.01:
		return "$" + fixed(p, 6)
	case p < 1:
		return "$" + fixed(p, 4)
	case p < 100:
		return "$" + fixed(p, 2)
	default:
		rounded := decimal.NewFromFloat(p).Round(2).InexactFloat64()
		return "$" + printer.Sprintf("%.2f", rounded)
	}
}

// LargeNumber abbreviates n with a T/B/M/K suffix and two decimals.
func LargeNumber(n *float64) string {
	if n == nil {
		return NotAvailable
	}
	for _, u := range units {
		if *n >= u.threshold {
			return fixed(*n/u.threshold, 2) + u.suffix
		}
	}
	return fixed(*n, 2)
}

// MarketCap formats a monetary aggregate, e.g. "$1.23B".
func MarketCap(marketCap *float64) string {
	if marketCap == nil {
		return NotAvailable
	}
	return "$" + LargeNumber(marketCap)
}

// Volume formats a traded volume the same way as MarketCap.
func Volume(volume *float64) string {
	return MarketCap(volume)
}

// Percentage formats a signed percentage, e.g. "+1.20%" or "-3.46%".
func Percentage(percentage *float64) string {
	if percentage == nil {
		return NotAvailable
	}
	rounded := fixed(*percentage, 2)
	switch {
	case *percentage >= 0:
		return "+" + rounded + "%"
	case !strings.HasPrefix(rounded, "-"):
		// negatives that round to zero keep their sign
		return "-" + rounded + "%"
	default:
		return rounded + "%"
	}
}

// Tone classifies a percentage change for colouring.
type Tone string

const (
	ToneNeutral  Tone = "neutral"
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
)

// ToneOf returns the tone of a percentage change.
func ToneOf(percentage *float64) Tone {
	switch {
	case percentage == nil:
		return ToneNeutral
	case *percentage >= 0:
		return TonePositive
	default:
		return ToneNegative
	}
}

// Date formats an RFC 3339 timestamp as "Jan 2, 2006".
func Date(value string) string {
	if value == "" {
		return NotAvailable
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return "Invalid Date"
	}
	return DateOf(t)
}

// DateOf formats t as "Jan 2, 2006"; the zero time is unknown.
func DateOf(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}
	return t.Format("Jan 2, 2006")
}
