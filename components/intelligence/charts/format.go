package charts

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var defaultPrinter = message.NewPrinter(language.English)

// FormatNumber renders an integer-rounded value with thousands separators.
func FormatNumber(value float64) string {
	return defaultPrinter.Sprintf("%d", int64(math.Round(value)))
}

// FormatCurrency renders a dollar amount rounded to whole units ("$100,000").
func FormatCurrency(value float64) string {
	if value < 0 {
		return "-$" + FormatNumber(-value)
	}
	return "$" + FormatNumber(value)
}

// FormatPercent renders a percentage, dropping the decimal part for whole numbers.
func FormatPercent(value float64) string {
	if value == math.Trunc(value) {
		return defaultPrinter.Sprintf("%d%%", int64(value))
	}
	return defaultPrinter.Sprintf("%.1f%%", value)
}

// FormatCompact abbreviates large values (12.4K, 1.2M) for summary cards.
func FormatCompact(value float64) string {
	abs := math.Abs(value)
	var out string
	switch {
	case abs >= 1_000_000:
		out = trimZero(defaultPrinter.Sprintf("%.1f", value/1_000_000)) + "M"
	case abs >= 1_000:
		out = trimZero(defaultPrinter.Sprintf("%.1f", value/1_000)) + "K"
	default:
		out = FormatNumber(value)
	}
	return out
}

func trimZero(value string) string {
	return strings.TrimSuffix(value, ".0")
}

// Tone is the colour family used for badges and fills.
type Tone string

const (
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
	ToneNeutral  Tone = "neutral"
)

// TrendBadge is the rendered state of a trend pill.
type TrendBadge struct {
	Text string `json:"text"`
	Tone Tone   `json:"tone"`
}

// Trend builds the pill for a signed percentage. Only the sign drives the tone.
func Trend(trend float64) TrendBadge {
	if trend >= 0 {
		return TrendBadge{Text: "+" + FormatPercent(trend), Tone: TonePositive}
	}
	return TrendBadge{Text: "-" + FormatPercent(-trend), Tone: ToneNegative}
}
