package billing

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TimestampLayout is UTC ISO-8601 with millisecond precision
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ToMajor converts minor currency units to major units without rounding
func ToMajor(minor int64) float64 {
	return float64(minor) / 100
}

// FormatTimestamp renders Unix epoch seconds as a UTC millisecond timestamp
func FormatTimestamp(epoch int64) string {
	return FormatTime(time.Unix(epoch, 0))
}

// FormatTime renders t in UTC with millisecond precision
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// FormatCurrency uppercases a currency code
func FormatCurrency(code string) string {
	return strings.ToUpper(code)
}

var amountPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatAmount renders minor units the way en-US displays currency, e.g. "$1,234.56".
// Unknown currency codes are rendered with the code as prefix, e.g. "XYZ 5.00".
func FormatAmount(minor int64, code string) string {
	upper := FormatCurrency(code)
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	number := amountPrinter.Sprintf("%.2f", ToMajor(minor))

	unit, err := currency.ParseISO(upper)
	if err != nil {
		return fmt.Sprintf("%s%s %s", sign, upper, number)
	}
	symbol := amountPrinter.Sprint(currency.Symbol(unit))
	if symbol == upper {
		return fmt.Sprintf("%s%s %s", sign, upper, number)
	}
	return sign + symbol + number
}
