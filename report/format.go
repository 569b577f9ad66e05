package report

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatDecimal rounds d to places and adds thousands separators to the
// integer part: FormatDecimal(1234567.891, 2) returns "1,234,567.89".
func FormatDecimal(d decimal.Decimal, places int32) string {
	fixed := d.StringFixed(places)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}

	intPart, frac, hasFrac := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		// beyond int64; leave ungrouped
		return sign + fixed
	}

	out := sign + printer.Sprintf("%d", n)
	if hasFrac {
		out += "." + frac
	}
	return out
}

// FormatPercent renders a 0-100 share with one decimal place.
func FormatPercent(share decimal.Decimal) string {
	return share.StringFixed(1) + "%"
}
