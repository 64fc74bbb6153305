package invoice

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var gb = message.NewPrinter(language.BritishEnglish)

// Money formats an amount as pounds sterling with thousands grouping, e.g. £1,234.50.
// Pence come straight from the decimal; only the whole pounds go through the
// locale formatter.
func Money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	whole, pence, _ := strings.Cut(d.StringFixed(2), ".")
	pounds, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return sign + "£" + whole + "." + pence
	}

	return sign + "£" + gb.Sprint(number.Decimal(pounds)) + "." + pence
}

// Percent prints a commission percentage with two decimals.
func Percent(d decimal.Decimal) string {
	return d.StringFixed(2)
}
