package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount as Brazilian reais, e.g. "R$ 1.500,50".
func FormatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%sR$ %s,%s", sign, b.String(), frac)
}

// FormatPercent renders a rate already expressed in percent.
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}

func itoa(n int) string { return strconv.Itoa(n) }

func delta(n int) string {
	if n <= 0 {
		return ""
	}
	return "+" + strconv.Itoa(n) + " this month"
}
