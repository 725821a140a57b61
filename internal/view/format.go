// Package view turns typed view-models into HTML fragments. Every function is
// pure: the same input always renders the same markup.
package view

import (
	"strconv"
	"strings"
)

// Placeholder shown for absent numeric values.
const Placeholder = "-"

// NotAvailable is shown for absent text values in tables.
const NotAvailable = "N/A"

// FormatNumber groups the integer digits of n in threes with commas.
func FormatNumber(n int64) string {
	return groupDigits(strconv.FormatInt(n, 10))
}

// FormatDecimal is FormatNumber for floats, keeping the shortest exact
// fractional part (92090.5 -> "92,090.5").
func FormatDecimal(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	intPart, frac, hasFrac := strings.Cut(s, ".")
	out := groupDigits(intPart)
	if hasFrac {
		out += "." + frac
	}
	return out
}

// FormatPopulation abbreviates to millions or thousands with one decimal.
func FormatPopulation(p *int64) string {
	if p == nil {
		return Placeholder
	}
	switch n := *p; {
	case n >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 1, 64) + "K"
	default:
		return FormatNumber(n)
	}
}

func FormatArea(a *float64) string {
	if a == nil {
		return Placeholder
	}
	return FormatDecimal(*a) + " km²"
}

// OrNA returns *s, or NotAvailable when s is nil or blank.
func OrNA(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return NotAvailable
	}
	return *s
}

// Percent formats part/total*100 with one decimal. A zero total yields "0.0".
func Percent(part, total int) string {
	if total == 0 {
		return "0.0"
	}
	return strconv.FormatFloat(float64(part)/float64(total)*100, 'f', 1, 64)
}

func groupDigits(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	b.Grow(len(s) + len(s)/3)
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}
