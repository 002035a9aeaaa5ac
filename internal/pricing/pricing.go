// Package pricing holds the money helpers shared by the public API:
// INR formatting, EMI math and budget-label parsing.
package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

const (
	lakh  = 100_000
	crore = 10_000_000
)

// FormatINR renders an amount in the abbreviated Indian style used on
// listing cards: ₹1.25 Cr, ₹75 L, or a fully grouped figure below one lakh.
func FormatINR(amount int64) string {
	switch {
	case amount >= crore:
		return "₹" + trimUnit(float64(amount)/crore) + " Cr"
	case amount >= lakh:
		return "₹" + trimUnit(float64(amount)/lakh) + " L"
	default:
		return FormatINRFull(amount)
	}
}

// FormatINRFull renders an amount with full Indian digit grouping, e.g.
// ₹12,34,567.
func FormatINRFull(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + "₹" + groupIndian(amount)
}

// FormatPriceRange renders "₹50 L – ₹1.2 Cr" style ranges.
func FormatPriceRange(min, max int64) string {
	return FormatINR(min) + " – " + FormatINR(max)
}

// CalculateEMI computes the monthly installment for a fixed-rate amortizing
// loan, rounded to the nearest rupee. A zero rate degenerates to straight
// division.
func CalculateEMI(principal float64, annualRate float64, tenureYears int) int64 {
	n := float64(tenureYears * 12)
	if n == 0 {
		return 0
	}
	monthlyRate := annualRate / 12 / 100
	if monthlyRate == 0 {
		return int64(math.Round(principal / n))
	}
	factor := math.Pow(1+monthlyRate, n)
	emi := principal * monthlyRate * factor / (factor - 1)
	return int64(math.Round(emi))
}

// ParseBudgetLabel extracts a numeric lower bound in rupees from a budget
// bracket label such as "₹50L – ₹75L" or "Under ₹25 Lakh". The first embedded
// number wins and is scaled by the unit word that follows it (L/Lakh, Cr, K).
// Labels with no digits parse to 0.
func ParseBudgetLabel(label string) int64 {
	runes := []rune(label)
	start := -1
	for i, r := range runes {
		if unicode.IsDigit(r) {
			start = i
			break
		}
	}
	if start == -1 {
		return 0
	}

	end := start
	seenDot := false
	for end < len(runes) {
		r := runes[end]
		if unicode.IsDigit(r) {
			end++
			continue
		}
		if r == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		if r == ',' {
			end++
			continue
		}
		break
	}

	numStr := strings.ReplaceAll(string(runes[start:end]), ",", "")
	numStr = strings.TrimSuffix(numStr, ".")
	value, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0
	}

	return int64(math.Round(value * float64(unitAfter(runes[end:]))))
}

func unitAfter(rest []rune) int64 {
	i := 0
	for i < len(rest) && !unicode.IsLetter(rest[i]) {
		// Stop at the next digit: the unit must precede any further number.
		if unicode.IsDigit(rest[i]) {
			return 1
		}
		i++
	}
	j := i
	for j < len(rest) && unicode.IsLetter(rest[j]) {
		j++
	}
	word := strings.ToLower(string(rest[i:j]))
	switch {
	case strings.HasPrefix(word, "cr"):
		return crore
	case strings.HasPrefix(word, "l"):
		return lakh
	case strings.HasPrefix(word, "k"):
		return 1_000
	default:
		return 1
	}
}

func groupIndian(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	head := s[:len(s)-3]
	tail := s[len(s)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	parts = append([]string{head}, parts...)
	return strings.Join(parts, ",") + "," + tail
}

func trimUnit(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
