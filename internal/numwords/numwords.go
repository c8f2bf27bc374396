// Package numwords spells out integers in the Indian numbering system
// (thousand, lakh, crore) for the "amount in words" line on invoices.
package numwords

import "strings"

var ones = [...]string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight",
	"Nine", "Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = [...]string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy",
	"Eighty", "Ninety",
}

// Words returns n in Title Case English-India words, e.g.
// Words(118000) == "One Lakh Eighteen Thousand".
func Words(n int64) string {
	if n == 0 {
		return "Zero"
	}
	if n < 0 {
		return "Minus " + Words(-n)
	}

	crore := n / 10000000
	n %= 10000000
	lakh := n / 100000
	n %= 100000
	thousand := n / 1000
	n %= 1000

	var parts []string
	if crore > 0 {
		parts = append(parts, Words(crore)+" Crore")
	}
	if lakh > 0 {
		parts = append(parts, small(lakh)+" Lakh")
	}
	if thousand > 0 {
		parts = append(parts, small(thousand)+" Thousand")
	}
	if n > 0 {
		parts = append(parts, small(n))
	}
	return strings.Join(parts, " ")
}

// small handles 1..999.
func small(n int64) string {
	switch {
	case n < 20:
		return ones[n]
	case n < 100:
		s := tens[n/10]
		if n%10 != 0 {
			s += " " + ones[n%10]
		}
		return s
	default:
		s := ones[n/100] + " Hundred"
		if n%100 != 0 {
			s += " " + small(n%100)
		}
		return s
	}
}
