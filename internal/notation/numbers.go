package notation

import (
	"strconv"
	"strings"
)

// MaxSpelledNumber is the largest whole number spelled out in words. Larger
// numbers are left as digit strings.
const MaxSpelledNumber = 999

// SpellNumber returns n in words for -999 through 999 ("three hundred
// five"). Negative numbers are prefixed with "negative"; numbers beyond
// MaxSpelledNumber in either direction are returned as digits.
func SpellNumber(n int) string {
	if n < -MaxSpelledNumber {
		return strconv.Itoa(n)
	}
	if n < 0 {
		return "negative " + SpellNumber(-n)
	}
	switch {
	case n < 10:
		return onesWords[n]
	case n < 20:
		return teenWords[n-10]
	case n < 100:
		if n%10 == 0 {
			return tensWords[n/10]
		}
		return tensWords[n/10] + " " + onesWords[n%10]
	case n <= MaxSpelledNumber:
		words := onesWords[n/100] + " hundred"
		if rem := n % 100; rem > 0 {
			words += " " + SpellNumber(rem)
		}
		return words
	default:
		return strconv.Itoa(n)
	}
}

// spellDigits reads a digit string into words, falling back to the digits
// themselves when the value does not fit an int.
func spellDigits(digits string) string {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return digits
	}
	return SpellNumber(n)
}

// SpellDecimal reads a number literal such as "3.14" as
// "three point one four": the whole part in words, then each fractional
// digit on its own.
func SpellDecimal(literal string) string {
	whole, frac, ok := strings.Cut(literal, ".")
	if !ok || frac == "" {
		return spellDigits(literal)
	}

	var b strings.Builder
	b.WriteString(spellDigits(whole))
	b.WriteString(" point")
	for _, r := range frac {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(onesWords[r-'0'])
	}
	return b.String()
}
