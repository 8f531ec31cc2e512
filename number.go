package calcx

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders f the way the display shows results: the shortest
// decimal that round-trips, switching to exponent form below 1e-6 and at
// or above 1e21.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0" // also -0
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseNumber reads the longest numeric prefix of s. A string with no
// numeric prefix reads as NaN.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	end := numericPrefix(s)
	if end == 0 {
		return math.NaN()
	}

	lit := s[:end]
	switch strings.TrimLeft(lit, "+-") {
	case "Infinity":
		if strings.HasPrefix(lit, "-") {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	// ParseFloat reports ErrRange alongside ±Inf or 0, which is the value we want.
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return v
}

// numericPrefix returns the length of the longest prefix of s that forms a
// decimal literal: [sign] (Infinity | digits [. digits] | . digits) [e [sign] digits].
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		return i + len("Infinity")
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expStart := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > expStart {
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
