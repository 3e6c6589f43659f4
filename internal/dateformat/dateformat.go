package dateformat

import (
	"regexp"
	"strconv"
	"time"
)

// DefaultPattern is used when Format receives an empty pattern
const DefaultPattern = "yyyy-MM-dd HH:mm:ss.S"

var yearPattern = regexp.MustCompile(`y+`)

// token maps a pattern run to the time component it stands for
type token struct {
	pattern *regexp.Regexp
	value   func(t time.Time) int
}

// tokens are applied in this order after the year
var tokens = []token{
	{regexp.MustCompile(`M+`), func(t time.Time) int { return int(t.Month()) }},
	{regexp.MustCompile(`d+`), func(t time.Time) int { return t.Day() }},
	{regexp.MustCompile(`H+`), func(t time.Time) int { return t.Hour() }},
	{regexp.MustCompile(`m+`), func(t time.Time) int { return t.Minute() }},
	{regexp.MustCompile(`s+`), func(t time.Time) int { return t.Second() }},
	{regexp.MustCompile(`q+`), func(t time.Time) int { return (int(t.Month()) + 2) / 3 }},
	{regexp.MustCompile(`S`), func(t time.Time) int { return t.Nanosecond() / int(time.Millisecond) }},
}

// Date is a time that formats itself with token patterns
type Date time.Time

// Format renders d with pattern
func (d Date) Format(pattern string) string {
	return Format(time.Time(d), pattern)
}

// Format renders t with pattern, reading components in t's location.
//
// The year run of length N keeps the last N digits of the year. Other runs of
// length 1 print the bare number; longer runs print it zero-padded to two
// digits.
func Format(t time.Time, pattern string) string {
	if pattern == "" {
		pattern = DefaultPattern
	}

	if loc := yearPattern.FindStringIndex(pattern); loc != nil {
		year := strconv.Itoa(t.Year())
		pattern = pattern[:loc[0]] + substr(year, 4-(loc[1]-loc[0])) + pattern[loc[1]:]
	}

	for _, tok := range tokens {
		loc := tok.pattern.FindStringIndex(pattern)
		if loc == nil {
			continue
		}
		value := strconv.Itoa(tok.value(t))
		if loc[1]-loc[0] > 1 {
			value = substr("00"+value, len(value))
		}
		pattern = pattern[:loc[0]] + value + pattern[loc[1]:]
	}

	return pattern
}

// substr returns s from start to the end. A negative start counts back from
// the end of s.
func substr(s string, start int) string {
	if start < 0 {
		start += len(s)
		if start < 0 {
			start = 0
		}
	}
	if start >= len(s) {
		return ""
	}
	return s[start:]
}
