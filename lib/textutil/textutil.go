package textutil

import (
	"regexp"
	"strconv"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeSpace(s string) string {
	s = strings.Trim(s, " \n\t")
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// ParseAmount converts a numeric substring captured out of page text into
// an integer amount. Thousands separators are stripped first, so both
// "2,098" and "2098" come out as 2098. Prices on the site are whole NT$,
// a fractional part is truncated rather than rejected.
func ParseAmount(s string) (int, bool) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.Trim(s, " \n\t")
	if s == "" {
		return 0, false
	}
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		s = s[:dot]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

var amountRegex = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)

// FirstAmount finds the first numeric amount in free text, e.g. the
// "2,098" inside "$2,098 起".
func FirstAmount(s string) (int, bool) {
	m := amountRegex.FindString(s)
	if m == "" {
		return 0, false
	}
	return ParseAmount(m)
}
