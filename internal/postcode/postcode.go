// Package postcode recognizes and normalizes GhanaPost GPS digital
// address codes. A code is two region letters followed by two digit
// groups of 3 and 3-4 digits, written either fully hyphenated
// (GA-123-4567) or fully bare (GA1234567). Mixed hyphenation is not a
// valid code.
package postcode

import (
	"regexp"
	"strings"
)

// Code is a normalized digital address code in canonical
// LL-DDD-DDD(D) form: uppercase, hyphen-delimited.
type Code string

func (c Code) String() string {
	return string(c)
}

// Hyphen usage must be consistent between the two separators, so the
// grammar is the union of the fully hyphenated and fully bare shapes.
var (
	strictRe = regexp.MustCompile(`^([A-Z]{2})(?:-(\d{3})-(\d{3,4})|(\d{3})(\d{3,4}))$`)
	searchRe = regexp.MustCompile(`\b([A-Z]{2})(?:-(\d{3})-(\d{3,4})|(\d{3})(\d{3,4}))\b`)
)

// Normalize validates text as a whole-string digital address and
// returns its canonical form. Input is trimmed and upper-cased before
// matching. A non-match is a normal outcome, not an error.
func Normalize(text string) (Code, bool) {
	cleaned := strings.ToUpper(strings.TrimSpace(text))
	m := strictRe.FindStringSubmatch(cleaned)
	if m == nil {
		return "", false
	}
	return canonical(m), true
}

// Find searches arbitrary text (typically a decoded QR payload) for
// the first digital address and returns its canonical form. The text
// may contain surrounding noise.
func Find(text string) (Code, bool) {
	cleaned := strings.ToUpper(strings.TrimSpace(text))
	m := searchRe.FindStringSubmatch(cleaned)
	if m == nil {
		return "", false
	}
	return canonical(m), true
}

// canonical rebuilds the code as LL-DDD-DDD(D), discarding whatever
// hyphenation the input used. Groups 2-3 carry the hyphenated shape,
// groups 4-5 the bare one.
func canonical(m []string) Code {
	first, second := m[2], m[3]
	if first == "" {
		first, second = m[4], m[5]
	}
	return Code(m[1] + "-" + first + "-" + second)
}
