// Package codegen derives human-readable sequential document codes such as
// OC-0001 or BL-0042 from the set of codes already issued.
package codegen

import (
	"fmt"
	"regexp"
	"strconv"
)

// MinDigits is the zero-padding width of the numeric suffix. Longer suffixes
// are allowed once the counter passes 9999.
const MinDigits = 4

// Kind describes one family of codes sharing a prefix.
type Kind struct {
	Prefix  string
	pattern *regexp.Regexp
}

// Order and Receipt are the two code families used by the ledger.
var (
	Order   = NewKind("OC-")
	Receipt = NewKind("BL-")
)

// NewKind builds a Kind for the given prefix.
func NewKind(prefix string) Kind {
	return Kind{
		Prefix:  prefix,
		pattern: regexp.MustCompile(fmt.Sprintf(`^%s(\d{%d,})$`, regexp.QuoteMeta(prefix), MinDigits)),
	}
}

// Valid reports whether code belongs to this kind.
func (k Kind) Valid(code string) bool {
	_, ok := k.Suffix(code)
	return ok
}

// Suffix returns the numeric part of code. Codes that do not match the
// pattern, or whose suffix does not fit an int, report false.
func (k Kind) Suffix(code string) (int, bool) {
	m := k.pattern.FindStringSubmatch(code)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Format renders n as a code of this kind.
func (k Kind) Format(n int) string {
	return fmt.Sprintf("%s%0*d", k.Prefix, MinDigits, n)
}

// Next returns the code following the highest suffix found in existing.
// Foreign or malformed codes are skipped. An empty set yields suffix 0001.
func (k Kind) Next(existing []string) string {
	maxN := 0
	for _, code := range existing {
		if n, ok := k.Suffix(code); ok && n > maxN {
			maxN = n
		}
	}
	return k.Format(maxN + 1)
}

// LikePattern is a SQL LIKE pattern that pre-filters candidate codes.
func (k Kind) LikePattern() string {
	return k.Prefix + "%"
}
