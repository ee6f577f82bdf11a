package version

import (
	"regexp"
	"strconv"
	"strings"
)

// Operator is the leading range operator of a manifest specifier. Only the
// operators that can be carried forward onto a newer version are modeled;
// "<" and "<=" are deliberately not preserved, because rewriting a "less
// than old vulnerable ceiling" constraint onto a newer safe version would
// invert its meaning.
type Operator string

const (
	OpNone  Operator = ""
	OpCaret Operator = "^"
	OpTilde Operator = "~"
	OpGTE   Operator = ">="
	OpGT    Operator = ">"
)

// OperatorOf returns the preservable operator a specifier begins with, or
// OpNone. ">=" is checked before ">".
func OperatorOf(spec string) Operator {
	s := strings.TrimSpace(spec)
	switch {
	case strings.HasPrefix(s, "^"):
		return OpCaret
	case strings.HasPrefix(s, "~"):
		return OpTilde
	case strings.HasPrefix(s, ">="):
		return OpGTE
	case strings.HasPrefix(s, ">"):
		return OpGT
	default:
		return OpNone
	}
}

// StripOperator removes any leading operator characters and surrounding
// whitespace, leaving the bare version token.
func StripOperator(spec string) string {
	s := strings.TrimSpace(spec)
	s = strings.TrimLeft(s, "^~<>= ")
	return strings.TrimSpace(s)
}

// RangeReason names why a specifier shape cannot be rewritten in place.
type RangeReason string

const (
	ReasonHyphenRange RangeReason = "hyphen-range"
	ReasonOrRange     RangeReason = "or-range"
	ReasonXRange      RangeReason = "x-range"
	ReasonLessThan    RangeReason = "less-than-range"
)

// RangeClass is the result of Classify. When Unsupported is true the
// specifier's shape cannot be carried onto a new version and any fix must
// pin exactly.
type RangeClass struct {
	Unsupported bool
	Reason      RangeReason
}

var hyphenRangePattern = regexp.MustCompile(`\d\s+-\s+\d`)

// Classify detects range shapes the rewriter refuses to reconstruct.
// Simple versions and caret/tilde/gte/gt forms are supported; hyphen
// ranges, "||" alternatives, x-ranges, and "<"/"<=" ceilings are not.
// Checks run hyphen, or, x-range, less-than; the first match wins.
func Classify(spec string) RangeClass {
	s := strings.TrimSpace(spec)

	if hyphenRangePattern.MatchString(s) {
		return RangeClass{Unsupported: true, Reason: ReasonHyphenRange}
	}
	if strings.Contains(s, "||") {
		return RangeClass{Unsupported: true, Reason: ReasonOrRange}
	}
	if isXRange(s) {
		return RangeClass{Unsupported: true, Reason: ReasonXRange}
	}
	if strings.HasPrefix(s, "<") {
		return RangeClass{Unsupported: true, Reason: ReasonLessThan}
	}
	return RangeClass{}
}

func isXRange(spec string) bool {
	s := StripOperator(spec)
	if s == "x" || s == "X" || s == "*" {
		return true
	}
	for _, seg := range strings.Split(s, ".") {
		if seg == "x" || seg == "X" || seg == "*" {
			return true
		}
	}
	return false
}

// ReconstructSpecifier builds the specifier to write back for newVersion.
// Unsupported shapes become an exact pin; otherwise the original operator
// (possibly none) is carried onto the new version.
func ReconstructSpecifier(original, newVersion string) string {
	if Classify(original).Unsupported {
		return newVersion
	}
	return string(OperatorOf(original)) + newVersion
}

// MajorOf extracts the leading major number from a version-shaped string
// that may not fully parse, such as "14.x" or "15.0.0 - 15.3.0". Advisory
// rules use it to apply whole-major policy when no concrete version is
// available. The second return is false when no leading integer exists.
func MajorOf(spec string) (int, bool) {
	s := StripOperator(spec)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, false
	}
	// A bare integer is acceptable; anything after it must start with a
	// separator for the prefix to count as a major version.
	if i < len(s) && s[i] != '.' && s[i] != '-' && s[i] != ' ' {
		return 0, false
	}
	return n, true
}
