package grading

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/text/cases"

	"github.com/abhisek/drillz/internal/expr"
)

// AnswerType describes the representation of the correct answer.
type AnswerType string

const (
	AnswerTypeInteger  AnswerType = "integer"  // e.g. "623", "-15"
	AnswerTypeDecimal  AnswerType = "decimal"  // e.g. "3.75", "0,5"
	AnswerTypeFraction AnswerType = "fraction" // e.g. "3/4", "1 1/2"
	AnswerTypeText     AnswerType = "text"     // free text matched against an accept list
)

// DefaultPrecision is the number of fractional digits used when a decimal
// answer is rendered for display.
const DefaultPrecision = 6

// ErrEmptyAnswer is returned when the learner left the input blank.
var ErrEmptyAnswer = errors.New("empty answer")

// MatchNumber compares the learner's input against the expected value.
//
// Normalization rules:
// - Whitespace is trimmed
// - Integers ignore leading zeros ("007" matches "7")
// - Decimals accept "," or "." and ignore trailing zeros; tol is the
//   allowed absolute difference (nil or zero means exact)
// - Fractions accept equivalent forms ("2/4" matches "1/2", "1 1/2" matches "3/2")
//
// Whatever Canonical renders for want with the same precision always
// matches, so "0.333333" is accepted for 1/3.
func MatchNumber(input string, want *big.Rat, answerType AnswerType, tol *big.Rat, precision int) bool {
	got, err := ParseNumber(input)
	if err != nil {
		return false
	}

	switch answerType {
	case AnswerTypeInteger:
		if !want.IsInt() {
			return matchShown(got, want, DefaultPrecision)
		}
		return got.IsInt() && got.Cmp(want) == 0
	case AnswerTypeDecimal:
		if matchShown(got, want, precision) {
			return true
		}
		if tol == nil || tol.Sign() == 0 {
			return false
		}
		diff := new(big.Rat).Sub(got, want)
		return diff.Abs(diff).Cmp(tol) <= 0
	default:
		return got.Cmp(want) == 0
	}
}

// matchShown reports whether got equals want exactly or want rounded to
// precision fractional digits.
func matchShown(got, want *big.Rat, precision int) bool {
	if got.Cmp(want) == 0 {
		return true
	}
	if precision <= 0 {
		precision = DefaultPrecision
	}
	shown, ok := new(big.Rat).SetString(want.FloatString(precision))
	return ok && got.Cmp(shown) == 0
}

// MatchText reports whether input matches any accepted answer. Unless
// caseSensitive is set, comparison uses Unicode case folding, so "МОСКВА"
// matches "Москва". Internal runs of whitespace are collapsed.
func MatchText(input string, accepted []string, caseSensitive bool) bool {
	in := normalizeText(input, caseSensitive)
	if in == "" {
		return false
	}
	for _, a := range accepted {
		if normalizeText(a, caseSensitive) == in {
			return true
		}
	}
	return false
}

func normalizeText(s string, caseSensitive bool) string {
	s = strings.Join(strings.Fields(s), " ")
	if !caseSensitive {
		s = cases.Fold().String(s)
	}
	return s
}

// Canonical renders a value the way the correct answer is shown to the
// learner for the given answer type.
func Canonical(v *big.Rat, answerType AnswerType, precision int) string {
	switch answerType {
	case AnswerTypeDecimal:
		if precision <= 0 {
			precision = DefaultPrecision
		}
		return expr.FormatDecimal(v, precision)
	case AnswerTypeInteger:
		if v.IsInt() {
			return v.Num().String()
		}
		return expr.FormatDecimal(v, DefaultPrecision)
	default:
		return expr.FormatRat(v)
	}
}

// ParseNumber parses an integer, decimal ("3.5" or "3,5"), fraction ("7/2")
// or mixed number ("3 1/2") into an exact rational.
func ParseNumber(s string) (*big.Rat, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "−", "-") // U+2212 minus sign
	if s == "" {
		return nil, ErrEmptyAnswer
	}
	// "1 / 2" -> "1/2", while "3  1/2" keeps a single separating space.
	s = strings.Join(strings.Fields(strings.ReplaceAll(s, "/", " / ")), " ")
	s = strings.ReplaceAll(s, " / ", "/")

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(s[1:])
	}

	var r *big.Rat
	var err error
	if whole, frac, ok := strings.Cut(s, " "); ok && strings.Contains(frac, "/") {
		r, err = parseMixed(whole, strings.TrimSpace(frac))
	} else if strings.Contains(s, "/") {
		r, err = parseFraction(s)
	} else {
		r, err = parseDecimal(s)
	}
	if err != nil {
		return nil, err
	}
	if neg {
		r.Neg(r)
	}
	return r, nil
}

// parseDecimal accepts plain base-10 digits with at most one "." or ",".
func parseDecimal(s string) (*big.Rat, error) {
	s = strings.Replace(s, ",", ".", 1)
	if !isPlainDecimal(s) {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	return r, nil
}

func isPlainDecimal(s string) bool {
	digits, dots := 0, 0
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// parseFraction parses "a/b" into an exact rational.
func parseFraction(s string) (*big.Rat, error) {
	parts := strings.SplitN(s, "/", 2)
	num, ok := new(big.Int).SetString(strings.TrimSpace(parts[0]), 10)
	if !ok {
		return nil, fmt.Errorf("invalid numerator in %q", s)
	}
	den, ok := new(big.Int).SetString(strings.TrimSpace(parts[1]), 10)
	if !ok {
		return nil, fmt.Errorf("invalid denominator in %q", s)
	}
	if den.Sign() == 0 {
		return nil, fmt.Errorf("zero denominator in %q", s)
	}
	return new(big.Rat).SetFrac(num, den), nil
}

func parseMixed(whole, frac string) (*big.Rat, error) {
	w, ok := new(big.Int).SetString(whole, 10)
	if !ok || w.Sign() < 0 {
		return nil, fmt.Errorf("invalid whole part %q", whole)
	}
	f, err := parseFraction(frac)
	if err != nil {
		return nil, err
	}
	if f.Sign() < 0 {
		return nil, fmt.Errorf("invalid fractional part %q", frac)
	}
	return f.Add(f, new(big.Rat).SetInt(w)), nil
}
