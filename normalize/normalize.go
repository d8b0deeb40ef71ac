// Package normalize turns the noisy values found in uploaded spreadsheets into
// numbers and display strings.
//
// Every function here degrades instead of failing: an amount that cannot be
// read becomes zero and a currency that cannot be formatted becomes the
// Null sentinel. Callers that need to know about the degradation use AmountOK.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// Null is written in place of an amount that could not be computed. It must
// reach the rendered document unchanged.
const Null = "NULO "

// currencyMarkers are stripped from amounts before parsing.
var currencyMarkers = []string{"DLS", "USD", "MXN", "$"}

var yearsRe = regexp.MustCompile(`\d+`)

// Amount converts raw into a float64, returning 0 when raw cannot be read.
//
//	Amount("1.234,50 DLS") == 1234.50
//	Amount("abc") == 0
func Amount(raw any) float64 {
	f, _ := AmountOK(raw)
	return f
}

// AmountOK is Amount that also reports whether raw was a readable number.
// Blank input returns (0, false).
func AmountOK(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case decimal.Decimal:
		return v.InexactFloat64(), true
	case string:
		return parseAmount(v)
	case []byte:
		return parseAmount(string(v))
	default:
		return 0, false
	}
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseAmount(s string) (float64, bool) {
	s = strings.ToUpper(s)
	for _, m := range currencyMarkers {
		s = strings.ReplaceAll(s, m, "")
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(resolveSeparators(s), 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

// resolveSeparators rewrites s so that "." is the only decimal separator and
// no grouping separators remain. When both "," and "." appear, the last one
// is the decimal separator. A separator that appears more than once groups
// thousands. A single comma also groups thousands when a one to three digit
// lead without a leading zero is followed by exactly three digits
// ("1,500 DLS"); any other single comma is a decimal comma ("0,500").
func resolveSeparators(s string) string {
	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	switch {
	case dots > 0 && commas > 0:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case commas > 1:
		return strings.ReplaceAll(s, ",", "")
	case commas == 1:
		i := strings.Index(s, ",")
		if len(s)-i-1 == 3 && allDigits(s[i+1:]) && isGroupLead(s[:i]) {
			return s[:i] + s[i+1:]
		}
		return strings.Replace(s, ",", ".", 1)
	case dots > 1:
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}

// isGroupLead reports whether s, sign aside, can open a grouped number:
// one to three digits without a leading zero.
func isGroupLead(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 1 && len(s) <= 3 && s[0] != '0' && allDigits(s)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Currency formats v with no decimal places, thousands grouped by a space and
// a trailing space: Currency(1234) == "1 234 ". Values that are not numbers
// (including NaN and infinities) produce Null.
func Currency(v any) string {
	d, ok := toDecimal(v)
	if !ok {
		return Null
	}
	return groupThousands(d.RoundBank(0).StringFixed(0)) + " "
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case float64:
		if _, ok := finite(x); !ok {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(x), true
	case float32:
		return toDecimal(float64(x))
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case int32:
		return decimal.NewFromInt(int64(x)), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

func groupThousands(digits string) string {
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}

	var b strings.Builder
	b.WriteString(sign)
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Attendance formats an attendance count with two decimals and a decimal
// comma, e.g. 12 -> "12,00".
func Attendance(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
}

// Key normalizes a grouping key so that grouping ignores case, surrounding
// whitespace and Unicode composition.
func Key(s string) string {
	return strings.ToUpper(Name(s))
}

// Name trims s and puts it in Unicode composed form.
func Name(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Years extracts the first integer in s ("3 años" -> 3).
func Years(s string) (int, bool) {
	m := yearsRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}
