package validation

import (
	"math"
	"strconv"
	"strings"
)

// ToString renders a decoded JSON value the way a browser would print it,
// with null and missing values becoming "".
func ToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return formatNumber(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case []any:
		parts := make([]string, len(t))
		for i, el := range t {
			parts[i] = ToString(el)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return "[object Object]"
	default:
		return ""
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Truthy reports whether a decoded JSON value counts as present.
// null, false, 0, NaN and "" do not.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		return true
	}
}

// ParseCount reads a leading base-10 integer from a count field that may
// arrive as a number or a string ("25", " 25 cards", 25.9). ok is false when
// no digits lead the value.
func ParseCount(v any) (n int, ok bool) {
	s := strings.TrimLeft(ToString(v), " \t\n\r\v\f")
	if s == "" {
		return 0, false
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	// Anything this long is out of every accepted range anyway.
	if end > 9 {
		if neg {
			return math.MinInt32, true
		}
		return math.MaxInt32, true
	}
	n, _ = strconv.Atoi(s[:end])
	if neg {
		n = -n
	}
	return n, true
}
