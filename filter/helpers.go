package filter

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func helperFunctions() map[string]any {
	return map[string]any{
		// Numbers. Shopify sends money as strings.
		"num": num,

		// Date helpers
		"asTime":    toTime,
		"daysSince": daysSince,
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},
		"monthsAgo": func(months int) time.Time {
			return time.Now().AddDate(0, -months, 0)
		},
		"now": time.Now,

		// String and list helpers
		"contains": contains,
		"startsWith": func(v any, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str(v)), strings.ToLower(prefix))
		},
		"endsWith": func(v any, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str(v)), strings.ToLower(suffix))
		},
		"lower": func(v any) string {
			return strings.ToLower(str(v))
		},
		"upper": func(v any) string {
			return strings.ToUpper(str(v))
		},
	}
}

// num converts JSON numbers and numeric strings to float64. Anything else is 0.
func num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	case decimal.Decimal:
		return n.InexactFloat64()
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return 0
		}
		return d.InexactFloat64()
	}
	return 0
}

// toTime parses RFC 3339 timestamps and YYYY-MM-DD dates. Anything else is the zero time.
func toTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		if t != nil {
			return *t
		}
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse("2006-01-02", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// daysSince returns whole days elapsed since v, or -1 when v is not a date
func daysSince(v any) int {
	t := toTime(v)
	if t.IsZero() {
		return -1
	}
	return int(time.Since(t).Hours() / 24)
}

// contains reports whether a string contains needle, or a list holds it.
// Comparison is case-insensitive.
func contains(haystack any, needle any) bool {
	target := strings.ToLower(str(needle))
	switch h := haystack.(type) {
	case string:
		return strings.Contains(strings.ToLower(h), target)
	case []string:
		return slices.ContainsFunc(h, func(s string) bool { return strings.ToLower(s) == target })
	case []any:
		return slices.ContainsFunc(h, func(v any) bool { return strings.ToLower(str(v)) == target })
	}
	return false
}

func str(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return decimal.NewFromFloat(s).String()
	}
	return fmt.Sprint(v)
}
