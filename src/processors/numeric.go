package processors

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// maxSearchDepth bounds the recursive key search over untyped payloads so
// the walk stays total even on pathological inputs.
const maxSearchDepth = 3

// numericObjectKeys are probed, in priority order, when a monetary field
// arrives as a nested object instead of a scalar. Amount-like keys come
// before the generic "value" so unrelated numeric metadata is not picked up.
var numericObjectKeys = []string{"amount", "value", "total", "price", "fee", "net"}

// toNumber coerces a raw JSON value of unknown shape into a finite float64.
// The second return is false when the value is absent or unusable; callers
// never see NaN or Inf.
func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case float32:
		return toNumber(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		// The marketplace reports amounts with a comma decimal separator
		// for some store locales ("150,50").
		parsed, err := strconv.ParseFloat(strings.Replace(trimmed, ",", ".", 1), 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return 0, false
		}
		return parsed, true
	case map[string]any:
		for _, key := range numericObjectKeys {
			if child, ok := v[key]; ok {
				if n, ok := toNumber(child); ok {
					return n, true
				}
			}
		}
	}
	return 0, false
}

// findNumericByPattern walks a decoded JSON structure looking for the first
// numeric value whose key matches the pattern. At each object level a
// matching key wins before any deeper descent into that child. Descent stops
// past maxDepth. Used only as a last-resort fallback when every canonical
// field is absent.
func findNumericByPattern(value any, pattern *regexp.Regexp, depth, maxDepth int) (float64, bool) {
	if value == nil || depth > maxDepth {
		return 0, false
	}

	switch v := value.(type) {
	case map[string]any:
		// Sorted keys keep the search deterministic; Go randomizes map
		// iteration order.
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			child := v[key]
			if pattern.MatchString(key) {
				if n, ok := toNumber(child); ok {
					return n, true
				}
			}
			if n, ok := findNumericByPattern(child, pattern, depth+1, maxDepth); ok {
				return n, true
			}
		}
	case []any:
		for _, child := range v {
			if n, ok := findNumericByPattern(child, pattern, depth+1, maxDepth); ok {
				return n, true
			}
		}
	}

	return 0, false
}
