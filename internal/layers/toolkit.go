package layers

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/basera/basera/internal/core"
)

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// asText normalizes the supported input shapes to a string. Numeric inputs
// come back with ok=false plus their value so numeric-aware processors can
// take the direct path.
func asText(input any) (text string, num float64, isNum bool, err error) {
	switch v := input.(type) {
	case string:
		return v, 0, false, nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), v, true, nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 64), float64(v), true, nil
	case int:
		return strconv.Itoa(v), float64(v), true, nil
	case int64:
		return strconv.FormatInt(v, 10), float64(v), true, nil
	case nil:
		return "", 0, false, core.Invalidf("nil input")
	default:
		return "", 0, false, core.Invalidf("unsupported input type %T", input)
	}
}

// extractNumbers pulls every numeric literal out of a string, in order.
func extractNumbers(text string) []float64 {
	matches := numberPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	numbers := make([]float64, 0, len(matches))
	for _, m := range matches {
		if n, err := strconv.ParseFloat(m, 64); err == nil {
			numbers = append(numbers, n)
		}
	}
	return numbers
}

// extractWords lowercases and splits text on non-letter boundaries.
func extractWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// countMatches reports how many of the given keywords occur as words in text,
// and which ones.
func countMatches(text string, keywords []string) (int, []string) {
	words := extractWords(text)
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		seen[w] = true
	}

	found := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if seen[kw] {
			found = append(found, kw)
		}
	}
	return len(found), found
}

// isPrime reports whether n is a prime integer.
func isPrime(n float64) bool {
	if n != math.Trunc(n) || n < 2 {
		return false
	}
	v := int64(n)
	if v%2 == 0 {
		return v == 2
	}
	for i := int64(3); i*i <= v; i += 2 {
		if v%i == 0 {
			return false
		}
	}
	return true
}
