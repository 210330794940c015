// Package parsers converts heterogeneous upstream JSON payloads into the
// canonical value objects in internal/models. Every parser is a pure
// function; a malformed numeric field becomes a zero value, never an error
// that escapes the parse.
package parsers

import (
	"fmt"
	"strconv"
	"strings"
)

// SafeFloat converts an arbitrary JSON value to a float64, stripping
// currency signs, commas and surrounding whitespace. Unparsable values
// become 0.0.
func SafeFloat(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	s := strings.TrimSpace(fmt.Sprint(value))
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// SafeInt converts an arbitrary JSON value to an int64, stripping commas.
// Unparsable values become 0.
func SafeInt(value any) int64 {
	switch v := value.(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	}
	s := strings.TrimSpace(fmt.Sprint(value))
	s = strings.ReplaceAll(s, ",", "")
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return i
}

// ParsePercentage converts a "12.3%" style value to a float64.
func ParsePercentage(value any) float64 {
	s := strings.ReplaceAll(fmt.Sprint(value), "%", "")
	return SafeFloat(s)
}

// ParseRange splits a "low - high" range string on the literal " - "
// separator and parses both sides independently. Unparsable ranges return
// (0, 0).
func ParseRange(rangeStr string) (float64, float64) {
	parts := strings.SplitN(rangeStr, " - ", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	return SafeFloat(parts[0]), SafeFloat(parts[1])
}
