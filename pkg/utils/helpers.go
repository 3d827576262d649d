package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseValue converts a raw cell into an int, a float64 or the trimmed string.
func ParseValue(s string) interface{} {
	// Trim whitespace first
	s = strings.TrimSpace(s)

	// try int
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	// try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// StringValue renders a decoded cell as text. nil becomes "" and whole floats
// lose their fraction so 3.0 and 3 read the same.
func StringValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		if val == math.Trunc(val) && !math.IsInf(val, 0) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// IntValue converts a decoded cell to an integer. Strings are parsed first;
// floats must carry no fraction.
func IntValue(v interface{}) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return wholeFloat(val)
	case string:
		switch parsed := ParseValue(val).(type) {
		case int:
			return parsed, true
		case float64:
			return wholeFloat(parsed)
		default:
			return 0, false
		}
	default:
		return 0, false
	}
}

func wholeFloat(f float64) (int, bool) {
	if f != math.Trunc(f) || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// Round2 rounds to two decimal places, halves to even.
func Round2(x float64) float64 {
	return math.RoundToEven(x*100) / 100
}
