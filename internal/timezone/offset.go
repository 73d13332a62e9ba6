package timezone

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxOffsetMinutes bounds offsets to the ±14:00 range used by real zones.
const MaxOffsetMinutes = 14 * 60

// ParseOffset converts a raw offset value into minutes east of UTC.
// Numbers are taken as minutes and must be integral. Strings accept the
// forms "+02:00", "-0330", "+5", "UTC+5:30", "GMT-3", "UTC" and "Z".
func ParseOffset(raw any) (int, bool) {
	switch v := raw.(type) {
	case float64:
		return minutesFromFloat(v)
	case float32:
		return minutesFromFloat(float64(v))
	case int:
		return v, true
	case int64:
		return int(v), true
	case int32:
		return int(v), true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return minutesFromFloat(f)
	case string:
		return parseOffsetString(v)
	default:
		return 0, false
	}
}

func minutesFromFloat(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func parseOffsetString(s string) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "UTC")
	s = strings.TrimPrefix(s, "GMT")
	if s == "" || s == "Z" {
		return 0, true
	}

	sign := 1
	switch s[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return 0, false
	}
	s = s[1:]

	var hoursPart, minutesPart string
	switch {
	case strings.Contains(s, ":"):
		parts := strings.SplitN(s, ":", 2)
		hoursPart, minutesPart = parts[0], parts[1]
	case len(s) == 4:
		hoursPart, minutesPart = s[:2], s[2:]
	default:
		hoursPart = s
	}

	if hoursPart == "" || len(hoursPart) > 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(hoursPart)
	if err != nil || hours < 0 {
		return 0, false
	}

	minutes := 0
	if minutesPart != "" {
		if len(minutesPart) != 2 {
			return 0, false
		}
		minutes, err = strconv.Atoi(minutesPart)
		if err != nil || minutes < 0 || minutes >= 60 {
			return 0, false
		}
	}

	return sign * (hours*60 + minutes), true
}

// FormatOffset renders minutes east of UTC as "+HH:MM".
func FormatOffset(minutes int) string {
	sign := '+'
	if minutes < 0 {
		sign = '-'
		minutes = -minutes
	}
	return fmt.Sprintf("%c%02d:%02d", sign, minutes/60, minutes%60)
}
