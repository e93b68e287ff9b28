package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatNumber shortens large counts (1.5K, 2.0M).
func FormatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

// FormatTimestampMs renders a millisecond timestamp as HH:MM:SS.mmm.
func FormatTimestampMs(ms float64) string {
	sign := ""
	if ms < 0 {
		sign = "-"
		ms = -ms
	}
	total := int64(math.Round(ms))
	millis := total % 1000
	seconds := (total / 1000) % 60
	minutes := (total / 60000) % 60
	hours := total / 3600000
	return fmt.Sprintf("%s%02d:%02d:%02d.%03d", sign, hours, minutes, seconds, millis)
}

// FormatSpeed renders a position speed in units per second.
func FormatSpeed(unitsPerSecond float64) string {
	return fmt.Sprintf("%.02f units/s", unitsPerSecond)
}

// ParseTimestampMs accepts plain milliseconds ("1500"), seconds with a unit
// ("1.5s") or clock notation ("01:02:03.004", "02:03", "3.5").
func ParseTimestampMs(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	if strings.HasSuffix(s, "ms") {
		return strconv.ParseFloat(strings.TrimSuffix(s, "ms"), 64)
	}
	if strings.HasSuffix(s, "s") {
		sec, err := strconv.ParseFloat(strings.TrimSuffix(s, "s"), 64)
		return sec * 1000, err
	}
	if !strings.Contains(s, ":") {
		if strings.Contains(s, ".") {
			sec, err := strconv.ParseFloat(s, 64)
			return sec * 1000, err
		}
		return strconv.ParseFloat(s, 64)
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	var total float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		if i < len(parts)-1 && v != math.Trunc(v) {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		total = total*60 + v
	}
	return total * 1000, nil
}
