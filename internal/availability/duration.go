package availability

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDuration converts a free-text service duration ("1 hora 30 mins",
// "45 mins") into minutes. Tokens are scanned as value/unit pairs: a unit
// starting with "min" contributes its value in minutes, one starting with
// "hora" contributes value*60. Unknown tokens are ignored. Returns 0 when
// nothing parses; a bookable service must have a positive duration.
func ParseDuration(s string) int {
	parts := strings.Fields(s)
	total := 0
	for i := 0; i+1 < len(parts); i += 2 {
		value, err := strconv.Atoi(parts[i])
		if err != nil {
			continue
		}
		unit := strings.ToLower(parts[i+1])
		switch {
		case strings.HasPrefix(unit, "min"):
			total += value
		case strings.HasPrefix(unit, "hora"):
			total += value * 60
		}
	}
	return total
}

// FormatDuration renders minutes back into the stored wire form.
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d mins", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	unit := "horas"
	if hours == 1 {
		unit = "hora"
	}
	if mins == 0 {
		return fmt.Sprintf("%d %s", hours, unit)
	}
	return fmt.Sprintf("%d %s %d mins", hours, unit, mins)
}
