package mapview

import (
	"fmt"
	"strings"
	"time"

	def "github.com/VinothKuppanna/walkmap/pkg/domain/definition"
)

// Summary renders the distance line for a leg. It reports false, and renders
// nothing, when the leg lacks a distance or a duration.
func Summary(leg *def.Leg) (string, bool) {
	if leg == nil || leg.Distance == nil || leg.Duration == nil {
		return "", false
	}
	duration := leg.Duration.Text
	if duration == "" {
		duration = FormatDuration(time.Duration(leg.Duration.Seconds) * time.Second)
	}
	return fmt.Sprintf("It will take %s to arrive to your destination of %s.", duration, leg.Distance.Text), true
}

// FormatDuration writes a duration the way the directions service does:
// "1 min", "15 mins", "1 hour 5 mins", "2 days 3 hours".
func FormatDuration(d time.Duration) string {
	minutes := int64((d + 30*time.Second) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	days := minutes / (24 * 60)
	hours := (minutes / 60) % 24
	minutes = minutes % 60

	var parts []string
	switch {
	case days > 0:
		parts = append(parts, plural(days, "day"))
		if hours > 0 {
			parts = append(parts, plural(hours, "hour"))
		}
	case hours > 0:
		parts = append(parts, plural(hours, "hour"))
		if minutes > 0 {
			parts = append(parts, plural(minutes, "min"))
		}
	default:
		parts = append(parts, plural(minutes, "min"))
	}
	return strings.Join(parts, " ")
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
