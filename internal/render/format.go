package render

import (
	"fmt"
	"time"
)

// TimestampLayout is how dates are shown in history and queue rows
const TimestampLayout = "2006-01-02 15:04:05"

// FormatDuration formats seconds as H:MM:SS, or M:SS under an hour.
// Zero and negative durations format as "".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return ""
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatTimestamp formats t in local time; the zero time formats as ""
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(TimestampLayout)
}
