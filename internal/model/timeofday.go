package model

import (
	"strings"
	"time"
)

// TimeLayout is the short time-of-day form used for task times.
const TimeLayout = "3:04 PM"

var timeLayouts = []string{
	TimeLayout,
	"3:04PM",
	"3:04 pm",
	"3:04pm",
	"15:04",
	"15:04:05",
}

// FormatTime renders t as a task time.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// NormalizeTime converts common time-of-day spellings to TimeLayout.
// Input that does not parse is returned trimmed but otherwise unchanged.
func NormalizeTime(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FormatTime(t)
		}
	}

	return s
}
