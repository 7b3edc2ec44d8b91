package services

import (
	"fmt"
	"time"
)

// BusinessHours is the fixed daily schedule shown on the storefront. It is
// informational only and independent of the availability flags: the kitchen
// can force-close inside the window or take a late order outside it.
type BusinessHours struct {
	OpenHour  int // inclusive, 0-23
	CloseHour int // exclusive
}

// DefaultHours is the store's schedule, every day of the week.
var DefaultHours = BusinessHours{OpenHour: 16, CloseHour: 22}

// OpenNow reports whether now falls inside the daily window.
func (h BusinessHours) OpenNow(now time.Time) bool {
	hour := now.Hour()
	return hour >= h.OpenHour && hour < h.CloseHour
}

// Label renders the window for display, e.g. "4:00 PM - 10:00 PM".
func (h BusinessHours) Label() string {
	return fmt.Sprintf("%s - %s", hourLabel(h.OpenHour), hourLabel(h.CloseHour))
}

func hourLabel(h int) string {
	switch {
	case h == 0:
		return "12:00 AM"
	case h < 12:
		return fmt.Sprintf("%d:00 AM", h)
	case h == 12:
		return "12:00 PM"
	default:
		return fmt.Sprintf("%d:00 PM", h-12)
	}
}
