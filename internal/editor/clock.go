package editor

import (
	"fmt"
	"time"
)

// Clock provides the current time. Status message expiry reads it, so
// tests can pin it.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

// FixedClock is a settable Clock for tests and replays.
type FixedClock struct{ T time.Time }

// Now returns the pinned time.
func (c *FixedClock) Now() time.Time { return c.T }

// Advance moves the pinned time forward.
func (c *FixedClock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// FormatRelative returns a short relative timestamp such as "now", "5m ago",
// "3h ago", "2d ago", "1w ago", "3mo ago" or "1y ago".
func FormatRelative(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	case d < 4*7*24*time.Hour:
		return fmt.Sprintf("%dw ago", int(d.Hours()/(24*7)))
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%dmo ago", int(d.Hours()/(24*30)))
	default:
		return fmt.Sprintf("%dy ago", int(d.Hours()/(24*365)))
	}
}
