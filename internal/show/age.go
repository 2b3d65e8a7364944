package show

import (
	"fmt"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// clock is swapped in tests
var clock = time.Now

// HumanTime formats an elapsed duration the way kubectl's AGE column does.
// All arithmetic is on whole seconds.
func HumanTime(d time.Duration) string {
	const (
		minute = 60
		hour   = 60 * minute
		day    = 24 * hour
		year   = 365 * day
	)

	// Allow deviation no more than 1 second
	if d < -time.Second {
		return "<invalid>"
	}
	seconds := int64(d / time.Second)

	switch {
	case seconds < 1:
		return "0s"
	case seconds < 2*minute:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 10*minute:
		m, s := seconds/minute, seconds%minute
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	case seconds < 3*hour:
		return fmt.Sprintf("%dm", seconds/minute)
	case seconds < 8*hour:
		h, m := seconds/hour, (seconds%hour)/minute
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	case seconds < 2*day:
		return fmt.Sprintf("%dh", seconds/hour)
	case seconds < 8*day:
		d, h := seconds/day, (seconds%day)/hour
		if h == 0 {
			return fmt.Sprintf("%dd", d)
		}
		return fmt.Sprintf("%dd%dh", d, h)
	case seconds < 2*year:
		return fmt.Sprintf("%dd", seconds/day)
	case seconds < 8*year:
		y, d := seconds/year, (seconds%year)/day
		if d == 0 {
			return fmt.Sprintf("%dy", y)
		}
		return fmt.Sprintf("%dy%dd", y, d)
	default:
		return fmt.Sprintf("%dy", seconds/year)
	}
}

// Age renders the time elapsed since t, or "<unknown>" for a zero timestamp
func Age(t metav1.Time) string {
	if t.IsZero() {
		return "<unknown>"
	}
	return HumanTime(clock().Sub(t.Time))
}
