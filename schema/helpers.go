package schema

import (
	"fmt"
	"strings"
)

// FormatPercent renders a coverage percentage with one decimal place.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatDelta renders the signed difference between two coverage values,
// e.g. "+1.5" or "-0.3". A zero delta renders as "0.0".
func FormatDelta(prev, cur float64) string {
	d := cur - prev
	switch {
	case d > 0.05:
		return fmt.Sprintf("+%.1f", d)
	case d < -0.05:
		return fmt.Sprintf("%.1f", d)
	default:
		return "0.0"
	}
}

// JoinReasons joins gate reasons into a single clause.
func JoinReasons(reasons []string) string {
	return strings.Join(reasons, "; ")
}
