// ABOUTME: Relative time formatting for article listings
// ABOUTME: Renders ages the way the reader shows them next to each headline

package time

import (
	"fmt"
	"time"
)

// FormatRelative renders how long ago t was, seen from now. Anything older
// than a week falls back to the calendar date.
func FormatRelative(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "刚刚"
	case d < time.Hour:
		return fmt.Sprintf("%d分钟前", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d小时前", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%d天前", int(d.Hours()/24))
	default:
		return t.In(now.Location()).Format("2006-01-02")
	}
}
