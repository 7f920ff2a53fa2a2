package dashboard

import (
	"fmt"
	"math"
)

// FormatUptime renders seconds as "{hours}h {minutes}m". Leftover seconds
// are dropped.
func FormatUptime(seconds float64) string {
	hours := math.Floor(seconds / 3600)
	minutes := math.Floor(math.Mod(seconds, 3600) / 60)
	return fmt.Sprintf("%.0fh %.0fm", hours, minutes)
}
