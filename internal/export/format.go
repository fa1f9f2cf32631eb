package export

import (
	"fmt"
	"strconv"
)

func formatFloat(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatPct(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func formatUnits(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

func formatItemCode(v int64) string {
	return strconv.FormatInt(v, 10)
}

// formatOptFloat renders a nil pointer as an empty cell so missing
// values are distinguishable from true zeros in the report.
func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatTrusted(trusted bool) string {
	if trusted {
		return "yes"
	}
	return "no"
}
