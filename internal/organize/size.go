package organize

import "fmt"

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// HumanSize formats a byte count with one decimal: 1536 -> "1.5 KB".
func HumanSize(n int64) string {
	size := float64(n)
	for _, unit := range sizeUnits {
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f TB", size)
}
