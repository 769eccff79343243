package render

import "fmt"

// Megawatt formats a forecast for display with two decimals and the unit
// suffix, e.g. 1234.5 becomes "1234.50 MW".
func Megawatt(val float64) string {
	return fmt.Sprintf("%.2f MW", val)
}
