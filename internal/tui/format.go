package tui

import (
	"fmt"
	"math"
)

var suffixes = []struct {
	scale  float64
	suffix string
}{
	{1e33, "D"},
	{1e30, "N"},
	{1e27, "O"},
	{1e24, "S"},
	{1e21, "S"},
	{1e18, "Q"},
	{1e15, "q"},
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// FormatLarge renders a currency amount with two decimals and a magnitude
// suffix from 1000 upward, and as a whole number below that.
func FormatLarge(n float64) string {
	for _, s := range suffixes {
		if n >= s.scale {
			return fmt.Sprintf("%.2f%s", n/s.scale, s.suffix)
		}
	}
	// round half away from zero, %.0f alone rounds half to even
	r := math.Round(n)
	if r == 0 {
		r = 0 // no "-0"
	}
	return fmt.Sprintf("%.0f", r)
}
