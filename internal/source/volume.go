package source

import "math"

// levelToVolume converts a 0.0-1.0 level to beep's logarithmic Volume value.
// With Base 2, Volume 0 means no change, -1 half volume, -2 a quarter, and so
// on. Level 0 maps to -10, effectively silent.
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
