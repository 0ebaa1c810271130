package analytics

import "math"

func roundInt(v float64) int64 {
	return int64(math.Round(v))
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round4 rounds to four decimal places.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
