package domain

import "math"

// Round rounds v to the given number of decimal places, half away from zero.
// Every amount that enters or leaves the ledger goes through this.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
