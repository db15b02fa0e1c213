package bqdryrun

import (
	"fmt"
	"math"
)

const (
	// bytesPerTiB is 2^40, the unit on-demand query pricing is quoted in.
	bytesPerTiB = 1 << 40

	// DefaultPricePerTiB is the on-demand price in USD used when no price is configured.
	DefaultPricePerTiB = 5.0
)

// EstimateUSD converts scanned bytes to a USD cost at pricePerTiB.
// Zero or negative byte counts cost exactly 0.
func EstimateUSD(bytes int64, pricePerTiB float64) float64 {
	if bytes <= 0 {
		return 0
	}
	return float64(bytes) / bytesPerTiB * pricePerTiB
}

// ValidatePrice returns ErrInvalidPrice unless pricePerTiB is a finite,
// non-negative number.
func ValidatePrice(pricePerTiB float64) error {
	if pricePerTiB < 0 || math.IsNaN(pricePerTiB) || math.IsInf(pricePerTiB, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidPrice, pricePerTiB)
	}
	return nil
}
