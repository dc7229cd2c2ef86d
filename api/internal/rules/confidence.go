package rules

import "waste-scan/api/internal/waste"

// BucketConfidence maps a raw score to a qualitative level. The caller
// guarantees the score is already clamped; out-of-range values simply land
// in the nearest bucket.
func BucketConfidence(score float64) waste.ConfidenceLevel {
	if score >= 0.85 {
		return waste.ConfidenceHigh
	}
	if score >= 0.65 {
		return waste.ConfidenceMedium
	}
	return waste.ConfidenceLow
}
