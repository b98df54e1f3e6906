package provider

import (
	"regexp"
	"strconv"

	"mnav-tracker/internal/domain"
)

// mnavPattern matches figures like "mNAV: 2.15x", "mNAV 1.8" in page text.
var mnavPattern = regexp.MustCompile(`(?i)mNAV[:\s]+(\d+\.?\d*)x?`)

// extractMNAV pulls the first plausible mNAV figure out of raw page content.
// Implausible matches (outside bounds) are skipped rather than returned, so
// a stray "mNAV: 2024" footer date does not shadow the real metric.
func extractMNAV(content string, bounds domain.Bounds) (float64, bool) {
	for _, m := range mnavPattern.FindAllStringSubmatch(content, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if bounds.Contains(v) {
			return v, true
		}
	}
	return 0, false
}
