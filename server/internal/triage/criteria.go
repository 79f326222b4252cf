package triage

import "github.com/bait0ngxaxa/survey-sub000/server/internal/models"

const (
	criticalMax = 2
	watchScore  = 3
)

// Classify maps a rounded group average onto a severity band.
// An average of 0 (nothing answered) falls into BandCritical; callers must
// treat it as insufficient data.
func Classify(averageScore int) models.Band {
	switch {
	case averageScore <= criticalMax:
		return models.BandCritical
	case averageScore == watchScore:
		return models.BandWatch
	default:
		return models.BandStable
	}
}
