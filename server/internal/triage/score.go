// Package triage turns raw survey answers into a per-group clinical triage report.
package triage

import (
	"math"

	"github.com/bait0ngxaxa/survey-sub000/server/internal/models"
)

// Contribution maps a raw score onto the group's "higher is better" scale.
func Contribution(score int, reversed bool) int {
	if reversed {
		return models.MinScore + models.MaxScore - score
	}
	return score
}

// ComputeGroupAverage returns the rounded mean contribution of the answered
// questions in questionIDs. Unanswered questions are excluded from both the
// sum and the count; if none are answered the result is 0.
func ComputeGroupAverage(questionIDs []int, answers models.Answers, reverseScored map[int]bool) int {
	sum, count := 0, 0
	for _, id := range questionIDs {
		score, ok := answers[id]
		if !ok {
			continue
		}
		sum += Contribution(score, reverseScored[id])
		count++
	}

	if count == 0 {
		return 0
	}
	// round half up
	return int(math.Floor(float64(sum)/float64(count) + 0.5))
}
