package triage

import "github.com/bait0ngxaxa/survey-sub000/server/internal/models"

// Assemble evaluates groupIDs against answers and returns a new report holding
// prev's entries with those groups recomputed. prev is not modified. Group ids
// the catalog does not define are skipped.
func Assemble(prev models.Report, groupIDs []int, catalog *models.Catalog, answers models.Answers, flags models.FollowUp) models.Report {
	report := make(models.Report, len(prev)+len(groupIDs))
	for key, res := range prev {
		report[key] = res
	}

	reverse := catalog.ReverseScoredSet()
	for _, id := range groupIDs {
		group, ok := catalog.Group(id)
		if !ok {
			continue
		}
		report[models.ReportKey(id)] = evaluate(group, answers, reverse, flags)
	}
	return report
}

// AssembleAll evaluates every group in the catalog from scratch.
func AssembleAll(catalog *models.Catalog, answers models.Answers, flags models.FollowUp) models.Report {
	return Assemble(nil, catalog.GroupIDs(), catalog, answers, flags)
}

func evaluate(group models.Group, answers models.Answers, reverse map[int]bool, flags models.FollowUp) models.GroupResult {
	avg := ComputeGroupAverage(group.QuestionIDs, answers, reverse)
	band := Classify(avg)
	rec := Resolve(group, band, flags)

	return models.GroupResult{
		GroupID:        group.ID,
		Dimension:      group.Dimension,
		QuestionsLabel: group.QuestionsLabel,
		Label:          group.Label,
		Band:           band,
		AverageScore:   avg,
		Actions:        rec.Actions,
		Action:         models.JoinActions(rec.Actions),
		RelatedUnit:    rec.RelatedUnit,
		AdditionalInfo: rec.AdditionalInfo,
	}
}

// MissingQuestions lists the catalog's unanswered question ids in ascending order.
// A final report should only be generated once this is empty.
func MissingQuestions(catalog *models.Catalog, answers models.Answers) []int {
	var missing []int
	for _, id := range catalog.QuestionIDs() {
		if _, ok := answers[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
