package triage

import "github.com/bait0ngxaxa/survey-sub000/server/internal/models"

// Recommendation is the resolved action and owner of one group's result.
type Recommendation struct {
	Actions        []models.Action
	RelatedUnit    string
	AdditionalInfo *models.AdditionalInfo
}

// Resolve derives the actions, related unit and follow-up echo for a group in a band.
func Resolve(group models.Group, band models.Band, flags models.FollowUp) Recommendation {
	rec := Recommendation{RelatedUnit: group.RelatedUnit}

	switch band {
	case models.BandStable:
		rec.Actions = []models.Action{models.RoutineFollowUp}
		return rec
	case models.BandWatch:
		rec.Actions = []models.Action{models.Monitor}
		return rec
	}

	switch group.FollowUp {
	case models.FollowUpMobility:
		rec.Actions = mobilityActions(flags)
		movementLimit, tired := flags.MovementLimit, flags.Tired
		rec.AdditionalInfo = &models.AdditionalInfo{MovementLimit: &movementLimit, Tired: &tired}
	case models.FollowUpTopic:
		rec.Actions = criticalActions(group)
		topic := flags.Topic
		rec.AdditionalInfo = &models.AdditionalInfo{Topic: &topic}
	default:
		rec.Actions = criticalActions(group)
	}
	return rec
}

func mobilityActions(flags models.FollowUp) []models.Action {
	var actions []models.Action
	if flags.MovementLimit {
		actions = append(actions, models.ReferToPhysicalTherapy)
	}
	if flags.Tired {
		actions = append(actions, models.ReferToCareManagerOrPhysician)
	}
	if len(actions) == 0 {
		actions = append(actions, models.AskFollowUpQuestion)
	}
	return actions
}

func criticalActions(group models.Group) []models.Action {
	if group.CriticalAction == "" {
		return []models.Action{}
	}
	return []models.Action{group.CriticalAction}
}
