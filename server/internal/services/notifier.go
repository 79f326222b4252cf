package services

import (
	"github.com/bait0ngxaxa/survey-sub000/server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier tells care units about critical findings in a completed submission.
type Notifier interface {
	NotifyCritical(submissionID uuid.UUID, results []models.GroupResult)
}

// LogNotifier is a placeholder for real delivery (paging, ward inbox). It
// records one structured entry per related unit.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.Named("notifier")}
}

// NotifyCritical groups critical results by related unit and logs them.
func (n *LogNotifier) NotifyCritical(submissionID uuid.UUID, results []models.GroupResult) {
	byUnit := make(map[string][]models.GroupResult)
	var units []string
	for _, res := range results {
		if res.Band != models.BandCritical {
			continue
		}
		if _, seen := byUnit[res.RelatedUnit]; !seen {
			units = append(units, res.RelatedUnit)
		}
		byUnit[res.RelatedUnit] = append(byUnit[res.RelatedUnit], res)
	}

	for _, unit := range units {
		findings := byUnit[unit]
		groups := make([]int, len(findings))
		actions := make([]string, len(findings))
		for i, res := range findings {
			groups[i] = res.GroupID
			actions[i] = res.Action
		}
		n.log.Info("Critical finding",
			zap.String("submission", submissionID.String()),
			zap.String("unit", unit),
			zap.Ints("groups", groups),
			zap.Strings("actions", actions),
		)
	}
}
