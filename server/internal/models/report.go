package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	MinScore = 1
	MaxScore = 6
)

// Band is the severity classification of a group's averaged score.
// Bands are ordered from most to least severe.
type Band int

const (
	BandCritical Band = iota
	BandWatch
	BandStable
)

var bandNames = map[Band]string{
	BandCritical: "critical",
	BandWatch:    "watch",
	BandStable:   "stable",
}

func (b Band) String() string {
	if name, ok := bandNames[b]; ok {
		return name
	}
	return "band(" + strconv.Itoa(int(b)) + ")"
}

func (b Band) MarshalText() ([]byte, error) {
	name, ok := bandNames[b]
	if !ok {
		return nil, fmt.Errorf("unknown band %d", int(b))
	}
	return []byte(name), nil
}

func (b *Band) UnmarshalText(text []byte) error {
	for band, name := range bandNames {
		if name == string(text) {
			*b = band
			return nil
		}
	}
	return fmt.Errorf("unknown band %q", string(text))
}

// Action is a recommendation code. Display wording is left to the renderer.
type Action string

const (
	RoutineFollowUp               Action = "routine_follow_up"
	Monitor                       Action = "monitor"
	ReferToPhysicalTherapy        Action = "refer_physical_therapy"
	ReferToCareManagerOrPhysician Action = "refer_care_manager_or_physician"
	AskFollowUpQuestion           Action = "ask_follow_up_question"

	ReferToPhysician    Action = "refer_physician"
	ReferToNurse        Action = "refer_nurse"
	ReferToPsychologist Action = "refer_psychologist"
	ReferToNutritionist Action = "refer_nutritionist"
	ReferToPharmacist   Action = "refer_pharmacist"
	ReferToSocialWorker Action = "refer_social_worker"
	ProvideEducation    Action = "provide_education"
)

var knownActions = map[Action]bool{
	RoutineFollowUp:               true,
	Monitor:                       true,
	ReferToPhysicalTherapy:        true,
	ReferToCareManagerOrPhysician: true,
	AskFollowUpQuestion:           true,
	ReferToPhysician:              true,
	ReferToNurse:                  true,
	ReferToPsychologist:           true,
	ReferToNutritionist:           true,
	ReferToPharmacist:             true,
	ReferToSocialWorker:           true,
	ProvideEducation:              true,
}

// Known reports whether a is one of the defined action codes.
func (a Action) Known() bool {
	return knownActions[a]
}

// Answers maps a question id to its 1-6 score. A missing key means unanswered.
type Answers map[int]int

// Validate rejects scores outside the Likert range and ids the catalog does not define.
func (a Answers) Validate(catalog *Catalog) error {
	ids := make([]int, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		if !catalog.HasQuestion(id) {
			return fmt.Errorf("question %d is not part of survey %q", id, catalog.Variant)
		}
		if score := a[id]; score < MinScore || score > MaxScore {
			return fmt.Errorf("question %d: score %d out of range [%d,%d]", id, score, MinScore, MaxScore)
		}
	}
	return nil
}

// Merge returns a copy of a overlaid with next.
func (a Answers) Merge(next Answers) Answers {
	merged := make(Answers, len(a)+len(next))
	for id, score := range a {
		merged[id] = score
	}
	for id, score := range next {
		merged[id] = score
	}
	return merged
}

// FollowUp carries the qualifying details asked when a group scores critical.
type FollowUp struct {
	MovementLimit bool   `json:"movementLimit"`
	Tired         bool   `json:"tired"`
	Topic         string `json:"topic,omitempty"`
}

// AdditionalInfo echoes follow-up details on critical results.
type AdditionalInfo struct {
	MovementLimit *bool   `json:"movementLimit,omitempty"`
	Tired         *bool   `json:"tired,omitempty"`
	Topic         *string `json:"topic,omitempty"`
}

// GroupResult is the report record for one group. It is never mutated after creation.
type GroupResult struct {
	GroupID        int             `json:"groupId"`
	Dimension      string          `json:"dimension"`
	QuestionsLabel string          `json:"questionsLabel"`
	Label          string          `json:"label"`
	Band           Band            `json:"criteriaBand"`
	AverageScore   int             `json:"averageScore"`
	Actions        []Action        `json:"actions"`
	Action         string          `json:"action"`
	RelatedUnit    string          `json:"relatedUnit"`
	AdditionalInfo *AdditionalInfo `json:"additionalInfo,omitempty"`
}

// Report maps "group_<id>" to the group's result.
type Report map[string]GroupResult

// ReportKey builds the report key for a group id.
func ReportKey(groupID int) string {
	return "group_" + strconv.Itoa(groupID)
}

// Get returns the result for a group id.
func (r Report) Get(groupID int) (GroupResult, bool) {
	res, ok := r[ReportKey(groupID)]
	return res, ok
}

// Results returns all results ordered by group id.
func (r Report) Results() []GroupResult {
	results := make([]GroupResult, 0, len(r))
	for _, res := range r {
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].GroupID < results[j].GroupID })
	return results
}

// Critical returns the critical results ordered by group id.
func (r Report) Critical() []GroupResult {
	var critical []GroupResult
	for _, res := range r.Results() {
		if res.Band == BandCritical {
			critical = append(critical, res)
		}
	}
	return critical
}

// DimensionRows is one dimension's block of report rows.
type DimensionRows struct {
	Dimension string        `json:"dimension"`
	Rows      []GroupResult `json:"rows"`
}

// ByDimension groups results by dimension in catalog order. Groups missing
// from the report are left out.
func (r Report) ByDimension(catalog *Catalog) []DimensionRows {
	var blocks []DimensionRows
	index := make(map[string]int)

	for _, g := range catalog.Groups {
		res, ok := r.Get(g.ID)
		if !ok {
			continue
		}
		i, seen := index[g.Dimension]
		if !seen {
			i = len(blocks)
			index[g.Dimension] = i
			blocks = append(blocks, DimensionRows{Dimension: g.Dimension})
		}
		blocks[i].Rows = append(blocks[i].Rows, res)
	}
	return blocks
}

// JoinActions renders an action list for display.
func JoinActions(actions []Action) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = string(a)
	}
	return strings.Join(parts, ", ")
}
