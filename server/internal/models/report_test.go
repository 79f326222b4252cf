package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandText(t *testing.T) {
	for _, b := range []Band{BandCritical, BandWatch, BandStable} {
		text, err := b.MarshalText()
		require.NoError(t, err)

		var decoded Band
		require.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, b, decoded)
	}

	assert.True(t, BandCritical < BandWatch && BandWatch < BandStable)
	assert.Equal(t, "band(7)", Band(7).String())

	var b Band
	assert.Error(t, b.UnmarshalText([]byte("severe")))
	_, err := Band(7).MarshalText()
	assert.Error(t, err)
}

func TestAnswersValidate(t *testing.T) {
	catalog := &Catalog{Variant: "v", Groups: []Group{
		{ID: 1, QuestionIDs: []int{1, 2}, CriticalAction: ReferToNurse, RelatedUnit: "Nursing"},
	}}
	require.NoError(t, catalog.Validate())

	assert.NoError(t, Answers{1: 1, 2: 6}.Validate(catalog))
	assert.NoError(t, Answers{}.Validate(catalog))
	assert.Error(t, Answers{1: 0}.Validate(catalog))
	assert.Error(t, Answers{2: 7}.Validate(catalog))
	assert.Error(t, Answers{3: 4}.Validate(catalog))
}

func TestAnswersMerge(t *testing.T) {
	base := Answers{1: 2, 2: 3}
	merged := base.Merge(Answers{2: 5, 3: 1})

	assert.Equal(t, Answers{1: 2, 2: 5, 3: 1}, merged)
	assert.Equal(t, Answers{1: 2, 2: 3}, base)
	assert.Equal(t, Answers{4: 4}, Answers(nil).Merge(Answers{4: 4}))
}

func TestAnswersJSONKeys(t *testing.T) {
	var answers Answers
	require.NoError(t, json.Unmarshal([]byte(`{"1": 4, "12": 6}`), &answers))
	assert.Equal(t, Answers{1: 4, 12: 6}, answers)
}

func TestReportByDimension(t *testing.T) {
	catalog := &Catalog{Variant: "v", Groups: []Group{
		{ID: 1, Dimension: "Physical", QuestionIDs: []int{1}},
		{ID: 2, Dimension: "Emotional", QuestionIDs: []int{2}},
		{ID: 3, Dimension: "Physical", QuestionIDs: []int{3}},
		{ID: 4, Dimension: "Social", QuestionIDs: []int{4}},
	}}

	report := Report{
		ReportKey(3): {GroupID: 3, Dimension: "Physical", Band: BandCritical},
		ReportKey(1): {GroupID: 1, Dimension: "Physical", Band: BandStable},
		ReportKey(2): {GroupID: 2, Dimension: "Emotional", Band: BandWatch},
	}

	blocks := report.ByDimension(catalog)
	require.Len(t, blocks, 2)
	assert.Equal(t, "Physical", blocks[0].Dimension)
	require.Len(t, blocks[0].Rows, 2)
	assert.Equal(t, 1, blocks[0].Rows[0].GroupID)
	assert.Equal(t, 3, blocks[0].Rows[1].GroupID)
	assert.Equal(t, "Emotional", blocks[1].Dimension)

	critical := report.Critical()
	require.Len(t, critical, 1)
	assert.Equal(t, 3, critical[0].GroupID)

	results := report.Results()
	assert.Equal(t, []int{1, 2, 3}, []int{results[0].GroupID, results[1].GroupID, results[2].GroupID})
}

func TestJoinActions(t *testing.T) {
	assert.Equal(t, "", JoinActions(nil))
	assert.Equal(t, "refer_physical_therapy, refer_care_manager_or_physician",
		JoinActions([]Action{ReferToPhysicalTherapy, ReferToCareManagerOrPhysician}))
}
