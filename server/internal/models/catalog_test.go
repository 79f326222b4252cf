package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `variant: sample
title: Sample
reverse_scored: [3]
groups:
  - id: 1
    dimension: Physical functioning
    questions_label: "1-2"
    label: Mobility
    questions: [1, 2]
    follow_up: mobility
    related_unit: Rehabilitation
  - id: 2
    dimension: Physical functioning
    questions_label: "3"
    label: Self care
    questions: [3]
    critical_action: refer_nurse
    related_unit: Nursing
  - id: 3
    dimension: Education
    questions_label: "4"
    label: Topics
    questions: [4]
    follow_up: topic
    critical_action: provide_education
    related_unit: Health education
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCatalog(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sample.yaml", sampleCatalog)

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)

	assert.Equal(t, "sample", catalog.Variant)
	assert.Equal(t, []int{1, 2, 3}, catalog.GroupIDs())
	assert.Equal(t, []int{1, 2, 3, 4}, catalog.QuestionIDs())
	assert.True(t, catalog.IsReverseScored(3))
	assert.False(t, catalog.IsReverseScored(1))

	g, ok := catalog.Group(1)
	require.True(t, ok)
	assert.Equal(t, FollowUpMobility, g.FollowUp)
	assert.Equal(t, "1-2", g.QuestionsLabel)

	_, ok = catalog.Group(9)
	assert.False(t, ok)
}

func TestLoadCatalogVariantFromFileName(t *testing.T) {
	content := "groups:\n  - id: 1\n    questions: [1]\n    critical_action: refer_nurse\n    related_unit: Nursing\n"
	path := writeFile(t, t.TempDir(), "clinic.yaml", content)

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, "clinic", catalog.Variant)
}

func TestLoadCatalogErrors(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeFile(t, t.TempDir(), "bad.yaml", "groups:\n\t- id: 1\n")
	_, err = LoadCatalog(path)
	assert.Error(t, err)
}

func TestCatalogValidate(t *testing.T) {
	valid := func() Catalog {
		return Catalog{
			Variant: "v",
			Groups: []Group{
				{ID: 1, QuestionIDs: []int{1, 2}, FollowUp: FollowUpMobility, RelatedUnit: "Rehabilitation"},
				{ID: 2, QuestionIDs: []int{3}, CriticalAction: ReferToNurse, RelatedUnit: "Nursing"},
			},
			ReverseScored: []int{3},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Catalog)
	}{
		{"no groups", func(c *Catalog) { c.Groups = nil }},
		{"empty question list", func(c *Catalog) { c.Groups[1].QuestionIDs = nil }},
		{"duplicate group id", func(c *Catalog) { c.Groups[1].ID = 1 }},
		{"shared question", func(c *Catalog) { c.Groups[1].QuestionIDs = []int{2} }},
		{"non-positive question", func(c *Catalog) { c.Groups[1].QuestionIDs = []int{0} }},
		{"missing critical action", func(c *Catalog) { c.Groups[1].CriticalAction = "" }},
		{"unknown critical action", func(c *Catalog) { c.Groups[1].CriticalAction = "call_a_friend" }},
		{"missing related unit", func(c *Catalog) { c.Groups[0].RelatedUnit = " " }},
		{"unknown follow up", func(c *Catalog) { c.Groups[1].FollowUp = "diet" }},
		{"two mobility groups", func(c *Catalog) { c.Groups[1].FollowUp = FollowUpMobility }},
		{"orphan reverse-scored id", func(c *Catalog) { c.ReverseScored = []int{7} }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestLoadCatalogDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sample.yaml", sampleCatalog)
	writeFile(t, dir, "other.yml", "variant: other\ngroups:\n  - id: 1\n    questions: [1]\n    critical_action: refer_nurse\n    related_unit: Nursing\n")
	writeFile(t, dir, "README.md", "not a catalog")

	set, err := LoadCatalogDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"other", "sample"}, set.Variants())
}

func TestLoadCatalogDirRejectsDuplicateVariant(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", sampleCatalog)
	writeFile(t, dir, "b.yaml", sampleCatalog)

	_, err := LoadCatalogDir(dir)
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestLoadCatalogDirEmpty(t *testing.T) {
	_, err := LoadCatalogDir(t.TempDir())
	assert.Error(t, err)
}

func TestShippedCatalogsAreValid(t *testing.T) {
	set, err := LoadCatalogDir(filepath.Join("..", "..", "..", "config", "surveys"))
	require.NoError(t, err)
	assert.Contains(t, set.Variants(), "standard")
}
