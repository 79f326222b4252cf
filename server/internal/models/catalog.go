package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog is returned by Validate for any malformed survey definition.
var ErrInvalidCatalog = errors.New("invalid survey catalog")

// FollowUpKind marks the groups whose critical path reads follow-up flags.
type FollowUpKind string

const (
	FollowUpNone     FollowUpKind = ""
	FollowUpMobility FollowUpKind = "mobility"
	FollowUpTopic    FollowUpKind = "topic"
)

// Group is one sub-scale of a survey variant.
type Group struct {
	ID             int          `yaml:"id" json:"id"`
	Dimension      string       `yaml:"dimension" json:"dimension"`
	QuestionsLabel string       `yaml:"questions_label" json:"questionsLabel"`
	Label          string       `yaml:"label" json:"label"`
	QuestionIDs    []int        `yaml:"questions" json:"questions"`
	FollowUp       FollowUpKind `yaml:"follow_up,omitempty" json:"followUp,omitempty"`
	CriticalAction Action       `yaml:"critical_action,omitempty" json:"criticalAction,omitempty"`
	RelatedUnit    string       `yaml:"related_unit" json:"relatedUnit"`
}

// Catalog is the static definition of a survey variant. It is read-only once loaded.
type Catalog struct {
	Variant       string  `yaml:"variant" json:"variant"`
	Title         string  `yaml:"title" json:"title"`
	Groups        []Group `yaml:"groups" json:"groups"`
	ReverseScored []int   `yaml:"reverse_scored" json:"reverseScored"`

	groupIndex map[int]int
	reverse    map[int]bool
}

// LoadCatalog reads, parses and validates a survey variant YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog YAML: %w", err)
	}
	if catalog.Variant == "" {
		catalog.Variant = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &catalog, nil
}

// Validate checks the catalog for structural errors and builds its lookup indexes.
func (c *Catalog) Validate() error {
	if len(c.Groups) == 0 {
		return fmt.Errorf("%w: variant %q has no groups", ErrInvalidCatalog, c.Variant)
	}

	groupIndex := make(map[int]int, len(c.Groups))
	owner := make(map[int]int)
	followUps := make(map[FollowUpKind]int)

	for i, g := range c.Groups {
		if _, dup := groupIndex[g.ID]; dup {
			return fmt.Errorf("%w: duplicate group id %d", ErrInvalidCatalog, g.ID)
		}
		groupIndex[g.ID] = i

		if len(g.QuestionIDs) == 0 {
			return fmt.Errorf("%w: group %d has no questions", ErrInvalidCatalog, g.ID)
		}
		for _, q := range g.QuestionIDs {
			if q <= 0 {
				return fmt.Errorf("%w: group %d has non-positive question id %d", ErrInvalidCatalog, g.ID, q)
			}
			if other, taken := owner[q]; taken {
				return fmt.Errorf("%w: question %d belongs to groups %d and %d", ErrInvalidCatalog, q, other, g.ID)
			}
			owner[q] = g.ID
		}

		switch g.FollowUp {
		case FollowUpNone, FollowUpTopic:
			if g.CriticalAction == "" {
				return fmt.Errorf("%w: group %d has no critical action", ErrInvalidCatalog, g.ID)
			}
		case FollowUpMobility:
			// critical actions come from the follow-up flags
		default:
			return fmt.Errorf("%w: group %d has unknown follow_up %q", ErrInvalidCatalog, g.ID, g.FollowUp)
		}
		if g.FollowUp != FollowUpNone {
			followUps[g.FollowUp]++
			if followUps[g.FollowUp] > 1 {
				return fmt.Errorf("%w: more than one %s group", ErrInvalidCatalog, g.FollowUp)
			}
		}

		if g.CriticalAction != "" && !g.CriticalAction.Known() {
			return fmt.Errorf("%w: group %d has unknown critical action %q", ErrInvalidCatalog, g.ID, g.CriticalAction)
		}
		if strings.TrimSpace(g.RelatedUnit) == "" {
			return fmt.Errorf("%w: group %d has no related unit", ErrInvalidCatalog, g.ID)
		}
	}

	reverse := make(map[int]bool, len(c.ReverseScored))
	for _, q := range c.ReverseScored {
		if _, ok := owner[q]; !ok {
			return fmt.Errorf("%w: reverse-scored question %d is not in any group", ErrInvalidCatalog, q)
		}
		reverse[q] = true
	}

	c.groupIndex = groupIndex
	c.reverse = reverse
	return nil
}

// Group looks up a group definition by id.
func (c *Catalog) Group(id int) (Group, bool) {
	if c.groupIndex == nil {
		for _, g := range c.Groups {
			if g.ID == id {
				return g, true
			}
		}
		return Group{}, false
	}
	i, ok := c.groupIndex[id]
	if !ok {
		return Group{}, false
	}
	return c.Groups[i], true
}

// IsReverseScored reports whether a question is negatively phrased.
func (c *Catalog) IsReverseScored(questionID int) bool {
	return c.ReverseScoredSet()[questionID]
}

// ReverseScoredSet returns the reverse-scored question ids as a set.
func (c *Catalog) ReverseScoredSet() map[int]bool {
	if c.reverse != nil {
		return c.reverse
	}
	set := make(map[int]bool, len(c.ReverseScored))
	for _, q := range c.ReverseScored {
		set[q] = true
	}
	return set
}

// GroupIDs returns the group ids in catalog order.
func (c *Catalog) GroupIDs() []int {
	ids := make([]int, 0, len(c.Groups))
	for _, g := range c.Groups {
		ids = append(ids, g.ID)
	}
	return ids
}

// QuestionIDs returns every question id referenced by the catalog, sorted.
func (c *Catalog) QuestionIDs() []int {
	var ids []int
	for _, g := range c.Groups {
		ids = append(ids, g.QuestionIDs...)
	}
	sort.Ints(ids)
	return ids
}

// HasQuestion reports whether any group references the question.
func (c *Catalog) HasQuestion(questionID int) bool {
	for _, g := range c.Groups {
		for _, q := range g.QuestionIDs {
			if q == questionID {
				return true
			}
		}
	}
	return false
}

// CatalogSet holds every loaded survey variant keyed by variant name.
type CatalogSet map[string]*Catalog

// LoadCatalogDir loads all *.yaml and *.yml files in dir.
func LoadCatalogDir(dir string) (CatalogSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog directory: %w", err)
	}

	set := make(CatalogSet)
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		catalog, err := LoadCatalog(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if _, dup := set[catalog.Variant]; dup {
			return nil, fmt.Errorf("%w: variant %q defined twice", ErrInvalidCatalog, catalog.Variant)
		}
		set[catalog.Variant] = catalog
	}

	if len(set) == 0 {
		return nil, fmt.Errorf("no survey catalogs found in %s", dir)
	}
	return set, nil
}

// Variants returns the loaded variant names, sorted.
func (s CatalogSet) Variants() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
