package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/bait0ngxaxa/survey-sub000/server/internal/config"
	"github.com/bait0ngxaxa/survey-sub000/server/internal/models"
	"github.com/bait0ngxaxa/survey-sub000/server/internal/triage"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	scoreVariant string
	scoreAnswers string
	scoreJSON    bool
)

//nolint:gochecknoglobals // Cobra boilerplate
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score an answer file and print the triage report",
	Long: `Scores a JSON answer file against a survey variant without touching the database.

The file holds the raw answers keyed by question id and the optional follow-up flags:

  {"answers": {"1": 4, "2": 6}, "followUp": {"movementLimit": true, "tired": false, "topic": "diet"}}

Examples:
  triage score --answers answers.json
  triage score --variant short --answers answers.json --json`,
	RunE: runScore,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().StringVar(&scoreVariant, "variant", "", "survey variant (default from config)")
	scoreCmd.Flags().StringVar(&scoreAnswers, "answers", "", "path to the JSON answer file")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "print the report as JSON")
	_ = scoreCmd.MarkFlagRequired("answers")
}

type answerFile struct {
	Variant  string          `json:"variant"`
	Answers  models.Answers  `json:"answers"`
	FollowUp models.FollowUp `json:"followUp"`
}

func runScore(cmd *cobra.Command, args []string) error {
	conf, _, err := config.Load(projectRoot)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(scoreAnswers)
	if err != nil {
		return fmt.Errorf("failed to read answer file: %w", err)
	}
	var input answerFile
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("failed to parse answer file: %w", err)
	}

	variant := scoreVariant
	if variant == "" {
		variant = input.Variant
	}
	if variant == "" {
		variant = conf.Survey.DefaultVariant
	}

	catalogs, err := models.LoadCatalogDir(conf.Survey.Directory)
	if err != nil {
		return err
	}
	catalog, ok := catalogs[variant]
	if !ok {
		return fmt.Errorf("unknown survey variant %q", variant)
	}
	if err := input.Answers.Validate(catalog); err != nil {
		return err
	}

	report := triage.AssembleAll(catalog, input.Answers, input.FollowUp)
	missing := triage.MissingQuestions(catalog, input.Answers)

	if scoreJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Variant string        `json:"variant"`
			Missing []int         `json:"missing,omitempty"`
			Report  models.Report `json:"report"`
		}{catalog.Variant, missing, report})
	}

	return renderReport(cmd.OutOrStdout(), catalog, report, missing)
}

func bandLabel(b models.Band) string {
	switch b {
	case models.BandCritical:
		return color.New(color.FgRed, color.Bold).Sprint(b.String())
	case models.BandWatch:
		return color.New(color.FgYellow).Sprint(b.String())
	default:
		return color.New(color.FgGreen).Sprint(b.String())
	}
}

func renderReport(w io.Writer, catalog *models.Catalog, report models.Report, missing []int) error {
	bold := color.New(color.Bold)
	bold.Fprintf(w, "%s (%s)\n", catalog.Title, catalog.Variant)

	if len(missing) > 0 {
		color.New(color.FgYellow).Fprintf(w, "warning: %d unanswered question(s): %v\n", len(missing), missing)
	}

	for _, block := range report.ByDimension(catalog) {
		fmt.Fprintln(w)
		bold.Fprintln(w, block.Dimension)

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, res := range block.Rows {
			fmt.Fprintf(tw, "  %s\t%s\t%d\t%s\t%s\t%s\n",
				res.QuestionsLabel, res.Label, res.AverageScore, bandLabel(res.Band), res.Action, res.RelatedUnit)
			if info := res.AdditionalInfo; info != nil {
				fmt.Fprintf(tw, "  \t%s\t\t\t\t\n", describeInfo(info))
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func describeInfo(info *models.AdditionalInfo) string {
	switch {
	case info.Topic != nil:
		return fmt.Sprintf("topic: %q", *info.Topic)
	case info.MovementLimit != nil && info.Tired != nil:
		return fmt.Sprintf("movement limit: %t, tired: %t", *info.MovementLimit, *info.Tired)
	default:
		return ""
	}
}
