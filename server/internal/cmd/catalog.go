package cmd

import (
	"fmt"

	"github.com/bait0ngxaxa/survey-sub000/server/internal/config"
	"github.com/bait0ngxaxa/survey-sub000/server/internal/models"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect survey catalogs",
}

//nolint:gochecknoglobals // Cobra boilerplate
var catalogValidateCmd = &cobra.Command{
	Use:   "validate [directory]",
	Short: "Load and validate every survey catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCatalogValidate,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	catalogCmd.AddCommand(catalogValidateCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	dir := ""
	if len(args) == 1 {
		dir = args[0]
	} else {
		conf, _, err := config.Load(projectRoot)
		if err != nil {
			return err
		}
		dir = conf.Survey.Directory
	}

	out := cmd.OutOrStdout()
	catalogs, err := models.LoadCatalogDir(dir)
	if err != nil {
		color.New(color.FgRed).Fprintf(out, "FAIL %v\n", err)
		return err
	}

	green := color.New(color.FgGreen)
	for _, name := range catalogs.Variants() {
		c := catalogs[name]
		green.Fprint(out, "OK")
		fmt.Fprintf(out, "   %s: %d groups, %d questions, %d reverse-scored\n",
			name, len(c.Groups), len(c.QuestionIDs()), len(c.ReverseScored))
	}
	return nil
}
