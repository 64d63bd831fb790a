package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/skyview/internal/report"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Show the natal chart, optionally with current transits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sections := report.SectionNatal
		if transits, _ := cmd.Flags().GetBool("transits"); transits {
			sections |= report.SectionTransit
		}
		return runReport(cmd, sections)
	},
}

var dashaCmd = &cobra.Command{
	Use:   "dasha",
	Short: "List Vimshottari Mahadashas and the running Antardashas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, report.SectionDasha)
	},
}

var aspectsCmd = &cobra.Command{
	Use:   "aspects",
	Short: "Show transit aspects to natal planets and house activity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, report.SectionTransit|report.SectionAspects|report.SectionHouses)
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Rank current transits by the running Dasha lords",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sections := report.SectionPredictions
		if full, _ := cmd.Flags().GetBool("full"); full {
			sections = fullReport
		}
		return runReport(cmd, sections)
	},
}

// fullReport is every section.
const fullReport = report.SectionNatal | report.SectionTransit | report.SectionDasha |
	report.SectionAspects | report.SectionHouses | report.SectionPredictions

func init() {
	chartCmd.Flags().Bool("transits", false, "also show the transit chart")
	predictCmd.Flags().Bool("full", false, "include charts, periods and house activity")

	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(dashaCmd)
	rootCmd.AddCommand(aspectsCmd)
	rootCmd.AddCommand(predictCmd)
}
