package cmd

import (
	"github.com/spf13/cobra"

	"github.com/roadready/roadready/internal/report"
	"github.com/roadready/roadready/internal/scoring"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show the six skill levels",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		report.New(cmd.OutOrStdout()).Levels(scoring.AllLevels())
	},
}
