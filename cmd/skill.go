package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Browse the skill catalog",
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all skills (optionally filtered by category)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		cat, err := e.progress.Catalog(cmd.Context(), e.teacherID)
		if err != nil {
			return err
		}
		if category != "" {
			if _, err := cat.Category(category); err != nil {
				return fmt.Errorf("no skills found for category %q", category)
			}
		}
		e.renderer(cmd).Catalog(cat, category)
		return nil
	},
}

func init() {
	skillListCmd.Flags().String("category", "", "Filter by category ID (e.g. advanced-maneuvers)")

	skillCmd.AddCommand(skillListCmd)
}
