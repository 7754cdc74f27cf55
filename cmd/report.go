package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <student>",
	Short: "Show a student's readiness for the driving test",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		st, err := e.progress.FindStudent(ctx, e.teacherID, args[0])
		if err != nil {
			return err
		}
		rep, err := e.progress.Report(ctx, e.teacherID, st.ID)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}
		e.renderer(cmd).Report(rep)
		return nil
	},
}

func init() {
	reportCmd.Flags().Bool("json", false, "Print the report as JSON")
}
