package cmd

import (
	"github.com/spf13/cobra"

	"github.com/roadready/roadready/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history <student>",
	Short: "Show how a student's readiness changed over time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		events, _ := cmd.Flags().GetBool("events")
		since, _ := cmd.Flags().GetInt64("since")

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

		r := e.renderer(cmd)
		if events || since > 0 {
			opts := store.QueryOpts{Limit: limit, After: since}
			list, err := e.progress.ScoreEvents(ctx, e.teacherID, st.ID, opts)
			if err != nil {
				return err
			}
			r.Events(list)
			return nil
		}

		snaps, err := e.progress.History(ctx, e.teacherID, st.ID, limit)
		if err != nil {
			return err
		}
		r.History(snaps)
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum entries to show (0 for all)")
	historyCmd.Flags().Bool("events", false, "Show individual score changes instead of readiness snapshots")
	historyCmd.Flags().Int64("since", 0, "Only score changes after this sequence number (implies --events)")
}
