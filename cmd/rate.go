package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roadready/roadready/internal/progress"
	"github.com/roadready/roadready/internal/scoring"
)

var rateCmd = &cobra.Command{
	Use:   "rate <student> <skill> <score>",
	Short: "Rate a student's skill from 0 (not rated) to 5 (excellent)",
	Long: `Rate a student's skill. <student> is an ID or a name; <skill> is a
skill ID from "roadready skill list". A score of 0 clears the rating.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("score must be a whole number from 0 to 5: %q", args[2])
		}
		note, _ := cmd.Flags().GetString("note")

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

		t, err := e.progress.RateSkill(ctx, progress.RateInput{
			TeacherID: e.teacherID,
			StudentID: st.ID,
			SkillID:   args[1],
			Score:     score,
			Note:      note,
		})
		if err != nil {
			return err
		}

		cat, err := e.progress.Catalog(ctx, e.teacherID)
		if err != nil {
			return err
		}
		name := args[1]
		if sk, err := cat.Skill(args[1]); err == nil {
			name = sk.Name
		}
		e.renderer(cmd).Transition(name, scoring.Score(score), t)
		return nil
	},
}

func init() {
	rateCmd.Flags().String("note", "", "Teacher note stored with the skill")
}
