package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var studentCmd = &cobra.Command{
	Use:   "student",
	Short: "Manage students",
}

var studentAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a student",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		st, err := e.progress.AddStudent(cmd.Context(), e.teacherID, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", st.Name, st.ID)
		return nil
	},
}

var studentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List students",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		list, err := e.progress.Students(cmd.Context(), e.teacherID)
		if err != nil {
			return err
		}
		e.renderer(cmd).Students(list)
		return nil
	},
}

func init() {
	studentCmd.AddCommand(studentAddCmd)
	studentCmd.AddCommand(studentListCmd)
}
