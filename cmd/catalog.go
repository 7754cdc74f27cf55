package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roadready/roadready/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the teacher's skill catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the catalog with one read from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.LoadFile(args[0])
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.progress.ImportCatalog(cmd.Context(), e.teacherID, c); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d categories, %d skills\n", len(c.Categories), len(c.Skills))
		return nil
	},
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the catalog with the built-in driving curriculum",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		c := catalog.Default()
		if err := e.progress.ImportCatalog(cmd.Context(), e.teacherID, c); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "installed built-in catalog: %d categories, %d skills\n", len(c.Categories), len(c.Skills))
		return nil
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the current catalog as YAML to stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		c, err := e.progress.Catalog(cmd.Context(), e.teacherID)
		if err != nil {
			return err
		}
		return catalog.WriteYAML(cmd.OutOrStdout(), c)
	},
}

func init() {
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogSeedCmd)
	catalogCmd.AddCommand(catalogExportCmd)
}
