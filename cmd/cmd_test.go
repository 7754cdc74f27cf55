package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command against a private database and returns
// stdout. Flag values are reset afterwards since the commands are globals.
func runCLI(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ROADREADY_CONFIG", "")
	t.Setenv("ROADREADY_LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--db", db}, args...))
	defer resetFlags(rootCmd)

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func testDB(t *testing.T) string {
	return filepath.Join(t.TempDir(), "data", "roadready.db")
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, testDB(t), "version")
	require.NoError(t, err)
	assert.Equal(t, "roadready (devel)\n", out)
}

func TestLevels(t *testing.T) {
	out, err := runCLI(t, testDB(t), "levels")
	require.NoError(t, err)
	assert.Contains(t, out, "0  [Not rated]    0%")
	assert.Contains(t, out, "3  [Fair]   60%")
	assert.Contains(t, out, "5  [Excellent]  100%")
}

func TestSkillList_SeedsDefaultCatalog(t *testing.T) {
	db := testDB(t)

	out, err := runCLI(t, db, "skill", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Advanced Maneuvers (advanced)")
	assert.Contains(t, out, "parallel-parking")

	out, err = runCLI(t, db, "skill", "list", "--category", "traffic-rules")
	require.NoError(t, err)
	assert.Contains(t, out, "roundabouts")
	assert.NotContains(t, out, "parallel-parking")
	assert.Contains(t, out, "5 skills")

	_, err = runCLI(t, db, "skill", "list", "--category", "nope")
	assert.Error(t, err)
}

func TestStudentRateReport(t *testing.T) {
	db := testDB(t)

	out, err := runCLI(t, db, "student", "add", "Noa", "Levi")
	require.NoError(t, err)
	assert.Contains(t, out, "added Noa Levi (")

	out, err = runCLI(t, db, "student", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Noa Levi")

	out, err = runCLI(t, db, "rate", "noa levi", "parallel-parking", "5", "--note", "clean first try")
	require.NoError(t, err)
	assert.Contains(t, out, "Parallel parking rated [Excellent]")
	assert.Contains(t, out, "Not learned -> Mastered")

	// Unrated skills do not count against readiness.
	out, err = runCLI(t, db, "report", "Noa Levi")
	require.NoError(t, err)
	assert.Contains(t, out, "READY FOR TEST")
	assert.Contains(t, out, "Parallel parking")

	out, err = runCLI(t, db, "rate", "Noa Levi", "roundabouts", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Roundabouts rated [Basic]")

	out, err = runCLI(t, db, "report", "Noa Levi", "--json")
	require.NoError(t, err)
	var rep struct {
		Readiness struct {
			Avg   float64 `json:"avg"`
			Ready bool    `json:"ready"`
		} `json:"readiness"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 3.5, rep.Readiness.Avg)
	assert.False(t, rep.Readiness.Ready)

	out, err = runCLI(t, db, "history", "Noa Levi")
	require.NoError(t, err)
	assert.Contains(t, out, "2/22 rated  not ready")
	assert.Contains(t, out, "1/22 rated  ready")

	out, err = runCLI(t, db, "history", "Noa Levi", "--events")
	require.NoError(t, err)
	assert.Contains(t, out, "parallel-parking")
	assert.Contains(t, out, "0 -> 5")
	assert.Contains(t, out, "clean first try")

	// Sequences: 1 for parallel-parking, 2 for roundabouts.
	out, err = runCLI(t, db, "history", "Noa Levi", "--since", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "roundabouts")
	assert.NotContains(t, out, "parallel-parking")
}

func TestRate_Errors(t *testing.T) {
	db := testDB(t)
	_, err := runCLI(t, db, "student", "add", "Avi")
	require.NoError(t, err)

	_, err = runCLI(t, db, "rate", "Avi", "parallel-parking", "five")
	assert.ErrorContains(t, err, "whole number")

	_, err = runCLI(t, db, "rate", "Avi", "parallel-parking", "6")
	assert.Error(t, err)

	_, err = runCLI(t, db, "rate", "Avi", "drifting", "3")
	assert.Error(t, err)

	_, err = runCLI(t, db, "rate", "Nobody", "parallel-parking", "3")
	assert.Error(t, err)
}

func TestTeacherFlag_ScopesStudents(t *testing.T) {
	db := testDB(t)
	_, err := runCLI(t, db, "--teacher", "dana", "student", "add", "Maya")
	require.NoError(t, err)

	out, err := runCLI(t, db, "student", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Maya")

	out, err = runCLI(t, db, "--teacher", "dana", "student", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Maya")
}

func TestCatalogImportExport(t *testing.T) {
	db := testDB(t)
	file := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`categories:
  - id: basics
    name: Basics
    skills:
      - id: steering
        name: Steering
  - id: maneuvers
    name: Maneuvers
    advanced: true
    skills:
      - id: parking
        name: Parking
`), 0o600))

	out, err := runCLI(t, db, "catalog", "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 categories, 2 skills")

	out, err = runCLI(t, db, "catalog", "export")
	require.NoError(t, err)
	assert.Contains(t, out, "id: parking")
	assert.NotContains(t, out, "parallel-parking")

	out, err = runCLI(t, db, "catalog", "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "4 categories, 22 skills")
}
