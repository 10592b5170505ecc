package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/killallgit/blog-discovery-api/internal/database"
	"github.com/killallgit/blog-discovery-api/internal/models"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Manage the database schema of the Blog Discovery API.

Available subcommands:
  up      - Create or update every table
  status  - Show which tables exist`,
}

// migrateUpCmd applies the schema
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Create or update every table",
	Long: `Bring the database schema up to date.

Missing tables, columns and indexes are created. Existing data is kept.`,
	RunE: runMigrateUp,
}

// migrateStatusCmd shows schema status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show schema status",
	Long: `Display the current status of the database schema.

Every table the service needs is listed as present or missing.`,
	RunE: runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	db, err := openDatabase(appConfig)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date (%s)\n", appConfig.Database.Path)
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	db, err := database.Initialize(appConfig.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	tables, err := db.Tables()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Database Schema Status")
	fmt.Fprintln(out, strings.Repeat("=", 40))

	missing := 0
	for _, name := range expectedTables(db) {
		state := "present"
		if !slices.Contains(tables, name) {
			state = "missing"
			missing++
		}
		fmt.Fprintf(out, "  %-20s %s\n", name, state)
	}

	if missing > 0 {
		fmt.Fprintf(out, "\n%d table(s) missing, run 'migrate up'\n", missing)
	} else {
		fmt.Fprintln(out, "\nAll tables present")
	}
	return nil
}

// expectedTables resolves the table name of every model
func expectedTables(db *database.DB) []string {
	var names []string
	for _, m := range models.All() {
		stmt := db.DB.Model(m).Statement
		if err := stmt.Parse(m); err == nil {
			names = append(names, stmt.Schema.Table)
		}
	}
	slices.Sort(names)
	return names
}
