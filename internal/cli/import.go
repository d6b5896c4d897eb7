package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/nagmodel/internal/config"
	"github.com/aidanlsb/nagmodel/internal/store"
	"github.com/aidanlsb/nagmodel/internal/ui"
)

var importCmd = &cobra.Command{
	Use:   "import <snapshot.yaml>",
	Short: "Load a YAML snapshot into the SQLite store",
	Long: `Replace the contents of the SQLite database with the definitions and
resources of a YAML snapshot. The database is created when missing.

The database is taken from --db, or from database in config.toml.

Examples:
  nagmodel import objects.yaml --db objects.db
  nagmodel --db objects.db list host`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := strings.TrimSpace(databaseFlag)
		if dbPath == "" {
			dbPath = config.ResolvePath(resolvedConfigPath, getConfig().Database)
		}
		if dbPath == "" {
			return handleErrorMsg(ErrMissingArgument, "no database given", "Pass --db or set database in config.toml")
		}

		snap, err := store.LoadSnapshot(args[0])
		if err != nil {
			return handleError(ErrFileNotFound, err, "")
		}

		db, err := store.OpenSQLite(dbPath)
		if err != nil {
			return handleError(ErrStoreError, err, "")
		}
		defer db.Close()

		if err := db.Import(snap.Records(), snap.Resources); err != nil {
			return handleError(ErrStoreError, err, "")
		}
		getLogger().WithField("database", dbPath).Infof("imported %d definitions", len(snap.Definitions))

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"snapshot":    args[0],
				"database":    dbPath,
				"definitions": len(snap.Definitions),
				"resources":   len(snap.Resources),
			}, &Meta{Count: len(snap.Definitions), Store: config.StoreSQLite, Source: dbPath})
			return nil
		}
		fmt.Println(ui.Successf("Imported %s and %s into %s",
			ui.Count(len(snap.Definitions), "definition", "definitions"),
			ui.Count(len(snap.Resources), "resource", "resources"),
			dbPath))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
