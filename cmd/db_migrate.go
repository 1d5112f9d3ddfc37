package cmd

import (
	"synth/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/spf13/cobra"
)

// command for migrating database
var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Aliases: []string{"setdb"},
	Short:   "migrate collateral, debt and transaction tables",
	Run: func(cmd *cobra.Command, args []string) {
		if cfg.App.Storage != core.StorageDB {
			cmd.PrintErrln("storage is", cfg.App.Storage, "nothing to migrate")
			return
		}

		database := provideDatabase()
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			cmd.PrintErrln("migrate database error:", err)
			return
		}

		cmd.Println("migrated")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
