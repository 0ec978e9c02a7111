package cmd

import (
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mkarani499/video-platform-2/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  "Apply the embedded schema migrations to the configured MySQL database.",
	Run:   runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()

	database := mustOpenDatabase(cfg)
	defer closeDatabase(database)

	goose.SetBaseFS(db.Migrations)
	if err := goose.SetDialect("mysql"); err != nil {
		logrus.WithError(err).Fatal("Failed to set migration dialect")
	}
	if err := goose.Up(database, "migrations"); err != nil {
		logrus.WithError(err).Fatal("Migration failed")
	}

	logrus.Info("Migrations applied")
}
