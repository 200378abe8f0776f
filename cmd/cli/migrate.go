package cli

import (
	"log"

	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/axellelanca/linkbio/cmd"
	"github.com/axellelanca/linkbio/internal/config"
	"github.com/axellelanca/linkbio/internal/models"
)

// MigrateCmd is the 'migrate' Cobra command, which runs the GORM
// auto-migrations for all application models.
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Runs the database migrations (GORM AutoMigrate).",
	Long: `This command connects to the configured database and creates or
updates the tables for users, profiles, links, clicks and refresh tokens.`,
	Run: func(cobraCmd *cobra.Command, args []string) {
		db := openDatabase()

		if err := db.AutoMigrate(
			&models.User{},
			&models.Profile{},
			&models.Link{},
			&models.Click{},
			&models.RefreshToken{},
		); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		log.Println("Database migrations completed successfully.")
	},
}

// openDatabase loads the configuration and opens the SQLite database the same
// way the server does, so CLI commands and the server always agree on the
// error translation behavior.
func openDatabase() *gorm.DB {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

func init() {
	cmd.RootCmd.AddCommand(MigrateCmd)
}
