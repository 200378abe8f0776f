package cli

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/axellelanca/linkbio/cmd"
	"github.com/axellelanca/linkbio/internal/repository"
)

// StatsCmd is the 'stats' Cobra command. It prints page views, link count and
// total clicks for a public profile, looked up by username.
var StatsCmd = &cobra.Command{
	Use:   "stats <username>",
	Short: "Displays view and click statistics for a profile.",
	Args:  cobra.ExactArgs(1),
	Run: func(cobraCmd *cobra.Command, args []string) {
		username := args[0]

		db := openDatabase()
		profileRepo := repository.NewProfileRepository(db)
		linkRepo := repository.NewLinkRepository(db)

		profile, err := profileRepo.GetProfileByUsername(username)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fmt.Fprintf(os.Stderr, "No profile found for username '%s'.\n", username)
				os.Exit(1)
			}
			log.Fatalf("Failed to load profile: %v", err)
		}

		linkCount, err := linkRepo.CountLinksByUserID(profile.UserID)
		if err != nil {
			log.Fatalf("Failed to count links: %v", err)
		}
		totalClicks, err := linkRepo.SumClicksByUserID(profile.UserID)
		if err != nil {
			log.Fatalf("Failed to sum clicks: %v", err)
		}

		fmt.Printf("Profile: %s (@%s)\n", profile.DisplayName, profile.Username)
		fmt.Printf("- Page views:   %d\n", profile.ViewCount)
		fmt.Printf("- Links:        %d\n", linkCount)
		fmt.Printf("- Total clicks: %d\n", totalClicks)
	},
}

func init() {
	cmd.RootCmd.AddCommand(StatsCmd)
}
