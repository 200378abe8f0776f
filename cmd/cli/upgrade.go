package cli

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/axellelanca/linkbio/cmd"
	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/repository"
)

var (
	upgradeEmail string
	upgradePlan  string
)

// UpgradeCmd is the 'upgrade' Cobra command. It changes a user's subscription
// tier and sets the matching feature flags. Running servers pick the change up
// on the user's next authenticated request.
var UpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Changes a user's subscription plan (FREE or PRO).",
	Run: func(cobraCmd *cobra.Command, args []string) {
		plan := strings.ToUpper(upgradePlan)
		if plan != models.PlanFree && plan != models.PlanPro {
			fmt.Fprintf(os.Stderr, "Invalid plan '%s': must be %s or %s.\n",
				upgradePlan, models.PlanFree, models.PlanPro)
			os.Exit(1)
		}

		db := openDatabase()
		userRepo := repository.NewUserRepository(db)

		user, err := userRepo.GetUserByEmail(upgradeEmail)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fmt.Fprintf(os.Stderr, "No user found for email '%s'.\n", upgradeEmail)
				os.Exit(1)
			}
			log.Fatalf("Failed to load user: %v", err)
		}

		features := models.FeatureFlags{}
		if plan == models.PlanPro {
			features = models.FeatureFlags{
				CustomDomains:     true,
				AdvancedAnalytics: true,
				CustomOGImage:     true,
				RemoveBranding:    true,
				ExtraThemes:       true,
			}
		}

		if err := userRepo.UpdatePlan(user.ID, plan, features); err != nil {
			log.Fatalf("Failed to update plan: %v", err)
		}

		fmt.Printf("User '%s' is now on the %s plan.\n", user.Email, plan)
	},
}

func init() {
	UpgradeCmd.Flags().StringVar(&upgradeEmail, "email", "", "Email of the user to update (required)")
	UpgradeCmd.Flags().StringVar(&upgradePlan, "plan", models.PlanPro, "Target plan: FREE or PRO")
	UpgradeCmd.MarkFlagRequired("email")
	cmd.RootCmd.AddCommand(UpgradeCmd)
}
