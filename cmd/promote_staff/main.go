// Command promote_staff grants an account staff rights, creating it first
// when --password is given and the account does not exist.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/pushp314/releasenotes-backend/internal/config"
	"github.com/pushp314/releasenotes-backend/internal/database"
	"github.com/pushp314/releasenotes-backend/internal/migrations"
	"github.com/pushp314/releasenotes-backend/internal/models"
	"github.com/pushp314/releasenotes-backend/internal/services"
	"github.com/pushp314/releasenotes-backend/pkg/logger"
	"github.com/pushp314/releasenotes-backend/pkg/utils"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type promoteOptions struct {
	Email    string
	Username string
	Password string
}

// promote marks the user staff and active. It reports whether the user was created.
func promote(db *gorm.DB, opts promoteOptions) (*models.User, bool, error) {
	if opts.Email == "" {
		return nil, false, errors.New("--email is required")
	}

	var user models.User
	created := false
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", opts.Email).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if opts.Password == "" {
				return fmt.Errorf("user %s not found; pass --password to create it", opts.Email)
			}
			hash, err := utils.HashPassword(opts.Password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			username := opts.Username
			if username == "" {
				username = opts.Email
			}
			user = models.User{
				ID:       uuid.New().String(),
				Email:    opts.Email,
				Username: username,
				Password: hash,
			}
			created = true
		case err != nil:
			return err
		case opts.Password != "":
			hash, err := utils.HashPassword(opts.Password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			user.Password = hash
		}

		user.IsActive = true
		user.IsStaff = true
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return services.LogAdminAction(tx, "", models.ActionPromoteStaff, user.ID, "user",
			fmt.Sprintf("Promoted %s to staff", user.Email))
	})
	if err != nil {
		return nil, false, err
	}
	return &user, created, nil
}

func main() {
	var opts promoteOptions

	cmd := &cobra.Command{
		Use:          "promote_staff",
		Short:        "Give an account staff rights so it can obtain API tokens",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadConfig()
			logger.Init(config.AppConfig.Env)
			database.Connect()
			if _, err := migrations.NewMigrator(database.DB).Run(); err != nil {
				return err
			}

			user, created, err := promote(database.DB, opts)
			if err != nil {
				return err
			}
			verb := "Promoted"
			if created {
				verb = "Created"
			}
			cmd.Printf("%s staff user %s (%s)\n", verb, user.Username, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Email, "email", "", "account email")
	cmd.Flags().StringVar(&opts.Username, "username", "", "username for a new account (defaults to the email)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "set this password, creating the account if needed")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
